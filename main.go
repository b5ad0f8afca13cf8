package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/andrewpaige1/studypal-api/config"
	"github.com/andrewpaige1/studypal-api/generator"
	"github.com/andrewpaige1/studypal-api/handlers"
	"github.com/andrewpaige1/studypal-api/logger"
	"github.com/andrewpaige1/studypal-api/middleware"
)

func init() {
	// Load .env file if not in a hosted environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	mode := "development"
	if env.IsProduction() {
		mode = "production"
	}
	appLog, err := logger.New(mode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	db, storageType, err := config.Connect(env)
	if err != nil {
		appLog.Fatal("Failed to connect database", "error", err.Error())
	}

	provider, err := generator.NewProvider(generator.ProviderOptions{
		Name:    env.AIProvider,
		APIKey:  env.AIKey(),
		BaseURL: env.AIBaseURL,
		Models:  env.AIModels,
		Timeout: env.AITimeout,
	})
	if err != nil {
		appLog.Fatal("Invalid AI provider", "provider", env.AIProvider, "error", err.Error())
	}
	if provider == nil {
		appLog.Warn("AI provider disabled, generating from patterns only", "provider", env.AIProvider)
	} else {
		appLog.Info("AI provider configured", "provider", provider.Name(), "models", provider.Models())
	}
	gen := generator.New(provider, appLog,
		generator.WithTimeout(env.AITimeout),
		generator.WithMaxAttempts(env.AIMaxAttempts),
	)

	authMiddleware, err := middleware.EnsureValidToken(env, appLog)
	if err != nil {
		appLog.Fatal("Failed to set up token validation", "error", err.Error())
	}

	DBHandler := &handlers.DBHandler{
		DB:          db,
		Generator:   gen,
		Log:         appLog,
		Env:         env,
		StorageType: storageType,
	}
	mux := DBHandler.Routes()

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   env.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(appLog)(authMiddleware(mux)))

	server := &http.Server{
		Addr:              "0.0.0.0:" + env.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Info("Server listening", "addr", server.Addr, "storage", storageType, "env", env.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Graceful shutdown failed", "error", err.Error())
	}
}
