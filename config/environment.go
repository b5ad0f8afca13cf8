package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultJWTIssuer   = "studypal-api"
	defaultJWTAudience = "studypal-web"
	devJWTSecret       = "studypal-development-secret"
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Environment holds every setting the server reads at startup.
type Environment struct {
	Port          string
	AppEnv        string
	IsDevelopment bool

	DBURL string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	CORSOrigins []string

	AIProvider       string
	GeminiAPIKey     string
	HuggingFaceToken string
	OpenAIAPIKey     string
	AIBaseURL        string
	AIModels         []string
	AITimeout        time.Duration
	AIMaxAttempts    int

	FreeTierMaxSets  int
	FreeTierMaxCards int
	ProPriceCents    int64

	GeneratorConfig string
}

// Load reads the process environment.
func Load() (Environment, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom builds an Environment from lookup, applying defaults and the
// optional generator YAML file.
func LoadFrom(lookup func(string) (string, bool)) (Environment, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	env := Environment{
		Port:             get("PORT", defaultPort),
		AppEnv:           strings.ToLower(get("APP_ENV", "development")),
		DBURL:            get("DB_URL", ""),
		JWTSecret:        get("JWT_SECRET_KEY", ""),
		JWTIssuer:        get("JWT_ISSUER", defaultJWTIssuer),
		JWTAudience:      get("JWT_AUDIENCE", defaultJWTAudience),
		CORSOrigins:      splitList(get("CORS_ORIGINS", "")),
		AIProvider:       strings.ToLower(get("AI_PROVIDER", "gemini")),
		GeminiAPIKey:     get("GEMINI_API_KEY", ""),
		HuggingFaceToken: get("HUGGING_FACE_TOKEN", ""),
		OpenAIAPIKey:     get("OPENAI_API_KEY", ""),
		AIBaseURL:        get("AI_BASE_URL", get("OPENAI_BASE_URL", "")),
		GeneratorConfig:  get("GENERATOR_CONFIG", ""),
	}
	env.IsDevelopment = env.AppEnv == "development" || env.AppEnv == "dev"
	if len(env.CORSOrigins) == 0 {
		env.CORSOrigins = defaultCORSOrigins
	}

	var errs []error
	intVar := func(key string, def int) int {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid value %q", key, raw))
			return def
		}
		return n
	}
	env.AITimeout = time.Duration(intVar("AI_TIMEOUT_SECONDS", 30)) * time.Second
	env.AIMaxAttempts = intVar("AI_MAX_ATTEMPTS", 3)
	env.FreeTierMaxSets = intVar("FREE_TIER_MAX_SETS", 10)
	env.FreeTierMaxCards = intVar("FREE_TIER_MAX_CARDS", 10)
	env.ProPriceCents = int64(intVar("PRO_PRICE_CENTS", 499))
	if err := errors.Join(errs...); err != nil {
		return Environment{}, err
	}

	if env.JWTSecret == "" {
		if !env.IsDevelopment {
			return Environment{}, errors.New("JWT_SECRET_KEY not set")
		}
		env.JWTSecret = devJWTSecret
	}

	if env.GeneratorConfig != "" {
		file, err := LoadGeneratorFile(env.GeneratorConfig)
		if err != nil {
			return Environment{}, err
		}
		file.Apply(&env)
	}
	return env, nil
}

// IsProduction selects the production logger.
func (e Environment) IsProduction() bool {
	return e.AppEnv == "production" || e.AppEnv == "prod"
}

// AIKey returns the credential for the selected provider.
func (e Environment) AIKey() string {
	switch e.AIProvider {
	case "gemini":
		return e.GeminiAPIKey
	case "huggingface", "hf":
		return e.HuggingFaceToken
	case "openai":
		return e.OpenAIAPIKey
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
