package handlers

import (
	"net/http"
	"strings"

	"github.com/andrewpaige1/studypal-api/middleware"
)

// Routes registers every endpoint. Routes that need a user are wrapped in
// SyncUserMiddleware; token validation itself is applied around the mux.
func (db *DBHandler) Routes() *http.ServeMux {
	withUser := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.SyncUserMiddleware(db.DB, db.Log, h)
	}
	mux := http.NewServeMux()

	// Service
	mux.HandleFunc("GET /api/status", db.Status)
	mux.HandleFunc("GET /api/health", db.Health)
	mux.HandleFunc("POST /api/generate-flashcards", db.GenerateFlashcards)

	// Sets
	mux.HandleFunc("POST /api/flashcards", withUser(db.SaveFlashcardSet))
	mux.HandleFunc("GET /api/flashcards", withUser(db.GetFlashcardSets))
	mux.HandleFunc("GET /api/flashcards/{setID}", db.GetSetByID)
	mux.HandleFunc("PUT /api/flashcards/{setID}", withUser(db.UpdateSetByID))
	mux.HandleFunc("DELETE /api/flashcards/{setID}", withUser(db.DeleteSetByID))

	// Cards
	mux.HandleFunc("GET /api/flashcards/{setID}/cards/{cardID}", db.GetFlashcardByID)
	mux.HandleFunc("PUT /api/flashcards/{setID}/cards/{cardID}", withUser(db.UpdateFlashcardByID))
	mux.HandleFunc("DELETE /api/flashcards/{setID}/cards/{cardID}", withUser(db.DeleteFlashcardByID))

	// Users
	mux.HandleFunc("POST /api/users", withUser(db.RegisterUser))
	mux.HandleFunc("GET /api/users/me", withUser(db.GetCurrentUser))
	if db.Env.IsDevelopment {
		mux.HandleFunc("POST /api/auth/token", db.IssueDevToken)
	}

	// Payments
	mux.HandleFunc("POST /api/payments/intents", withUser(db.CreatePaymentIntent))
	mux.HandleFunc("GET /api/payments/intents", withUser(db.GetPaymentIntents))
	mux.HandleFunc("POST /api/payments/intents/{intentID}/confirm", withUser(db.ConfirmPaymentIntent))
	mux.HandleFunc("POST /api/payments/intents/{intentID}/cancel", withUser(db.CancelPaymentIntent))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(mux, r); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		db.NotFound(w, r)
	})
	return mux
}

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// allowedMethods lists the methods registered for r's path other than the
// catch-all.
func allowedMethods(mux *http.ServeMux, r *http.Request) []string {
	var allowed []string
	for _, method := range routeMethods {
		if method == r.Method {
			continue
		}
		probe := r.Clone(r.Context())
		probe.Method = method
		if _, pattern := mux.Handler(probe); pattern != "" && pattern != "/" {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
