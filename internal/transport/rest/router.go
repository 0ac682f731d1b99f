package rest

import (
	"net/http"
	"os"

	"prepmate/internal/service"
	"prepmate/internal/transport/rest/handler"
	"prepmate/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	Orchestrator *service.Orchestrator
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.Orchestrator)
	prepareHandler := handler.NewPrepareHandler(c.Orchestrator)
	practiceHandler := handler.NewPracticeHandler(c.Orchestrator)
	mockHandler := handler.NewMockHandler(c.Orchestrator)
	profileHandler := handler.NewProfileHandler(c.Orchestrator)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Candidate routes (require candidate auth)
	candidateRoutes := v1.NewRoute().Subrouter()
	candidateRoutes.Use(authMW.RequireCandidate)

	candidateRoutes.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/sessions/current", sessionHandler.Context).Methods("GET", "OPTIONS")
	candidateRoutes.HandleFunc("/sessions/current", sessionHandler.Clear).Methods("DELETE", "OPTIONS")
	candidateRoutes.HandleFunc("/sessions/export", sessionHandler.Export).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/sessions/import", sessionHandler.Import).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/sessions/archive", sessionHandler.Archive).Methods("GET", "OPTIONS")
	candidateRoutes.HandleFunc("/sessions/archive/{sessionId}/restore", sessionHandler.Restore).Methods("POST", "OPTIONS")

	candidateRoutes.HandleFunc("/prepare", prepareHandler.Prepare).Methods("POST", "OPTIONS")

	candidateRoutes.HandleFunc("/practice/question", practiceHandler.Question).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/practice/follow-up", practiceHandler.FollowUp).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/practice/summary", practiceHandler.Summary).Methods("GET", "OPTIONS")

	candidateRoutes.HandleFunc("/mock/start", mockHandler.Start).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/mock/answer", mockHandler.Answer).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/mock/next", mockHandler.Next).Methods("POST", "OPTIONS")
	candidateRoutes.HandleFunc("/mock/summary", mockHandler.Summary).Methods("GET", "OPTIONS")

	candidateRoutes.HandleFunc("/profile/documents", profileHandler.AddDocument).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
