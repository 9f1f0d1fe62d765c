package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/pliu/aichat/internal/agent"
	"github.com/pliu/aichat/internal/auth"
	"github.com/pliu/aichat/internal/config"
	"github.com/pliu/aichat/internal/email"
	"github.com/pliu/aichat/internal/handlers"
	"github.com/pliu/aichat/internal/llm"
	"github.com/pliu/aichat/internal/middleware"
	"github.com/pliu/aichat/internal/service"
	"github.com/pliu/aichat/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Config    config.Config
	Store     store.Store
	Issuer    *auth.Issuer
	Mailer    email.Mailer
	Completer llm.Completer
}

// NewRouter wires services, handlers and middleware into one http.Handler.
func NewRouter(d Deps) http.Handler {
	accounts := service.NewAccounts(d.Store, d.Issuer, d.Mailer)
	messaging := service.NewMessaging(d.Store)
	notes := service.NewNotes(d.Store)

	authHandler := &handlers.AuthHandler{Accounts: accounts, BaseURL: d.Config.PublicBaseURL}
	assistantHandler := &handlers.AssistantHandler{Store: d.Store, Agent: agent.New(d.Store, d.Completer)}
	chatHandler := &handlers.ChatHandler{Messaging: messaging}
	notesHandler := &handlers.NotesHandler{Notes: notes}
	healthHandler := &handlers.HealthHandler{Store: d.Store}

	requireAuth := middleware.Auth(d.Issuer)
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/health", healthHandler.Health).Methods("GET")

	// Auth
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/verify/{token}", authHandler.Verify).Methods("GET")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.Handle("/api/users", authed(authHandler.ListUsers)).Methods("GET")

	// Assistant
	r.Handle("/api/history", authed(assistantHandler.History)).Methods("GET")
	r.Handle("/api/chat", authed(assistantHandler.Chat)).Methods("POST")

	// Direct messages
	r.Handle("/api/messages/send", authed(chatHandler.SendDirect)).Methods("POST")
	r.Handle("/api/messages/{otherUserId}", authed(chatHandler.DirectMessages)).Methods("GET")
	r.Handle("/api/messages/{otherUserId}", authed(chatHandler.SendDirectTo)).Methods("POST")

	// Groups
	r.Handle("/api/groups", authed(chatHandler.CreateGroup)).Methods("POST")
	r.Handle("/api/groups", authed(chatHandler.GetGroups)).Methods("GET")
	r.Handle("/api/groups/{groupId}/messages", authed(chatHandler.GetGroupMessages)).Methods("GET")
	r.Handle("/api/groups/{groupId}/messages", authed(chatHandler.SendGroupMessage)).Methods("POST")

	// Notes
	r.Handle("/api/notes", authed(notesHandler.List)).Methods("GET")
	r.Handle("/api/notes", authed(notesHandler.Create)).Methods("POST")
	r.Handle("/api/notes/{id}", authed(notesHandler.Update)).Methods("PUT")
	r.Handle("/api/notes/{id}", authed(notesHandler.Delete)).Methods("DELETE")

	if d.Config.Env == "dev" {
		r.HandleFunc("/api/debug/db", healthHandler.DebugDB).Methods("GET")
		r.Handle("/api/debug/claim_history", authed(assistantHandler.ClaimHistory)).Methods("POST")
	}

	staticDir := d.Config.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	r.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}` + "\n"))
	})

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}).Methods("GET")

	// Serve static files with cache-busting headers for development
	fileServer := http.FileServer(http.Dir(staticDir))
	r.PathPrefix("/").Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".css") || strings.HasSuffix(r.URL.Path, ".js") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		fileServer.ServeHTTP(w, r)
	}))

	return cors.Handler(cors.Options{
		AllowedOrigins: d.Config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})(r)
}
