package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/aichat/internal/middleware"
	"github.com/pliu/aichat/internal/service"
	"github.com/rs/zerolog"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct {
	Accounts *service.Accounts
	// BaseURL prefixes verification links. Empty derives it from the request.
	BaseURL string
}

func (h *AuthHandler) baseURL(r *http.Request) string {
	if h.BaseURL != "" {
		return h.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}, h.baseURL(r))
	if err != nil {
		respondError(w, r, err, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered. Please check your email to verify.",
		"userId":  user.ID,
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Accounts.Verify(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("verify email")
		http.Error(w, "Verification failed.", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Invalid or expired verification token.", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/?verified=true", http.StatusFound)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	res, err := h.Accounts.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		respondError(w, r, err, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListUsers returns every user but the caller.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.OtherUsers(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err, "Failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}
