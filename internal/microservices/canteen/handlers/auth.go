package handlers

import (
	"net/http"

	"campus-canteen/internal/microservices/canteen/service"
)

type AuthHandler struct {
	service  service.IdentityServiceInterface
	sessions *Sessions
}

func NewAuthHandler(s service.IdentityServiceInterface, sessions *Sessions) *AuthHandler {
	return &AuthHandler{service: s, sessions: sessions}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/auth/register"
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, back)
		return
	}
	u, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":     u,
		"message":  "registered successfully, please log in",
		"redirect": apiPrefix + "/auth/login",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/auth/login"
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, back)
		return
	}
	u, ok, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", back)
		return
	}
	tok, exp, err := h.sessions.Start(w, r, u)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	home := apiPrefix + "/menu"
	if u.IsOwner() {
		home = apiPrefix + "/owner/dashboard"
	}
	lg.FromContext(r.Context()).Info("user_logged_in", map[string]any{"username": u.Username, "role": u.Role})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      tok,
		"expires_at": exp,
		"user":       u,
		"redirect":   home,
	})
}

// Logout succeeds with or without a live session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"redirect": apiPrefix + "/auth/login"})
}
