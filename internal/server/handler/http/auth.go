// Package http provides the HTTP handlers exposing the auth and report
// services: registration, login/logout, the password-reset flow, and
// report CRUD. Each operation keeps the success/error contract of the
// service it fronts.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bachesapp/bachesapp/internal/models"
	"github.com/bachesapp/bachesapp/internal/repository"
	"github.com/bachesapp/bachesapp/internal/service"
)

// AuthService defines the session-manager operations required by the
// HTTP handlers.
type AuthService interface {
	// Login authenticates and opens a session in the selected tier.
	Login(email, credential string, remember bool) (models.Identity, error)
	// Logout clears the session and both persistence tiers.
	Logout()
	// Register creates an identity and opens a remembered session.
	Register(name, email, credential, phone string) (models.Identity, error)
	// RequestPasswordReset issues a reset token; unknown emails are
	// reported as success.
	RequestPasswordReset(email string) error
	// ValidateResetToken reports whether the token is usable.
	ValidateResetToken(token string) bool
	// ResetPassword consumes the token and stores the new credential.
	ResetPassword(token, newCredential string) error
	// CurrentIdentity returns the active identity, or nil.
	CurrentIdentity() *models.Identity
	// IsAuthenticated reports whether a session is active.
	IsAuthenticated() bool
	// IsLoading reports whether the startup session load is in flight.
	IsLoading() bool
}

// AuthHandler handles HTTP requests for registration, login, logout,
// session introspection, and the password-reset flow.
type AuthHandler struct {
	// AuthService performs the underlying session operations.
	AuthService AuthService

	validate *validator.Validate
}

// NewAuthHandler constructs an AuthHandler over svc.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		AuthService: svc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"credential" validate:"required,min=8"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=7"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"credential" validate:"required"`
	// Remember selects the remembered session tier.
	Remember bool `json:"remember"`
}

// resetRequestPayload asks for a reset link.
type resetRequestPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// resetPerformPayload carries the replacement credential.
type resetPerformPayload struct {
	Credential string `json:"credential" validate:"required,min=8"`
}

// sessionResponse mirrors the manager's reactive fields.
type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	User          *models.Identity `json:"user,omitempty"`
}

// Register handles registration requests. Duplicate emails answer 409;
// success opens a remembered session and returns the identity.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	identity, err := h.AuthService.Register(req.Name, req.Email, req.Credential, req.Phone)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(identity)
}

// Login handles login requests. Any email/credential mismatch answers
// a uniform 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	identity, err := h.AuthService.Login(req.Email, req.Credential, req.Remember)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "invalid email or credential", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(identity)
}

// Logout clears the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// Session reports the current session state.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{
		Authenticated: h.AuthService.IsAuthenticated(),
		Loading:       h.AuthService.IsLoading(),
		User:          h.AuthService.CurrentIdentity(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// RequestReset handles password-reset requests. It answers 202 whether
// or not the email is registered, so the endpoint cannot be used to
// probe for accounts.
func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.AuthService.RequestPasswordReset(req.Email); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ValidateReset reports whether the reset token in the URL is usable.
func (h *AuthHandler) ValidateReset(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{
		"valid": h.AuthService.ValidateResetToken(token),
	})
}

// PerformReset consumes the reset token in the URL and stores the new
// credential. Spent, unknown, and expired tokens answer 400.
func (h *AuthHandler) PerformReset(w http.ResponseWriter, r *http.Request) {
	var req resetPerformPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	token := chi.URLParam(r, "token")
	if err := h.AuthService.ResetPassword(token, req.Credential); err != nil {
		if errors.Is(err, repository.ErrInvalidOrExpiredToken) {
			http.Error(w, "invalid or expired reset token", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
