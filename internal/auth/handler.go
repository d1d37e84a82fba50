package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/backend/internal/activity"
	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/models"
)

// Handler holds the credential HTTP handlers.
type Handler struct {
	svc      *Service
	respond  *api.Responder
	recorder *activity.Recorder
}

func NewHandler(svc *Service, respond *api.Responder, recorder *activity.Recorder) *Handler {
	return &Handler{svc: svc, respond: respond, recorder: recorder}
}

// signupPolicy is the stricter HTTP-boundary rule set. The service itself
// only requires 6 characters.
func signupPolicy(req *models.SignupRequest) []string {
	var fields []string

	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) > 50 {
		fields = append(fields, "Name must be less than 50 characters long")
	}

	pw := req.Password
	if utf8.RuneCountInString(pw) < 8 {
		fields = append(fields, "Password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range pw {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*", c):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		fields = append(fields, "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return fields
}

// Signup handles POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Err(w, apperr.Validation("Invalid request body"))
		return
	}

	if fields := signupPolicy(&req); len(fields) > 0 {
		h.respond.Err(w, apperr.Validation(fields...))
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(user.ID, activity.ActionSignup, "")
	h.respond.OK(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user": user,
	})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Err(w, apperr.Validation("Invalid request body"))
		return
	}

	user, token, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(user.ID, activity.ActionLogin, "")
	h.respond.OK(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// GetUsers handles GET /users.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	h.respond.OK(w, http.StatusOK, "Users fetched successfully", map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// GetUserByID handles GET /users/{id}.
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	h.respond.OK(w, http.StatusOK, "User fetched successfully", map[string]interface{}{
		"user": user,
	})
}

// GetUserByEmail handles GET /users/email/{email}.
func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	h.respond.OK(w, http.StatusOK, "User fetched successfully", map[string]interface{}{
		"user": user,
	})
}
