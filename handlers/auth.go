package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"partyinvite/models"
	"partyinvite/sl"
	"partyinvite/validate"
)

type Authenticator interface {
	Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
}

type RegisterRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=5,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

func (req *RegisterRequest) Bind(_ *http.Request) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	return validate.Struct(req)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Bind(_ *http.Request) error {
	return validate.Struct(req)
}

type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthHandler struct {
	auth Authenticator
	log  *slog.Logger
}

func NewAuthHandler(auth Authenticator, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log.With(sl.Module("handlers.auth")),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := render.Bind(r, &req); err != nil {
		fail(w, r, h.log, models.AsValidation(err))
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, r, http.StatusCreated, "user created", AuthPayload{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.Bind(r, &req); err != nil {
		fail(w, r, h.log, models.AsValidation(err))
		return
	}

	user, token, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	ok(w, r, http.StatusOK, "login successful", AuthPayload{Token: token, User: user})
}
