package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/observatorio/internal/observatorio/auth"
	"github.com/gartstein/observatorio/internal/observatorio/docs"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type RegisterInput struct {
	Name     string `json:"nombre" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"usuario"`
}

// UserHandler serves registration, login and the caller's profile.
type UserHandler struct {
	svc     UserService
	secret  string
	respond *Responder
}

func NewUserHandler(svc UserService, secret string, respond *Responder) *UserHandler {
	return &UserHandler{svc: svc, secret: secret, respond: respond}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	input := validation.Body[RegisterInput](r)
	user, err := h.svc.Register(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusCreated, user)
}

// Login issues a token for valid credentials, returned in the body and as
// an HttpOnly cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	input := validation.Body[LoginInput](r)
	user, err := h.svc.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	token, err := auth.GenerateToken(map[string]any{"id": user.ID, "email": user.Email}, h.secret)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.respond.JSON(w, http.StatusOK, LoginResult{Token: token, User: user})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.respond.Message(w, http.StatusUnauthorized, "authentication required")
		return
	}
	h.respond.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Routes() []Route {
	return []Route{
		{
			Method:  http.MethodPost,
			Pattern: "/usuarios/registro",
			Rules:   validation.Rules{Body: func() any { return new(RegisterInput) }},
			Handler: h.Register,
			Doc: docs.Endpoint{
				Tag: "Usuarios", Summary: "Register a user", Body: RegisterInput{},
				Status: http.StatusCreated, Result: models.User{},
				Errors: []int{http.StatusBadRequest, http.StatusConflict},
			},
		},
		{
			Method:  http.MethodPost,
			Pattern: "/usuarios/login",
			Rules:   validation.Rules{Body: func() any { return new(LoginInput) }},
			Handler: h.Login,
			Doc: docs.Endpoint{
				Tag: "Usuarios", Summary: "Log in and obtain a token", Body: LoginInput{},
				Result: LoginResult{}, Errors: []int{http.StatusBadRequest, http.StatusUnauthorized},
			},
		},
		{
			Method:    http.MethodGet,
			Pattern:   "/usuarios/perfil",
			Protected: true,
			Handler:   h.Profile,
			Doc:       docs.Endpoint{Tag: "Usuarios", Summary: "Current user", Result: models.User{}},
		},
	}
}
