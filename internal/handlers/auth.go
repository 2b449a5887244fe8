package handlers

import (
	"context"
	"net/http"

	"github.com/vkarpov/identity/internal/apperrors"
	"github.com/vkarpov/identity/internal/handlers/authctx"
	"github.com/vkarpov/identity/internal/handlers/render"
	"github.com/vkarpov/identity/internal/logger"
	"github.com/vkarpov/identity/internal/models"
)

type authService interface {
	// Register user, fault on mismatched or malformed credentials,
	// taken login or missing default role
	Register(ctx context.Context, login string, password string, passwordConfirm string) (models.User, error)

	// Login user and issue a token pair
	Login(ctx context.Context, login string, password string) (models.TokenPair, error)

	// Exchange an access+refresh pair for a fresh one
	Refresh(ctx context.Context, access string, refresh string) (models.TokenPair, error)
}

type AuthHandler struct {
	auth   authService
	logger logger.Logger
}

func NewAuth(auth authService, l logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: l}
}

// fault renders err to the client and keeps the detail in the log:
// classified faults are expected business outcomes and logged as debug,
// anything else is logged as error and reported as a generic 500.
func (h *AuthHandler) fault(w http.ResponseWriter, err error) {
	if apperrors.Code(err) == apperrors.CodeInternalServerError {
		h.logger.Error("auth request failed", "error", err.Error())
	} else {
		h.logger.Debug("auth request rejected", "error", err.Error())
	}

	render.Fault(w, err)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type registerRequest struct {
		Login           string `json:"login" validate:"required"`
		Password        string `json:"password" validate:"required"`
		PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	}
	type registerResponse struct {
		Login string `json:"login"`
	}

	data, err := render.BindAndValidate[registerRequest](w, r)
	if err != nil {
		return
	}

	user, err := h.auth.Register(r.Context(), data.Login, data.Password, data.PasswordConfirm)
	if err != nil {
		h.fault(w, err)
		return
	}

	render.JSON(w, registerResponse{Login: user.Login})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type loginRequest struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[loginRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.auth.Login(r.Context(), data.Login, data.Password)
	if err != nil {
		h.fault(w, err)
		return
	}

	render.JSON(w, tokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type refreshRequest struct {
		Access  string `json:"accessToken" validate:"required"`
		Refresh string `json:"refreshToken" validate:"required"`
	}

	data, err := render.BindAndValidate[refreshRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.auth.Refresh(r.Context(), data.Access, data.Refresh)
	if err != nil {
		h.fault(w, err)
		return
	}

	render.JSON(w, tokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	type meResponse struct {
		Login string   `json:"login"`
		Roles []string `json:"roles"`
	}

	// Always present, the auth middleware guards this route
	claims, _ := authctx.FromContext(r.Context())

	render.JSON(w, meResponse{Login: claims.Subject, Roles: claims.Roles})
}

type tokenPairResponse struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}
