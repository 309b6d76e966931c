package handlers

import (
	"net/http"

	"pharmpal/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup and login
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// CredentialsRequest is accepted as JSON or as an OAuth2 password form.
type CredentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Signup registers a new user
//
//	@Summary	Register a user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CredentialsRequest	true	"credentials"
//	@Success	201		{object}	models.User
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	409		{object}	common.ErrorResponse
//	@Router		/auth/signup [post]
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for a bearer token
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		body	body		CredentialsRequest	true	"credentials"
//	@Success	200		{object}	models.TokenResponse
//	@Failure	401		{object}	common.ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, token)
}
