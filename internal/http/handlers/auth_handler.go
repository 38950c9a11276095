// Auth HTTP handlers.
//
//   - POST /auth/register  (customer signup)
//   - POST /auth/login
//   - POST /auth/refresh
//   - GET  /auth/me        (requires bearer token)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// RegisterRequest is the JSON payload for customer signup.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Ama Mensah"`
	Email    string `json:"email" binding:"required,email" example:"ama@example.com"`
	Phone    string `json:"phone" example:"+233241234567"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse bundles the account and its fresh token pair.
type AuthResponse struct {
	User   *domain.User        `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

// Register godoc
// @ID          register
// @Summary     Register a customer account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterRequest  true  "Signup payload"
// @Success     201  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, pair, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			fail(c, http.StatusConflict, ErrCodeEmailTaken, "email already registered")
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, and a password of at least 8 characters are required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "registration failed")
		}
		return
	}
	ok(c, http.StatusCreated, AuthResponse{User: u, Tokens: pair})
}

// Login godoc
// @ID          login
// @Summary     Log in with email and password
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  handlers.AuthResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			fail(c, http.StatusForbidden, ErrCodeDisabled, "account disabled")
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed")
		}
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: u, Tokens: pair})
}

// Refresh godoc
// @ID          refreshToken
// @Summary     Exchange a refresh token for a new pair
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RefreshRequest  true  "Refresh token"
// @Success     200  {object}  services.TokenPair
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			fail(c, http.StatusForbidden, ErrCodeDisabled, "account disabled")
		case errors.Is(err, services.ErrInvalidToken):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid refresh token")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "refresh failed")
		}
		return
	}
	ok(c, http.StatusOK, pair)
}

// Me godoc
// @ID          me
// @Summary     Return the authenticated account
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, okUser := h.currentUser(c)
	if !okUser {
		return
	}
	ok(c, http.StatusOK, u)
}
