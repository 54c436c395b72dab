package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercadero/storefront/internal/apperr"
	"github.com/mercadero/storefront/internal/httpx"
	"github.com/mercadero/storefront/internal/user"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// registerHandler creates a customer account.
//
//	@Summary  Register an account
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Success  201 {object} user.User
//	@Failure  400 {object} httpx.HTTPError
//	@Failure  409 {object} httpx.HTTPError
//	@Router   /auth/register [post]
func registerHandler(users user.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		if req.Username == "" || req.Email == "" || req.Password == "" {
			httpx.Error(c, apperr.Validation("username, email and password are required"), dev)
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			httpx.Error(c, apperr.Dependency("could not create account", err), dev)
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			Role:         user.RoleCustomer,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginHandler exchanges credentials for a bearer token.
//
//	@Summary  Log in
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Success  200 {object} tokenResponse
//	@Failure  401 {object} httpx.HTTPError
//	@Router   /auth/login [post]
func loginHandler(users user.Repository, secret []byte, ttl time.Duration, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.Validation("invalid json: %v", err), dev)
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			// Same response for unknown email and wrong password.
			c.JSON(http.StatusUnauthorized, httpx.HTTPError{Error: "invalid email or password"})
			return
		}
		token, err := httpx.SignToken(secret, u.ID, u.Email, u.Role, ttl)
		if err != nil {
			httpx.Error(c, apperr.Dependency("could not issue token", err), dev)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{Token: token, User: u})
	}
}

// meHandler returns the authenticated account.
//
//	@Summary  Current account
//	@Tags     auth
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} user.User
//	@Router   /auth/me [get]
func meHandler(users user.Repository, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := httpx.ClaimsFrom(c)
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			httpx.Error(c, err, dev)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
