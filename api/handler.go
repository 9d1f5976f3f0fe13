package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/habit/auth/authctx"
	"github.com/kbukum/habit/auth/credential"
	apperrors "github.com/kbukum/habit/errors"
	"github.com/kbukum/habit/server"
	"github.com/kbukum/habit/server/middleware"
)

// Handler serves the auth and user endpoints.
type Handler struct {
	svc       *credential.Service
	authLimit middleware.RateLimitConfig
}

// NewHandler creates a Handler over svc. authLimit throttles the /auth routes
// per client; a zero value disables throttling.
func NewHandler(svc *credential.Service, authLimit middleware.RateLimitConfig) *Handler {
	return &Handler{svc: svc, authLimit: authLimit}
}

// Mount registers the routes on r.
func (h *Handler) Mount(r gin.IRouter) {
	root := r.Group("", middleware.Authenticate(h.svc))

	authGroup := root.Group("/auth", middleware.RateLimit(h.authLimit))
	authGroup.POST("/log_in", h.LogIn)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/update_password", h.UpdatePassword)

	root.GET("/me", middleware.RequireIdentity(), h.Me)
}

// credentialsRequest is the union of the auth endpoints' bodies. Absent
// fields stay empty and are reported by the service as missing.
type credentialsRequest struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// TokenResponse is the body of every successful auth endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

func bind(c *gin.Context) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		server.RespondWithError(c, apperrors.InvalidInput("request body must be a JSON object or form"))
		return req, false
	}
	return req, true
}

func (h *Handler) respondToken(c *gin.Context, token string, err error) {
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, TokenResponse{Token: token})
}

// LogIn handles POST /auth/log_in.
func (h *Handler) LogIn(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	token, err := h.svc.LogIn(c.Request.Context(), req.Name, req.Password)
	h.respondToken(c, token, err)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	token, err := h.svc.Register(c.Request.Context(), credential.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	h.respondToken(c, token, err)
}

// UpdatePassword handles POST /auth/update_password. The current password
// proves the caller owns the record; a bearer identity for another record is
// refused.
func (h *Handler) UpdatePassword(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	if id, ok := authctx.From(c.Request.Context()); ok && id.Name != req.Name {
		server.RespondWithError(c, apperrors.Forbidden())
		return
	}
	token, err := h.svc.ChangePassword(c.Request.Context(), req.Name, req.Password, req.NewPassword)
	h.respondToken(c, token, err)
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	id, err := authctx.Require(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.Forbidden())
		return
	}
	c.JSON(http.StatusOK, id)
}
