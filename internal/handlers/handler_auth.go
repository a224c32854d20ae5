package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// loginRate bounds login attempts per client IP.
const loginRate = "5-M"

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService portssvc.AuthSvc
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvc) *AuthHandler {
	return &AuthHandler{authService: as}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvc) {
	h := NewAuthHandler(authService)

	rate, _ := limiter.NewRateFromFormatted(loginRate)
	limitMiddleware := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := rg.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
	}
}

// Login godoc
// @Summary Administrator login
// @Description Authenticates the administrator and returns a JWT for the admin routes.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, logger, err, "Login failed")
		return
	}

	logger.Info("Administrator logged in", slog.String("login", req.Login))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
