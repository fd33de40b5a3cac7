package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/afrimoni/remit_backend/internal/utils"
	"github.com/afrimoni/remit_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		tokenService: ts,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, services.TokenService, cfg)

	// 5 requests per minute per IP on credential endpoints
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}

	registerGoogleOAuthRoutes(auth, services)
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user with phone number and password credentials.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterUserRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict (phone already registered)"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	newUser, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, newErrorResponse("Phone number already registered"))
			return
		}
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to register user"))
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(newUser))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user by phone and password and returns a JWT access token. The refresh token is set as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Invalid phone or password"))
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Invalid phone or password"))
		return
	}

	h.issueTokens(c, user)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges the refresh token cookie for a new access token and rotates the refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "User identity"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body"))
		return
	}

	refreshToken, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Refresh token missing"))
		return
	}

	ctx := c.Request.Context()
	user, err := h.tokenService.ValidateAndParseRefreshToken(ctx, req.UserID, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenExpired) {
			c.JSON(http.StatusUnauthorized, newErrorResponse("Refresh token expired, please login again"))
			return
		}
		c.JSON(http.StatusUnauthorized, newErrorResponse("Invalid refresh token"))
		return
	}

	h.issueTokens(c, user)
}

// Logout godoc
// @Summary Logout
// @Description Clears the stored refresh token and expires the cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.RefreshRequest true "User identity"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	if err := h.userService.UpdateRefreshTokenDetails(ctx, req.UserID, "", nil); err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Warn("Failed to clear refresh token on logout", slog.String("error", err.Error()))
	}

	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
	c.Status(http.StatusNoContent)
}

// issueTokens generates an access token plus a rotated refresh token, stores
// the refresh token hash and sets the cookie.
func (h *AuthHandler) issueTokens(c *gin.Context, user *domain.User) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to generate token"))
		return
	}

	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to generate token"))
		return
	}

	if err := h.userService.UpdateRefreshTokenDetails(ctx, user.UserID, utils.HashRefreshToken(refreshToken), &refreshExpiry); err != nil {
		logger.Error("Failed to store refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to complete login"))
		return
	}

	maxAge := int(h.cfg.RefreshTokenExpiryDuration.Seconds())
	c.SetCookie(h.cfg.RefreshTokenCookieName, refreshToken, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        dto.ToUserResponse(user),
	})
}
