package handlers

import (
	"net/http"
	"strings"

	"log/slog"

	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler handles Google OAuth related requests.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
	}
}

// ExchangeCodeRequest is the JSON body for the /google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeResponse is the successful response for the
// /google/exchange-code endpoint.
type ExchangeCodeResponse struct {
	Token string `json:"token"`
}

// ExchangeCodeGoogle godoc
// @Summary Exchange Google authorization code for access token
// @Description Exchanges an authorization code obtained by the frontend for an application JWT. Creates the user on first sign-in.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} ExchangeCodeResponse
// @Failure 400 {object} ErrorResponse "Invalid authorization code"
// @Failure 401 {object} ErrorResponse "Invalid Google ID token"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request payload: "+err.Error()))
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			c.JSON(http.StatusBadRequest, newErrorResponse("Invalid or expired authorization code"))
			return
		}
		c.JSON(http.StatusBadGateway, newErrorResponse("Failed to communicate with Google"))
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to retrieve ID token from Google"))
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, newErrorResponse("Invalid Google ID token"))
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	providerUserID := payload.Subject

	if email == "" || providerUserID == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, newErrorResponse("Essential user information missing from Google token"))
		return
	}

	user, err := h.userService.FindOrCreateOAuthUser(ctx, "google", providerUserID, email, name)
	if err != nil {
		logger.Error("Failed to resolve OAuth user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to process user authentication"))
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to generate access token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ExchangeCodeResponse{Token: accessToken},
	})
}

// registerGoogleOAuthRoutes registers the Google OAuth routes under the auth group.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services.GoogleOAuthHandler, services.User, services.TokenService)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}
