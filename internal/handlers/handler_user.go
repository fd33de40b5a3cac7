package handlers

import (
	"errors"
	"net/http"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user profile requests.
type UserHandler struct {
	userService portssvc.UserSvcFacade
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us portssvc.UserSvcFacade) *UserHandler {
	return &UserHandler{userService: us}
}

// registerUserRoutes sets up the routes for the user's own profile.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := NewUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateMe)
	}
}

// GetMe godoc
// @Summary Get own profile
// @Description Retrieves the authenticated user's profile.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to retrieve user"))
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateMe godoc
// @Summary Update own profile
// @Description Updates the authenticated user's name and/or country.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	user, err := h.userService.UpdateUserDetails(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to update user"))
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
