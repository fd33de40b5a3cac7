package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles wallet account requests.
type AccountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(as portssvc.AccountSvcFacade) *AccountHandler {
	return &AccountHandler{accountService: as}
}

// registerAccountRoutes sets up the routes for account management.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := NewAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.CreateAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:accountID", h.GetAccount)
		accounts.DELETE("/:accountID", h.DeactivateAccount)
	}
}

// CreateAccount godoc
// @Summary Open a wallet account
// @Description Opens a new wallet account for the authenticated user.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, newErrorResponse(err.Error()))
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, newErrorResponse("An account with this phone already exists"))
		default:
			logger.Error("Failed to create account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to create account"))
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// GetAccount godoc
// @Summary Get account by ID
// @Description Retrieves one of the authenticated user's accounts.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse("Account not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to retrieve account"))
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// ListAccounts godoc
// @Summary List accounts
// @Description Lists all accounts owned by the authenticated user.
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to list accounts"))
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// DeactivateAccount godoc
// @Summary Deactivate account
// @Description Deactivates an account. The balance must be zero.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account balance not zero"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("accountID"), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, newErrorResponse("Account not found"))
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, newErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to deactivate account"))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
