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
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// TransferHandler handles money transfer requests.
type TransferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ts portssvc.TransferSvcFacade) *TransferHandler {
	return &TransferHandler{transferService: ts}
}

// registerTransferRoutes sets up the routes for money transfers.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := NewTransferHandler(transferService)

	// 30 requests per minute per IP on money-moving endpoints
	rate, _ := limiter.NewRateFromFormatted("30-M")
	moveLimiter := middleware.GinMiddlewarize(limiter.New(memory.NewStore(), rate))

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", moveLimiter, h.CreateTransfer)
		transfers.POST("/claim", moveLimiter, h.ClaimTransfer)
		transfers.GET("", h.ListTransfers)
		transfers.GET("/:transferID", h.GetTransfer)
	}
}

// CreateTransfer godoc
// @Summary Execute a money transfer
// @Description Debits the sender and credits the recipient. If the recipient phone has no account, funds are parked as a pending transfer and a claim code is returned.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	result, err := h.transferService.ExecuteTransfer(c.Request.Context(), req, userID)
	if err != nil {
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClaimTransfer godoc
// @Summary Claim a pending transfer
// @Description Redeems a pending transfer by claim code, crediting the claimant's account.
// @Tags transfers
// @Accept json
// @Produce json
// @Param claim body dto.ClaimTransferRequest true "Claim details"
// @Success 200 {object} dto.TransferResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Claim code invalid or already used"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/claim [post]
func (h *TransferHandler) ClaimTransfer(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var req dto.ClaimTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	result, err := h.transferService.ClaimTransfer(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrClaimCodeInvalid) {
			// Do not reveal whether the code exists, expired or was claimed.
			c.JSON(http.StatusNotFound, newErrorResponse("Claim code invalid or no longer claimable"))
			return
		}
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListTransfers godoc
// @Summary List transfers
// @Description Lists transfers touching one of the authenticated user's accounts, newest first.
// @Tags transfers
// @Produce json
// @Param accountID query string true "Account ID"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransfersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers [get]
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	resp, err := h.transferService.ListTransfers(c.Request.Context(), params, userID)
	if err != nil {
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransfer godoc
// @Summary Get transfer by ID
// @Description Retrieves a single settled transfer the user participated in.
// @Tags transfers
// @Produce json
// @Param transferID path string true "Transfer ID"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{transferID} [get]
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	transfer, err := h.transferService.GetTransferByID(c.Request.Context(), c.Param("transferID"), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse("Transfer not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to retrieve transfer"))
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// respondTransferError maps transfer orchestration errors to HTTP responses.
func (h *TransferHandler) respondTransferError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, newErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, newErrorResponse("Account does not belong to the authenticated user"))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, newErrorResponse("Account not found"))
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, newErrorResponse("Insufficient funds to cover amount plus fee"))
	case errors.Is(err, apperrors.ErrCriticalRollback):
		logger.Error("Transfer left funds in inconsistent state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Transfer failed, support has been notified"))
	default:
		logger.Error("Transfer failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Transfer failed"))
	}
}
