package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/afrimoni/remit_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// BillHandler handles automatic bill requests.
type BillHandler struct {
	billService portssvc.BillSvcFacade
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(bs portssvc.BillSvcFacade) *BillHandler {
	return &BillHandler{billService: bs}
}

// registerBillRoutes sets up the routes for automatic bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := NewBillHandler(billService)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.CreateBill)
		bills.GET("", h.ListBills)
		bills.GET("/:billID", h.GetBill)
		bills.POST("/run", h.RunBatch)
	}

	rg.GET("/notifications", h.ListNotifications)
}

// CreateBill godoc
// @Summary Schedule an automatic bill
// @Description Creates a recurring or one-off bill paid automatically by the daily batch.
// @Tags bills
// @Accept json
// @Produce json
// @Param bill body dto.CreateBillRequest true "Bill details"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), req, userID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, newErrorResponse(err.Error()))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, newErrorResponse("Account not found"))
		default:
			logger.Error("Failed to create bill", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to create bill"))
		}
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// ListBills godoc
// @Summary List bills
// @Description Lists all automatic bills configured by the authenticated user.
// @Tags bills
// @Produce json
// @Success 200 {array} dto.BillResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills [get]
func (h *BillHandler) ListBills(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	bills, err := h.billService.ListBills(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to list bills"))
		return
	}

	c.JSON(http.StatusOK, bills)
}

// GetBill godoc
// @Summary Get bill by ID
// @Description Retrieves a single automatic bill owned by the authenticated user.
// @Tags bills
// @Produce json
// @Param billID path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills/{billID} [get]
func (h *BillHandler) GetBill(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	bill, err := h.billService.GetBillByID(c.Request.Context(), c.Param("billID"), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse("Bill not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to retrieve bill"))
		return
	}

	c.JSON(http.StatusOK, bill)
}

// ListNotifications godoc
// @Summary List notifications
// @Description Lists the authenticated user's notifications, newest first.
// @Tags notifications
// @Produce json
// @Param limit query int false "Maximum number of notifications (default 50)"
// @Success 200 {array} domain.Notification
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *BillHandler) ListNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	notifications, err := h.billService.ListNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to list notifications"))
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// RunBatch godoc
// @Summary Run the daily bill batch
// @Description Triggers the reminder, due and retry passes for today. Intended for the scheduler; also usable for operational replays.
// @Tags bills
// @Produce json
// @Success 200 {object} dto.BillBatchSummary
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills/run [post]
func (h *BillHandler) RunBatch(c *gin.Context) {
	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	summary, err := h.billService.RunDailyBatch(c.Request.Context(), time.Now().UTC())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Daily bill batch failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, newErrorResponse("Batch run failed"))
		return
	}

	c.JSON(http.StatusOK, summary)
}
