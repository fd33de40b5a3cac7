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

// CurrencyHandler handles currency reference data requests.
type CurrencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(cs portssvc.CurrencySvcFacade) *CurrencyHandler {
	return &CurrencyHandler{currencyService: cs}
}

// registerCurrencyRoutes sets up the routes for currency lookups.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := NewCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.CreateCurrency)
		currencies.GET("", h.ListCurrencies)
		currencies.GET("/:code", h.GetCurrency)
	}
}

// CreateCurrency godoc
// @Summary Register a currency
// @Description Adds a currency to the supported set.
// @Tags currencies
// @Accept json
// @Produce json
// @Param currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} domain.Currency
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse("Authentication required"))
		return
	}

	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	currency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, newErrorResponse("Currency already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to create currency"))
		return
	}

	c.JSON(http.StatusCreated, currency)
}

// ListCurrencies godoc
// @Summary List currencies
// @Description Lists all supported currencies.
// @Tags currencies
// @Produce json
// @Success 200 {array} domain.Currency
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to list currencies"))
		return
	}
	c.JSON(http.StatusOK, currencies)
}

// GetCurrency godoc
// @Summary Get currency by code
// @Description Retrieves a single currency by ISO code.
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {object} domain.Currency
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse("Currency not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse("Failed to retrieve currency"))
		return
	}
	c.JSON(http.StatusOK, currency)
}
