package dto

// CreateCurrencyRequest defines the data needed to register a supported
// currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Precision    int    `json:"precision" binding:"min=0,max=8"`
}
