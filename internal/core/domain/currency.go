package domain

// Currency holds reference data for a supported currency. Precision is the
// number of decimal places amounts may carry; mobile-money currencies here
// all use zero (whole units only).
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}
