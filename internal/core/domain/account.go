package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRole defines what kind of actor owns a wallet account.
type AccountRole string

const (
	RoleUser     AccountRole = "USER"
	RoleAgent    AccountRole = "AGENT"
	RoleAdmin    AccountRole = "ADMIN"
	RoleSubAdmin AccountRole = "SUB_ADMIN"
	RoleMerchant AccountRole = "MERCHANT"
	RoleProvider AccountRole = "PROVIDER"
)

// Account represents a mobile-money wallet.
//
// Balance is held in whole units of the account currency and is only ever
// mutated through the repository's atomic increment primitives; callers never
// read a balance, adjust it locally and write it back. CommissionBalance
// accumulates agent commission separately from spendable funds.
type Account struct {
	AccountID         string          `json:"accountID"`
	UserID            string          `json:"userID"`
	Phone             string          `json:"phone"`
	Country           string          `json:"country"`
	CurrencyCode      string          `json:"currencyCode"`
	Role              AccountRole     `json:"role"`
	Balance           decimal.Decimal `json:"balance"`
	CommissionBalance decimal.Decimal `json:"commissionBalance"`
	IsActive          bool            `json:"isActive"`
	AuditFields
}
