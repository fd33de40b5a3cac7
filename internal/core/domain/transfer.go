package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the terminal status of a settled transfer record.
type TransferStatus string

const (
	TransferCompleted TransferStatus = "COMPLETED"
)

// PendingTransferStatus tracks the lifecycle of a claimable transfer.
type PendingTransferStatus string

const (
	PendingStatusPending PendingTransferStatus = "PENDING"
	PendingStatusClaimed PendingTransferStatus = "CLAIMED"
	PendingStatusExpired PendingTransferStatus = "EXPIRED"
)

// Transfer is the immutable record of a settled money movement. It is written
// only after both balance mutations have succeeded.
type Transfer struct {
	TransferID         string          `json:"transferID"`
	SenderAccountID    string          `json:"senderAccountID"`
	RecipientAccountID string          `json:"recipientAccountID"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
	AgentCommission    decimal.Decimal `json:"agentCommission"`
	CurrencyCode       string          `json:"currencyCode"`
	Status             TransferStatus  `json:"status"`
	IsDeleted          bool            `json:"isDeleted"`
	AuditFields
}

// PendingTransfer holds funds debited from a sender for a recipient who has no
// account yet. The claim code is the sole credential to redeem it.
type PendingTransfer struct {
	PendingTransferID  string                `json:"pendingTransferID"`
	SenderAccountID    string                `json:"senderAccountID"`
	RecipientPhone     string                `json:"recipientPhone"`
	Amount             decimal.Decimal       `json:"amount"`
	Fee                decimal.Decimal       `json:"fee"`
	CurrencyCode       string                `json:"currencyCode"`
	ClaimCode          string                `json:"-"`
	Status             PendingTransferStatus `json:"status"`
	ClaimedByAccountID *string               `json:"claimedByAccountID,omitempty"`
	ExpiresAt          time.Time             `json:"expiresAt"`
	AuditFields
}
