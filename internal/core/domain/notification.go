package domain

import "time"

// NotificationKind classifies user notifications emitted by the batch and the
// transfer flows.
type NotificationKind string

const (
	NotificationBillReminder NotificationKind = "BILL_REMINDER"
	NotificationBillDue      NotificationKind = "BILL_DUE"
	NotificationBillFailed   NotificationKind = "BILL_FAILED"
	NotificationTransfer     NotificationKind = "TRANSFER"
)

// Notification is a user-facing message persisted for in-app display.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	UserID         string           `json:"userID"`
	BillID         *string          `json:"billID,omitempty"`
	Kind           NotificationKind `json:"kind"`
	Message        string           `json:"message"`
	IsRead         bool             `json:"isRead"`
	CreatedAt      time.Time        `json:"createdAt"`
}
