package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

// newPgxNotificationRepository creates a new repository for notification data.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{pool: pool}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepository
var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

// SaveNotification inserts a notification. A unique index on
// (bill_id, kind, day of created_at) turns same-day duplicates from the batch
// into ErrDuplicate, which callers treat as already-sent.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, bill_id, kind, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := r.pool.Exec(ctx, query,
		notification.NotificationID,
		notification.UserID,
		notification.BillID,
		notification.Kind,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: notification already sent today", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save notification %s: %w", notification.NotificationID, err)
	}
	return nil
}

// HasNotificationForDay reports whether a notification of the given kind was
// already created for the bill on the given calendar day.
func (r *PgxNotificationRepository) HasNotificationForDay(ctx context.Context, billID string, kind domain.NotificationKind, day time.Time) (bool, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE bill_id = $1 AND kind = $2 AND created_at >= $3 AND created_at < $4
		);
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, billID, kind, dayStart, dayEnd).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check notification existence for bill %s: %w", billID, err)
	}
	return exists, nil
}

// ListNotificationsByUserID retrieves a user's notifications, newest first.
func (r *PgxNotificationRepository) ListNotificationsByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT notification_id, user_id, bill_id, kind, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for user %s: %w", userID, err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.NotificationID,
			&n.UserID,
			&n.BillID,
			&n.Kind,
			&n.Message,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", rows.Err())
	}
	return notifications, nil
}
