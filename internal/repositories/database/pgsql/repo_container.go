package pgsql

import (
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transferRepo := newPgxTransferRepository(dbPool)
	billRepo := newPgxBillRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		TransferRepo:     transferRepo,
		BillRepo:         billRepo,
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		CurrencyRepo:     currencyRepo,
	}
}
