package services

import (
	portsrepo "github.com/afrimoni/remit_backend/internal/core/ports/repositories"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.User = NewUserService(repos.UserRepo, cfg.BcryptCost)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	container.Transfer = NewTransferService(repos.AccountRepo, repos.TransferRepo, cfg.PendingTransferTTL)
	container.Bill = NewBillService(repos.BillRepo, repos.NotificationRepo, repos.AccountRepo, container.Transfer, cfg.MaxBillAttempts)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
