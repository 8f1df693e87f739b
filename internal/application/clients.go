package application

import (
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
)

// ClientRegistry lazily builds one index service per account and reuses it
// for the rest of the run. It is not safe for concurrent use.
type ClientRegistry struct {
	factory  ports.IndexServiceFactory
	order    []domain.AccountName
	accounts map[domain.AccountName]domain.Account
	clients  map[domain.AccountName]ports.IndexService
}

func NewClientRegistry(factory ports.IndexServiceFactory, accounts []domain.Account) *ClientRegistry {
	order := make([]domain.AccountName, 0, len(accounts))
	byName := make(map[domain.AccountName]domain.Account, len(accounts))
	for _, account := range accounts {
		order = append(order, account.Name)
		byName[account.Name] = account
	}

	return &ClientRegistry{
		factory:  factory,
		order:    order,
		accounts: byName,
		clients:  make(map[domain.AccountName]ports.IndexService, len(accounts)),
	}
}

func (r *ClientRegistry) Client(name domain.AccountName) (ports.IndexService, error) {
	if client, ok := r.clients[name]; ok {
		return client, nil
	}

	account, ok := r.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown account %q", domain.ErrInvalidAccounts, name)
	}
	if !account.Credentials.Complete() {
		return nil, fmt.Errorf("account %s: %w", name, domain.ErrMissingCredentials)
	}

	client, err := r.factory.NewIndexService(account)
	if err != nil {
		return nil, fmt.Errorf("create client for account %s: %w", name, err)
	}

	r.clients[name] = client
	return client, nil
}

// Validate reports the first account that cannot produce a client.
func (r *ClientRegistry) Validate() error {
	for _, name := range r.order {
		if !r.accounts[name].Credentials.Complete() {
			return fmt.Errorf("account %s: %w", name, domain.ErrMissingCredentials)
		}
	}

	return nil
}
