package application

import (
	"context"
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
)

// ResolveCredentials fills APIKey from the secret store for every account
// that only carries an APIKeyRef. Accounts with an inline key are returned
// untouched.
func ResolveCredentials(ctx context.Context, secrets ports.SecretStore, accounts []domain.Account) ([]domain.Account, error) {
	resolved := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Credentials.APIKey == "" && account.Credentials.APIKeyRef != "" {
			if secrets == nil {
				return nil, fmt.Errorf("resolve api key for account %s: %w", account.Name, domain.ErrSecretNotFound)
			}

			apiKey, err := secrets.Get(ctx, account.Credentials.APIKeyRef)
			if err != nil {
				return nil, fmt.Errorf("resolve api key for account %s: %w", account.Name, err)
			}
			account.Credentials.APIKey = apiKey
		}

		resolved = append(resolved, account)
	}

	return resolved, nil
}
