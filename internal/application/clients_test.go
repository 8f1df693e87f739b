package application

import (
	"errors"
	"testing"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/bnema/indexdiff/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegistryMemoizesPerAccount(t *testing.T) {
	service := mocks.NewMockIndexService(t)
	calls := map[domain.AccountName]int{}
	factory := ports.IndexServiceFactoryFunc(func(account domain.Account) (ports.IndexService, error) {
		calls[account.Name]++
		return service, nil
	})

	registry := NewClientRegistry(factory, credentialed(domain.AccountMesos, domain.AccountKubernetes))

	for i := 0; i < 3; i++ {
		client, err := registry.Client(domain.AccountMesos)
		require.NoError(t, err)
		assert.Same(t, service, client)
	}
	_, err := registry.Client(domain.AccountKubernetes)
	require.NoError(t, err)

	assert.Equal(t, map[domain.AccountName]int{domain.AccountMesos: 1, domain.AccountKubernetes: 1}, calls)
}

func TestClientRegistryMissingCredentials(t *testing.T) {
	factory := ports.IndexServiceFactoryFunc(func(domain.Account) (ports.IndexService, error) {
		t.Fatal("factory must not be called without credentials")
		return nil, nil
	})
	accounts := []domain.Account{
		{Name: domain.AccountMesos, Credentials: domain.Credentials{AppID: "app", APIKey: "key"}},
		{Name: domain.AccountKubernetes, Credentials: domain.Credentials{AppID: "app"}},
	}
	registry := NewClientRegistry(factory, accounts)

	_, err := registry.Client(domain.AccountKubernetes)
	require.ErrorIs(t, err, domain.ErrMissingCredentials)

	err = registry.Validate()
	require.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.ErrorContains(t, err, "account kubernetes")
}

func TestClientRegistryUnknownAccountAndFactoryError(t *testing.T) {
	factoryErr := errors.New("bad host")
	registry := NewClientRegistry(ports.IndexServiceFactoryFunc(func(domain.Account) (ports.IndexService, error) {
		return nil, factoryErr
	}), credentialed(domain.AccountMesos))

	_, err := registry.Client("staging")
	require.ErrorIs(t, err, domain.ErrInvalidAccounts)

	_, err = registry.Client(domain.AccountMesos)
	require.ErrorIs(t, err, factoryErr)
	assert.ErrorContains(t, err, "create client for account mesos")

	require.NoError(t, registry.Validate())
}
