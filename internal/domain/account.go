package domain

import (
	"fmt"
	"strings"
)

type AccountName string

const (
	AccountMesos      AccountName = "mesos"
	AccountKubernetes AccountName = "kubernetes"
)

type Account struct {
	Name        AccountName
	Credentials Credentials
}

type Credentials struct {
	AppID  string
	APIKey string
	// APIKeyRef points to a secret-store entry holding the API key; it is
	// resolved into APIKey before any client is built.
	APIKeyRef string
}

func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.AppID) != "" && strings.TrimSpace(c.APIKey) != ""
}

// Comparison is the ordered account pair being diffed. Baseline plays the
// "mesos" role and Candidate the "kubernetes" role.
type Comparison struct {
	Baseline  Account
	Candidate Account
}

func NewComparison(accounts []Account) (Comparison, error) {
	if len(accounts) < 2 {
		return Comparison{}, fmt.Errorf("%w: need two accounts, got %d", ErrInvalidAccounts, len(accounts))
	}

	seen := make(map[AccountName]struct{}, len(accounts))
	for _, account := range accounts {
		name := AccountName(strings.TrimSpace(string(account.Name)))
		if name == "" {
			return Comparison{}, fmt.Errorf("%w: account name is required", ErrInvalidAccounts)
		}
		if strings.ContainsAny(string(name), `/\`) {
			return Comparison{}, fmt.Errorf("%w: account name %q contains a path separator", ErrInvalidAccounts, name)
		}
		if _, ok := seen[name]; ok {
			return Comparison{}, fmt.Errorf("%w: duplicate account %q", ErrInvalidAccounts, name)
		}
		seen[name] = struct{}{}
	}

	return Comparison{Baseline: accounts[0], Candidate: accounts[1]}, nil
}

func (c Comparison) Accounts() []Account {
	return []Account{c.Baseline, c.Candidate}
}

func DefaultAccounts() []Account {
	return []Account{{Name: AccountMesos}, {Name: AccountKubernetes}}
}
