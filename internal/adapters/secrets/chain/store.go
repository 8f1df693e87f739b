package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	filestore "github.com/bnema/indexdiff/internal/adapters/secrets/file"
	passstore "github.com/bnema/indexdiff/internal/adapters/secrets/pass"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
)

var errNoBackends = errors.New("secret chain has no backends")

// Backend is one named secret source consulted by the chain.
type Backend struct {
	Name  string
	Store ports.SecretStore
}

// Store resolves api_key_ref values against its backends in order and
// returns the first non-empty secret.
type Store struct {
	backends []Backend
}

var _ ports.SecretStore = (*Store)(nil)

func New(backends ...Backend) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend.Store == nil {
			return nil, fmt.Errorf("secret backend %d (%q) is nil", i, backend.Name)
		}
	}

	return &Store{backends: backends}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return New(
		Backend{Name: "pass", Store: passstore.NewStore()},
		Backend{Name: "file", Store: filestore.NewStore(fileRoot)},
	)
}

// Get returns the secret behind ref. Cancellation stops the walk at once;
// any other backend failure moves on to the next backend. When every backend
// misses, the error wraps domain.ErrSecretNotFound and each backend's reason.
func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	misses := make([]error, 0, len(s.backends))
	for _, backend := range s.backends {
		value, err := backend.Store.Get(ctx, ref)
		if err == nil {
			if value = strings.TrimSpace(value); value != "" {
				return value, nil
			}
			err = errors.New("empty secret")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		misses = append(misses, fmt.Errorf("%s: %w", backend.Name, err))
	}

	return "", fmt.Errorf("%w: api key ref %q: %w", domain.ErrSecretNotFound, ref, errors.Join(misses...))
}
