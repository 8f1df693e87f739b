package ports

import "context"

type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
}
