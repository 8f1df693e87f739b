package ports

import (
	"context"

	"github.com/bnema/indexdiff/internal/domain"
)

type AccountRepository interface {
	List(ctx context.Context) ([]domain.Account, error)
}
