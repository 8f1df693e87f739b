package ports

import (
	"context"
	"iter"

	"github.com/bnema/indexdiff/internal/domain"
)

type IndexService interface {
	ListIndices(ctx context.Context) ([]domain.IndexSummary, error)
	// StreamAllRecords yields every record of the index page by page. A page
	// failure is yielded once as a non-nil error and ends the sequence.
	StreamAllRecords(ctx context.Context, indexName string) iter.Seq2[domain.Record, error]
}

type IndexServiceFactory interface {
	NewIndexService(account domain.Account) (IndexService, error)
}

type IndexServiceFactoryFunc func(account domain.Account) (IndexService, error)

func (f IndexServiceFactoryFunc) NewIndexService(account domain.Account) (IndexService, error) {
	return f(account)
}
