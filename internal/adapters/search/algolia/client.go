package algolia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
)

const DefaultPageSize = 1000

type backend interface {
	listIndices(ctx context.Context) ([]search.IndexRes, error)
	browse(ctx context.Context, indexName string, pageSize int) (hitIterator, error)
}

type hitIterator interface {
	next() (any, error)
}

type Factory struct {
	PageSize int
}

var _ ports.IndexServiceFactory = Factory{}

func (f Factory) NewIndexService(account domain.Account) (ports.IndexService, error) {
	if !account.Credentials.Complete() {
		return nil, fmt.Errorf("account %s: %w", account.Name, domain.ErrMissingCredentials)
	}

	client := search.NewClient(account.Credentials.AppID, account.Credentials.APIKey)
	return newService(sdkBackend{client: client}, f.PageSize), nil
}

type Service struct {
	backend  backend
	pageSize int
}

var _ ports.IndexService = (*Service)(nil)

func newService(b backend, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Service{backend: b, pageSize: pageSize}
}

func (s *Service) ListIndices(ctx context.Context) ([]domain.IndexSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := s.backend.listIndices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list indices: %w", domain.ErrRemote, err)
	}

	summaries := make([]domain.IndexSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, domain.IndexSummary{
			Name:       item.Name,
			Entries:    int64(item.Entries),
			DataSize:   int64(item.DataSize),
			FileSize:   int64(item.FileSize),
			LastUpdate: item.UpdatedAt,
		})
	}

	return summaries, nil
}

func (s *Service) StreamAllRecords(ctx context.Context, indexName string) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		hits, err := s.backend.browse(ctx, indexName, s.pageSize)
		if err != nil {
			yield(nil, fmt.Errorf("%w: browse index %q: %w", domain.ErrRemote, indexName, err))
			return
		}

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			hit, err := hits.next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: browse index %q: %w", domain.ErrRemote, indexName, err))
				return
			}

			record, err := toRecord(hit)
			if err != nil {
				yield(nil, fmt.Errorf("decode record from %q: %w", indexName, err))
				return
			}

			if !yield(record, nil) {
				return
			}
		}
	}
}

func toRecord(hit any) (domain.Record, error) {
	switch value := hit.(type) {
	case domain.Record:
		return value, nil
	case map[string]any:
		return domain.Record(value), nil
	}

	data, err := json.Marshal(hit)
	if err != nil {
		return nil, err
	}

	var record domain.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	return record, nil
}

type sdkBackend struct {
	client *search.Client
}

func (b sdkBackend) listIndices(ctx context.Context) ([]search.IndexRes, error) {
	res, err := b.client.ListIndices(ctx)
	if err != nil {
		return nil, err
	}

	return res.Items, nil
}

func (b sdkBackend) browse(ctx context.Context, indexName string, pageSize int) (hitIterator, error) {
	it, err := b.client.InitIndex(indexName).BrowseObjects(
		ctx,
		opt.HitsPerPage(pageSize),
		opt.AttributesToRetrieve("*"),
	)
	if err != nil {
		return nil, err
	}

	return sdkIterator{it: it}, nil
}

type sdkIterator struct {
	it *search.ObjectIterator
}

func (i sdkIterator) next() (any, error) {
	return i.it.Next()
}
