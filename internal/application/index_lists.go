package application

import (
	"context"
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/logging"
	"github.com/bnema/indexdiff/internal/ports"
	"go.uber.org/zap"
)

type IndexListFetcher struct {
	cache   ports.BlobCache
	clients *ClientRegistry
	metrics ports.RunMetrics
	logger  *zap.Logger
}

func NewIndexListFetcher(cache ports.BlobCache, clients *ClientRegistry, metrics ports.RunMetrics, logger *zap.Logger) *IndexListFetcher {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IndexListFetcher{cache: cache, clients: clients, metrics: metrics, logger: logger}
}

// Fetch returns the cached index list of the account, or lists the remote
// service once and caches the non-temporary entries. Cached lists never expire.
func (f *IndexListFetcher) Fetch(ctx context.Context, account domain.AccountName) ([]domain.IndexSummary, error) {
	key := domain.IndexListKey(account)

	exists, err := f.cache.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check index list cache: %w", err)
	}
	if exists {
		var summaries []domain.IndexSummary
		if err := f.cache.ReadJSON(ctx, key, &summaries); err != nil {
			return nil, fmt.Errorf("read index list cache: %w", err)
		}
		f.metrics.CacheHit("index_list")
		f.logger.Debug("index list cache hit", logging.Account(string(account)), zap.Int("indices", len(summaries)))
		return summaries, nil
	}

	client, err := f.clients.Client(account)
	if err != nil {
		return nil, err
	}

	listed, err := client.ListIndices(ctx)
	recordRemoteCall(f.metrics, "list_indices", err)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, err)
	}

	summaries := make([]domain.IndexSummary, 0, len(listed))
	for _, summary := range listed {
		if summary.IsTemporary() {
			continue
		}
		summaries = append(summaries, summary)
	}

	if err := f.cache.WriteJSON(ctx, key, summaries); err != nil {
		return nil, fmt.Errorf("write index list cache: %w", err)
	}

	f.logger.Info("fetched index list",
		logging.Account(string(account)),
		zap.Int("indices", len(summaries)),
		zap.Int("skipped_temporary", len(listed)-len(summaries)),
	)

	return summaries, nil
}
