package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/logging"
	"github.com/bnema/indexdiff/internal/ports"
	"go.uber.org/zap"
)

type Downloader struct {
	cache    ports.BlobCache
	clients  *ClientRegistry
	progress ports.Progress
	metrics  ports.RunMetrics
	logger   *zap.Logger
}

func NewDownloader(cache ports.BlobCache, clients *ClientRegistry, progress ports.Progress, metrics ports.RunMetrics, logger *zap.Logger) *Downloader {
	if progress == nil {
		progress = ports.NopProgress{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Downloader{cache: cache, clients: clients, progress: progress, metrics: metrics, logger: logger}
}

// Download fetches, normalizes and persists every (index, account) pair one at
// a time. Pairs already in the cache are skipped whatever their age. A failed
// pair is persisted as an error marker and the batch continues; only cache
// failures and cancellation abort the run.
func (d *Downloader) Download(ctx context.Context, indexNames []string, accounts []domain.Account) ([]domain.UnitResult, error) {
	total := len(indexNames) * len(accounts)
	d.progress.Start(total)

	results := make([]domain.UnitResult, 0, total)
	for _, indexName := range indexNames {
		for _, account := range accounts {
			result, err := d.downloadUnit(ctx, domain.ArtifactKey{Index: indexName, Account: account.Name})
			if err != nil {
				return results, err
			}

			d.metrics.UnitCompleted(result.Outcome)
			d.progress.Done(result)
			results = append(results, result)
		}
	}

	return results, nil
}

func (d *Downloader) downloadUnit(ctx context.Context, key domain.ArtifactKey) (domain.UnitResult, error) {
	exists, err := d.cache.Exists(ctx, key.Path())
	if err != nil {
		return domain.UnitResult{}, fmt.Errorf("check artifact %s: %w", key, err)
	}
	if exists {
		d.metrics.CacheHit("artifact")
		d.logger.Debug("artifact cache hit", logging.Index(key.Index), logging.Account(string(key.Account)))
		return domain.UnitResult{Key: key, Outcome: domain.UnitCached}, nil
	}

	records, fetchErr := d.fetchRecords(ctx, key)
	if fetchErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.UnitResult{}, ctxErr
		}
		if isCancellation(fetchErr) {
			return domain.UnitResult{}, fetchErr
		}

		if err := d.cache.WriteRaw(ctx, key.Path(), domain.ErrorMarker(fetchErr)); err != nil {
			return domain.UnitResult{}, fmt.Errorf("write error marker %s: %w", key, err)
		}

		d.logger.Warn("download failed",
			logging.Index(key.Index),
			logging.Account(string(key.Account)),
			logging.Err(fetchErr),
		)
		return domain.UnitResult{Key: key, Outcome: domain.UnitFailed, Err: fetchErr}, nil
	}

	if err := d.cache.WriteJSON(ctx, key.Path(), records); err != nil {
		return domain.UnitResult{}, fmt.Errorf("write artifact %s: %w", key, err)
	}

	d.logger.Debug("downloaded index",
		logging.Index(key.Index),
		logging.Account(string(key.Account)),
		zap.Int("records", len(records)),
	)
	return domain.UnitResult{Key: key, Outcome: domain.UnitDownloaded, Records: len(records)}, nil
}

func (d *Downloader) fetchRecords(ctx context.Context, key domain.ArtifactKey) ([]domain.Record, error) {
	client, err := d.clients.Client(key.Account)
	if err != nil {
		return nil, err
	}

	records, err := Normalize(client.StreamAllRecords(ctx, key.Index))
	recordRemoteCall(d.metrics, "browse", err)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// recordRemoteCall counts a finished remote call. Calls cut short by
// cancellation are not remote failures and are left out.
func recordRemoteCall(metrics ports.RunMetrics, op string, err error) {
	if isCancellation(err) {
		return
	}
	metrics.RemoteCall(op, err)
}
