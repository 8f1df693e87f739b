package application

import (
	"context"
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/logging"
	"github.com/bnema/indexdiff/internal/ports"
	"go.uber.org/zap"
)

type Reporter struct {
	cache      ports.BlobCache
	comparison domain.Comparison
	logger     *zap.Logger
}

func NewReporter(cache ports.BlobCache, comparison domain.Comparison, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reporter{cache: cache, comparison: comparison, logger: logger}
}

// ListGenuineDifferences scans persisted artifacts and returns the candidate
// indices whose artifact size differs from the baseline one. Candidate
// artifacts under domain.MinArtifactBytes are treated as empty and skipped.
// An error marker on either side means the content is unknown, so the index
// is skipped whatever the marker length. Size is the proxy for content
// equality; files are not byte-diffed.
func (r *Reporter) ListGenuineDifferences(ctx context.Context) ([]string, error) {
	keys, err := r.cache.Glob(ctx, domain.ArtifactGlob)
	if err != nil {
		return nil, fmt.Errorf("scan artifacts: %w", err)
	}

	baselineName := r.comparison.Baseline.Name
	candidateName := r.comparison.Candidate.Name

	baselineKeys := make(map[string]string)
	candidateKeys := make(map[string]string)
	var candidateIndices []string
	for _, raw := range keys {
		key, err := domain.ParseArtifactKey(raw)
		if err != nil {
			r.logger.Debug("skipping foreign blob", zap.String("key", raw), zap.Error(err))
			continue
		}

		switch key.Account {
		case baselineName:
			baselineKeys[key.Index] = raw
		case candidateName:
			candidateKeys[key.Index] = raw
			candidateIndices = append(candidateIndices, key.Index)
		}
	}

	different := make([]string, 0)
	for _, indexName := range candidateIndices {
		candidateKey := candidateKeys[indexName]
		candidateSize, err := r.cache.Size(ctx, candidateKey)
		if err != nil {
			return nil, fmt.Errorf("size candidate artifact %q: %w", indexName, err)
		}
		if candidateSize < domain.MinArtifactBytes {
			continue
		}

		failed, err := r.isErrorMarker(ctx, candidateKey)
		if err != nil {
			return nil, fmt.Errorf("inspect candidate artifact %q: %w", indexName, err)
		}
		if failed {
			r.logger.Debug("skipping failed download", logging.Index(indexName), logging.Account(string(candidateName)))
			continue
		}

		baselineSize := int64(-1)
		if baselineKey, ok := baselineKeys[indexName]; ok {
			baselineSize, err = r.cache.Size(ctx, baselineKey)
			if err != nil {
				return nil, fmt.Errorf("size baseline artifact %q: %w", indexName, err)
			}

			failed, err := r.isErrorMarker(ctx, baselineKey)
			if err != nil {
				return nil, fmt.Errorf("inspect baseline artifact %q: %w", indexName, err)
			}
			if failed {
				r.logger.Debug("skipping failed download", logging.Index(indexName), logging.Account(string(baselineName)))
				continue
			}
		}
		if baselineSize == candidateSize {
			continue
		}

		different = append(different, indexName)
	}

	return different, nil
}

func (r *Reporter) isErrorMarker(ctx context.Context, key string) (bool, error) {
	head, err := r.cache.ReadHead(ctx, key, len(domain.ErrorMarkerPrefix))
	if err != nil {
		return false, err
	}

	return domain.IsErrorMarker(head), nil
}
