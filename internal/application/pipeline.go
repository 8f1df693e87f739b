package application

import (
	"context"
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"go.uber.org/zap"
)

type Dependencies struct {
	Cache    ports.BlobCache
	Factory  ports.IndexServiceFactory
	Progress ports.Progress
	Metrics  ports.RunMetrics
	Logger   *zap.Logger
}

type Pipeline struct {
	comparison domain.Comparison
	clients    *ClientRegistry
	fetcher    *IndexListFetcher
	downloader *Downloader
	reporter   *Reporter
	metrics    ports.RunMetrics
	logger     *zap.Logger
}

type Report struct {
	Baseline  domain.AccountName  `json:"baseline"`
	Candidate domain.AccountName  `json:"candidate"`
	Divergent []string            `json:"divergent"`
	Units     []domain.UnitResult `json:"-"`
	Different []string            `json:"different"`
}

func (r Report) Count(outcome domain.UnitOutcome) int {
	count := 0
	for _, unit := range r.Units {
		if unit.Outcome == outcome {
			count++
		}
	}

	return count
}

func NewPipeline(comparison domain.Comparison, deps Dependencies) *Pipeline {
	if deps.Metrics == nil {
		deps.Metrics = ports.NopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	clients := NewClientRegistry(deps.Factory, comparison.Accounts())

	return &Pipeline{
		comparison: comparison,
		clients:    clients,
		fetcher:    NewIndexListFetcher(deps.Cache, clients, deps.Metrics, deps.Logger),
		downloader: NewDownloader(deps.Cache, clients, deps.Progress, deps.Metrics, deps.Logger),
		reporter:   NewReporter(deps.Cache, comparison, deps.Logger),
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

func (p *Pipeline) Comparison() domain.Comparison {
	return p.comparison
}

// Run fetches both index lists, downloads every divergent index for both
// accounts and reports the indices whose content really differs.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	if err := p.clients.Validate(); err != nil {
		return Report{}, err
	}

	report := Report{
		Baseline:  p.comparison.Baseline.Name,
		Candidate: p.comparison.Candidate.Name,
	}

	divergent, err := p.Divergent(ctx)
	if err != nil {
		return Report{}, err
	}
	report.Divergent = divergent

	units, err := p.downloader.Download(ctx, divergent, p.comparison.Accounts())
	report.Units = units
	if err != nil {
		return report, fmt.Errorf("download divergent indices: %w", err)
	}

	different, err := p.reporter.ListGenuineDifferences(ctx)
	if err != nil {
		return report, err
	}
	report.Different = different

	p.logger.Info("comparison finished",
		zap.Int("divergent", len(divergent)),
		zap.Int("failed_units", report.Count(domain.UnitFailed)),
		zap.Int("different", len(different)),
	)

	return report, nil
}

func (p *Pipeline) IndexList(ctx context.Context, account domain.AccountName) ([]domain.IndexSummary, error) {
	return p.fetcher.Fetch(ctx, account)
}

// Divergent returns the indices whose data size differs between the
// baseline and candidate index lists.
func (p *Pipeline) Divergent(ctx context.Context) ([]string, error) {
	baseline, err := p.fetcher.Fetch(ctx, p.comparison.Baseline.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch index list: %w", err)
	}

	candidate, err := p.fetcher.Fetch(ctx, p.comparison.Candidate.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch index list: %w", err)
	}

	divergent := FindDivergentIndices(baseline, candidate)
	p.metrics.DivergentIndices(len(divergent))
	p.logger.Info("detected divergent indices", zap.Int("count", len(divergent)))

	return divergent, nil
}

func (p *Pipeline) GenuineDifferences(ctx context.Context) ([]string, error) {
	return p.reporter.ListGenuineDifferences(ctx)
}
