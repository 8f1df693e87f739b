package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/bnema/indexdiff/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longRecord(url, body string) domain.Record {
	return domain.Record{
		"objectID": "id-" + url,
		"url":      url,
		"content":  strings.Repeat(body, 40),
	}
}

func TestPipelineRunDownloadsOnlyDivergentIndices(t *testing.T) {
	root := t.TempDir()
	cache := newCache(root)
	comparison, err := domain.NewComparison(credentialed(domain.AccountMesos, domain.AccountKubernetes))
	require.NoError(t, err)

	mesos := mocks.NewMockIndexService(t)
	kubernetes := mocks.NewMockIndexService(t)
	mesos.EXPECT().ListIndices(mockAnyContext()).Return([]domain.IndexSummary{
		{Name: "docs", DataSize: 100},
		{Name: "docs-v2", DataSize: 200},
	}, nil).Once()
	kubernetes.EXPECT().ListIndices(mockAnyContext()).Return([]domain.IndexSummary{
		{Name: "docs", DataSize: 100},
		{Name: "docs-v2", DataSize: 300},
		{Name: "docs-v2_tmp", DataSize: 5},
	}, nil).Once()
	mesos.EXPECT().StreamAllRecords(mockAnyContext(), "docs-v2").Return(recordsOf(longRecord("/a", "m"))).Once()
	kubernetes.EXPECT().StreamAllRecords(mockAnyContext(), "docs-v2").Return(recordsOf(longRecord("/a", "k"), longRecord("/b", "k"))).Once()

	progress := &recordingProgress{}
	pipeline := NewPipeline(comparison, Dependencies{
		Cache: cache,
		Factory: factoryFor(map[domain.AccountName]ports.IndexService{
			domain.AccountMesos:      mesos,
			domain.AccountKubernetes: kubernetes,
		}),
		Progress: progress,
	})

	report, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountMesos, report.Baseline)
	assert.Equal(t, domain.AccountKubernetes, report.Candidate)
	assert.Equal(t, []string{"docs-v2"}, report.Divergent)
	assert.Equal(t, 2, report.Count(domain.UnitDownloaded))
	assert.Equal(t, []string{"docs-v2"}, report.Different)
	assert.Equal(t, 2, progress.total)

	artifacts, err := cache.Glob(context.Background(), domain.ArtifactGlob)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"indices/kubernetes/docs-v2.json",
		"indices/mesos/docs-v2.json",
	}, artifacts)

	var stored []domain.Record
	require.NoError(t, cache.ReadJSON(context.Background(), "indices/kubernetes/docs-v2.json", &stored))
	require.Len(t, stored, 2)
	assert.NotContains(t, stored[0], domain.VolatileIDField)
	assert.Equal(t, "/a", stored[0]["url"])
}

func TestPipelineRerunMakesNoRemoteCalls(t *testing.T) {
	cache := newCache(t.TempDir())
	ctx := context.Background()
	comparison, err := domain.NewComparison(credentialed(domain.AccountMesos, domain.AccountKubernetes))
	require.NoError(t, err)

	require.NoError(t, cache.WriteJSON(ctx, domain.IndexListKey(domain.AccountMesos), []domain.IndexSummary{{Name: "docs", DataSize: 1}}))
	require.NoError(t, cache.WriteJSON(ctx, domain.IndexListKey(domain.AccountKubernetes), []domain.IndexSummary{{Name: "docs", DataSize: 2}}))
	require.NoError(t, cache.WriteRaw(ctx, "indices/mesos/docs.json", strings.Repeat("x", 110)))
	require.NoError(t, cache.WriteRaw(ctx, "indices/kubernetes/docs.json", strings.Repeat("y", 120)))

	services := map[domain.AccountName]ports.IndexService{
		domain.AccountMesos:      mocks.NewMockIndexService(t),
		domain.AccountKubernetes: mocks.NewMockIndexService(t),
	}
	pipeline := NewPipeline(comparison, Dependencies{Cache: cache, Factory: factoryFor(services)})

	report, err := pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, report.Divergent)
	assert.Equal(t, 2, report.Count(domain.UnitCached))
	assert.Equal(t, []string{"docs"}, report.Different)
}

func TestPipelineRunExcludesFailedDownloadsFromReport(t *testing.T) {
	cache := newCache(t.TempDir())
	comparison, err := domain.NewComparison(credentialed(domain.AccountMesos, domain.AccountKubernetes))
	require.NoError(t, err)

	mesos := mocks.NewMockIndexService(t)
	kubernetes := mocks.NewMockIndexService(t)
	mesos.EXPECT().ListIndices(mockAnyContext()).Return([]domain.IndexSummary{{Name: "docs-v2", DataSize: 200}}, nil).Once()
	kubernetes.EXPECT().ListIndices(mockAnyContext()).Return([]domain.IndexSummary{{Name: "docs-v2", DataSize: 300}}, nil).Once()
	mesos.EXPECT().StreamAllRecords(mockAnyContext(), "docs-v2").Return(recordsOf(longRecord("/a", "m"))).Once()

	unreachable := errors.New("all hosts have been contacted unsuccessfully, it can either be a server or a network error " +
		"or wrong appID/key credentials were used. You can use opt.ExposeIntermediateNetworkErrors(true) to investigate.")
	kubernetes.EXPECT().StreamAllRecords(mockAnyContext(), "docs-v2").Return(
		failingAfter(fmt.Errorf("%w: browse index %q: %w", domain.ErrRemote, "docs-v2", unreachable)),
	).Once()

	pipeline := NewPipeline(comparison, Dependencies{
		Cache: cache,
		Factory: factoryFor(map[domain.AccountName]ports.IndexService{
			domain.AccountMesos:      mesos,
			domain.AccountKubernetes: kubernetes,
		}),
	})

	report, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(domain.UnitFailed))

	size, err := cache.Size(context.Background(), "indices/kubernetes/docs-v2.json")
	require.NoError(t, err)
	assert.Greater(t, size, int64(domain.MinArtifactBytes))
	assert.Empty(t, report.Different)
}

func TestPipelineRunRequiresCredentialsBeforeAnyWork(t *testing.T) {
	root := t.TempDir()
	cache := newCache(root)
	comparison, err := domain.NewComparison([]domain.Account{
		{Name: domain.AccountMesos, Credentials: domain.Credentials{AppID: "app"}},
		{Name: domain.AccountKubernetes, Credentials: domain.Credentials{AppID: "app", APIKey: "key"}},
	})
	require.NoError(t, err)

	pipeline := NewPipeline(comparison, Dependencies{Cache: cache, Factory: factoryFor(nil)})

	_, err = pipeline.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingCredentials)

	blobs, err := cache.Glob(context.Background(), "*")
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestPipelineGenuineDifferencesWorksWithoutCredentials(t *testing.T) {
	cache := newCache(t.TempDir())
	ctx := context.Background()
	require.NoError(t, cache.WriteRaw(ctx, "indices/kubernetes/api.json", strings.Repeat("z", 150)))
	require.NoError(t, cache.WriteRaw(ctx, "indices/mesos/api.json", strings.Repeat("z", 160)))

	comparison, err := domain.NewComparison(domain.DefaultAccounts())
	require.NoError(t, err)

	different, err := NewPipeline(comparison, Dependencies{Cache: cache, Factory: factoryFor(nil)}).GenuineDifferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, different)
}
