package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/bnema/indexdiff/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloaderIsolatesFailuresPerPair(t *testing.T) {
	root := t.TempDir()
	cache := newCache(root)
	mesos := mocks.NewMockIndexService(t)
	kubernetes := mocks.NewMockIndexService(t)
	accounts := credentialed(domain.AccountMesos, domain.AccountKubernetes)
	registry := NewClientRegistry(factoryFor(map[domain.AccountName]ports.IndexService{
		domain.AccountMesos:      mesos,
		domain.AccountKubernetes: kubernetes,
	}), accounts)
	progress := &recordingProgress{}
	downloader := NewDownloader(cache, registry, progress, nil, nil)

	pageErr := errors.New("page 2: 502 bad gateway")
	mesos.EXPECT().StreamAllRecords(mockAnyContext(), "docs").Return(failingAfter(pageErr, domain.Record{"url": "a"})).Once()
	kubernetes.EXPECT().StreamAllRecords(mockAnyContext(), "docs").Return(recordsOf(domain.Record{"objectID": "1", "url": "a"})).Once()
	mesos.EXPECT().StreamAllRecords(mockAnyContext(), "api").Return(recordsOf(domain.Record{"objectID": "2", "url": "b"})).Once()
	kubernetes.EXPECT().StreamAllRecords(mockAnyContext(), "api").Return(recordsOf()).Once()

	results, err := downloader.Download(context.Background(), []string{"docs", "api"}, accounts)
	require.NoError(t, err)

	assert.Equal(t, 4, progress.total)
	require.Len(t, progress.results, 4)
	assert.Equal(t, results, progress.results)

	assert.Equal(t, domain.ArtifactKey{Index: "docs", Account: domain.AccountMesos}, results[0].Key)
	assert.Equal(t, domain.UnitFailed, results[0].Outcome)
	require.ErrorIs(t, results[0].Err, pageErr)
	assert.Equal(t, domain.UnitDownloaded, results[1].Outcome)
	assert.Equal(t, 1, results[1].Records)
	assert.Equal(t, domain.UnitDownloaded, results[2].Outcome)
	assert.Equal(t, domain.UnitDownloaded, results[3].Outcome)

	marker, err := os.ReadFile(filepath.Join(root, "indices", "mesos", "docs.json"))
	require.NoError(t, err)
	assert.Equal(t, "ERROR: page 2: 502 bad gateway", string(marker))

	var records []domain.Record
	require.NoError(t, cache.ReadJSON(context.Background(), domain.ArtifactKey{Index: "docs", Account: domain.AccountKubernetes}.Path(), &records))
	assert.Equal(t, []domain.Record{{"url": "a"}}, records)

	var empty []domain.Record
	require.NoError(t, cache.ReadJSON(context.Background(), domain.ArtifactKey{Index: "api", Account: domain.AccountKubernetes}.Path(), &empty))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDownloaderSkipsCachedPairsIncludingErrorMarkers(t *testing.T) {
	cache := newCache(t.TempDir())
	accounts := credentialed(domain.AccountMesos, domain.AccountKubernetes)
	service := mocks.NewMockIndexService(t)
	registry := NewClientRegistry(factoryFor(map[domain.AccountName]ports.IndexService{
		domain.AccountMesos:      service,
		domain.AccountKubernetes: service,
	}), accounts)
	progress := &recordingProgress{}
	downloader := NewDownloader(cache, registry, progress, nil, nil)

	require.NoError(t, cache.WriteRaw(context.Background(), domain.ArtifactKey{Index: "docs", Account: domain.AccountMesos}.Path(), "ERROR: old failure"))
	require.NoError(t, cache.WriteJSON(context.Background(), domain.ArtifactKey{Index: "docs", Account: domain.AccountKubernetes}.Path(), []domain.Record{}))

	results, err := downloader.Download(context.Background(), []string{"docs"}, accounts)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, domain.UnitCached, result.Outcome)
	}
	assert.Equal(t, 2, progress.total)
}

func TestDownloaderMissingCredentialsBecomesMarker(t *testing.T) {
	root := t.TempDir()
	cache := newCache(root)
	accounts := []domain.Account{{Name: domain.AccountMesos}}
	downloader := NewDownloader(cache, NewClientRegistry(factoryFor(nil), accounts), nil, nil, nil)

	results, err := downloader.Download(context.Background(), []string{"docs"}, accounts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, domain.ErrMissingCredentials)

	marker, err := os.ReadFile(filepath.Join(root, "indices", "mesos", "docs.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(marker), domain.ErrorMarkerPrefix))
}

func TestDownloaderCancellationAbortsWithoutMarker(t *testing.T) {
	cache := newCache(t.TempDir())
	accounts := credentialed(domain.AccountMesos)
	service := mocks.NewMockIndexService(t)
	registry := NewClientRegistry(factoryFor(map[domain.AccountName]ports.IndexService{domain.AccountMesos: service}), accounts)
	downloader := NewDownloader(cache, registry, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := downloader.Download(ctx, []string{"docs", "api"}, accounts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDownloaderStreamCanceledErrorIsNotPersisted(t *testing.T) {
	cache := newCache(t.TempDir())
	accounts := credentialed(domain.AccountMesos)
	service := mocks.NewMockIndexService(t)
	registry := NewClientRegistry(factoryFor(map[domain.AccountName]ports.IndexService{domain.AccountMesos: service}), accounts)
	downloader := NewDownloader(cache, registry, nil, nil, nil)

	service.EXPECT().StreamAllRecords(mockAnyContext(), "docs").Return(failingAfter(context.DeadlineExceeded)).Once()

	_, err := downloader.Download(context.Background(), []string{"docs"}, accounts)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	exists, err := cache.Exists(context.Background(), domain.ArtifactKey{Index: "docs", Account: domain.AccountMesos}.Path())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDownloaderRecordsOnlyRealRemoteFailures(t *testing.T) {
	testCases := []struct {
		name      string
		streamErr error
		want      []remoteCall
	}{
		{name: "remote failure", streamErr: errors.New("page 3: 503"), want: []remoteCall{{op: "browse", failed: true}}},
		{name: "canceled", streamErr: context.Canceled, want: nil},
		{name: "deadline", streamErr: fmt.Errorf("browse docs: %w", context.DeadlineExceeded), want: nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			accounts := credentialed(domain.AccountMesos)
			service := mocks.NewMockIndexService(t)
			registry := NewClientRegistry(factoryFor(map[domain.AccountName]ports.IndexService{domain.AccountMesos: service}), accounts)
			metrics := &recordingMetrics{}
			downloader := NewDownloader(newCache(t.TempDir()), registry, nil, metrics, nil)

			service.EXPECT().StreamAllRecords(mockAnyContext(), "docs").Return(failingAfter(tt.streamErr)).Once()

			_, _ = downloader.Download(context.Background(), []string{"docs"}, accounts)
			assert.Equal(t, tt.want, metrics.calls)
		})
	}
}
