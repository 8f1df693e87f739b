package report

import (
	"errors"
	"testing"

	"github.com/bnema/indexdiff/internal/application"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRunReport(t *testing.T) {
	output, err := Render(application.Report{
		Baseline:  domain.AccountMesos,
		Candidate: domain.AccountKubernetes,
		Divergent: []string{"docs-v2", "api"},
		Units: []domain.UnitResult{
			{Key: domain.ArtifactKey{Index: "docs-v2", Account: domain.AccountMesos}, Outcome: domain.UnitDownloaded},
			{Key: domain.ArtifactKey{Index: "docs-v2", Account: domain.AccountKubernetes}, Outcome: domain.UnitCached},
			{Key: domain.ArtifactKey{Index: "api", Account: domain.AccountMesos}, Outcome: domain.UnitFailed, Err: errors.New("timeout")},
			{Key: domain.ArtifactKey{Index: "api", Account: domain.AccountKubernetes}, Outcome: domain.UnitDownloaded},
		},
		Different: []string{"docs-v2"},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Index comparison: mesos vs kubernetes")
	assert.Contains(t, output, "divergent: 2  downloaded: 2  cached: 1  failed: 1")
	assert.Contains(t, output, "api@mesos (timeout)")
	assert.Contains(t, output, "Genuinely different indices")
	assert.Contains(t, output, "docs-v2")
}

func TestRenderNamesEmpty(t *testing.T) {
	output, err := RenderNames("Divergent indices", nil)

	require.NoError(t, err)
	assert.Contains(t, output, "Divergent indices")
	assert.Contains(t, output, "indices: 0")
	assert.Contains(t, output, "No indices.")
}

func TestRenderIndexList(t *testing.T) {
	output, err := RenderIndexList(domain.AccountKubernetes, []domain.IndexSummary{
		{Name: "docs", Entries: 42, DataSize: 512, FileSize: 3 * 1024 * 1024},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Indices of kubernetes")
	assert.Contains(t, output, "docs")
	assert.Contains(t, output, "42")
	assert.Contains(t, output, "512 B")
	assert.Contains(t, output, "3 MiB")
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   int64
		want string
	}{
		{in: 0, want: "0 B"},
		{in: 1023, want: "1023 B"},
		{in: 1536, want: "1.5 KiB"},
		{in: 1024 * 1024, want: "1 MiB"},
	}

	for _, tt := range testCases {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
