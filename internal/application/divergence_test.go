package application

import (
	"testing"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sizes(pairs ...any) []domain.IndexSummary {
	summaries := make([]domain.IndexSummary, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		summaries = append(summaries, domain.IndexSummary{Name: pairs[i].(string), DataSize: int64(pairs[i+1].(int))})
	}

	return summaries
}

func TestFindDivergentIndices(t *testing.T) {
	tests := []struct {
		name      string
		baseline  []domain.IndexSummary
		candidate []domain.IndexSummary
		want      []string
	}{
		{
			name:      "size mismatch only, candidate-only names ignored",
			baseline:  sizes("foo", 100, "bar", 50),
			candidate: sizes("foo", 100, "bar", 60, "baz", 10),
			want:      []string{"bar"},
		},
		{
			name:      "missing on candidate is divergent",
			baseline:  sizes("foo", 100, "gone", 5),
			candidate: sizes("foo", 100),
			want:      []string{"gone"},
		},
		{
			name:      "baseline order is kept",
			baseline:  sizes("zeta", 1, "alpha", 2, "mid", 3),
			candidate: sizes("alpha", 20, "mid", 30, "zeta", 10),
			want:      []string{"zeta", "alpha", "mid"},
		},
		{
			name:      "identical lists",
			baseline:  sizes("foo", 1),
			candidate: sizes("foo", 1),
			want:      []string{},
		},
		{
			name:      "duplicate baseline name keeps first position and last size",
			baseline:  sizes("dup", 1, "other", 7, "dup", 2),
			candidate: sizes("dup", 2, "other", 8),
			want:      []string{"other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindDivergentIndices(tt.baseline, tt.candidate))
		})
	}
}
