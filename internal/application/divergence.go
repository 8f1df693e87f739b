package application

import "github.com/bnema/indexdiff/internal/domain"

// FindDivergentIndices returns the names of baseline indices whose data size
// differs on the candidate side, including names the candidate lacks, in
// baseline order. Indices that exist only on the candidate are not reported.
func FindDivergentIndices(baseline, candidate []domain.IndexSummary) []string {
	names := make([]string, 0, len(baseline))
	baselineSizes := make(map[string]int64, len(baseline))
	for _, summary := range baseline {
		if _, ok := baselineSizes[summary.Name]; !ok {
			names = append(names, summary.Name)
		}
		baselineSizes[summary.Name] = summary.DataSize
	}

	candidateSizes := make(map[string]int64, len(candidate))
	for _, summary := range candidate {
		candidateSizes[summary.Name] = summary.DataSize
	}

	divergent := make([]string, 0)
	for _, name := range names {
		candidateSize, ok := candidateSizes[name]
		if ok && candidateSize == baselineSizes[name] {
			continue
		}
		divergent = append(divergent, name)
	}

	return divergent
}
