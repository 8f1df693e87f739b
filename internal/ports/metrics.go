package ports

import "github.com/bnema/indexdiff/internal/domain"

type RunMetrics interface {
	RemoteCall(op string, err error)
	CacheHit(kind string)
	UnitCompleted(outcome domain.UnitOutcome)
	DivergentIndices(count int)
}

type NopMetrics struct{}

func (NopMetrics) RemoteCall(string, error) {}
func (NopMetrics) CacheHit(string) {}
func (NopMetrics) UnitCompleted(domain.UnitOutcome) {}
func (NopMetrics) DivergentIndices(int) {}
