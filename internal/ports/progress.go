package ports

import "github.com/bnema/indexdiff/internal/domain"

type Progress interface {
	Start(total int)
	Done(result domain.UnitResult)
}

type NopProgress struct{}

func (NopProgress) Start(int) {}
func (NopProgress) Done(domain.UnitResult) {}
