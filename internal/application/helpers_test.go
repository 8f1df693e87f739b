package application

import (
	"context"
	"iter"

	filecache "github.com/bnema/indexdiff/internal/adapters/cache/file"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

func recordsOf(records ...domain.Record) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		for _, record := range records {
			if !yield(record, nil) {
				return
			}
		}
	}
}

func failingAfter(err error, records ...domain.Record) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		for _, record := range records {
			if !yield(record, nil) {
				return
			}
		}
		yield(nil, err)
	}
}

func credentialed(names ...domain.AccountName) []domain.Account {
	accounts := make([]domain.Account, 0, len(names))
	for _, name := range names {
		accounts = append(accounts, domain.Account{
			Name:        name,
			Credentials: domain.Credentials{AppID: "app-" + string(name), APIKey: "key-" + string(name)},
		})
	}

	return accounts
}

func factoryFor(services map[domain.AccountName]ports.IndexService) ports.IndexServiceFactory {
	return ports.IndexServiceFactoryFunc(func(account domain.Account) (ports.IndexService, error) {
		return services[account.Name], nil
	})
}

type recordingProgress struct {
	total   int
	results []domain.UnitResult
}

func (p *recordingProgress) Start(total int) {
	p.total = total
}

func (p *recordingProgress) Done(result domain.UnitResult) {
	p.results = append(p.results, result)
}

func newCache(root string) *filecache.Store {
	return filecache.NewStore(root)
}

type remoteCall struct {
	op     string
	failed bool
}

type recordingMetrics struct {
	ports.NopMetrics
	calls []remoteCall
}

func (m *recordingMetrics) RemoteCall(op string, err error) {
	m.calls = append(m.calls, remoteCall{op: op, failed: err != nil})
}
