package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"

	"company-enrich-go/internal/fetcher"
	"company-enrich-go/internal/model"
)

// fakeProfile 可配置的公司档案数据源
type fakeProfile struct {
	mu       sync.Mutex
	ids      map[string]string // 名称 -> ID
	resolved []string          // 查询过的名称

	company     *fetcher.CompanyInfo
	companyErr  error
	fundings    []model.FundingEvent
	industry    *fetcher.IndustryTags
	founders    []model.Founder
	foundersErr error
	panicOn     string
}

func (f *fakeProfile) ResolveCompanyID(ctx context.Context, fullName string) (string, error) {
	f.mu.Lock()
	f.resolved = append(f.resolved, fullName)
	f.mu.Unlock()
	if f.panicOn == "resolve" {
		panic("boom")
	}
	if id, ok := f.ids[fullName]; ok {
		return id, nil
	}
	return "", fetcher.ErrNotFound
}

func (f *fakeProfile) FetchCompany(ctx context.Context, id string) (*fetcher.CompanyInfo, error) {
	return f.company, f.companyErr
}

func (f *fakeProfile) FetchFundings(ctx context.Context, id string) ([]model.FundingEvent, error) {
	if f.panicOn == "fundings" {
		panic("fundings boom")
	}
	return f.fundings, nil
}

func (f *fakeProfile) FetchIndustry(ctx context.Context, id string) (*fetcher.IndustryTags, error) {
	return f.industry, nil
}

func (f *fakeProfile) FetchFounders(ctx context.Context, id string) ([]model.Founder, error) {
	return f.founders, f.foundersErr
}

// fakeInference 按问题内容返回固定回答
type fakeInference struct {
	parent    string
	parentErr error
	reform    string
	reformErr error
	calls     atomic.Int32
	block     chan struct{}
}

func (f *fakeInference) Ask(ctx context.Context, question string) (string, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", eris.Wrap(ctx.Err(), "fake: ask")
		}
	}
	if strings.Contains(question, "母公司") {
		if f.parent == "panic" {
			panic("parent boom")
		}
		return f.parent, f.parentErr
	}
	return f.reform, f.reformErr
}
