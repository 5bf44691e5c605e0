package fetcher

import (
	"context"

	"github.com/rotisserie/eris"

	"company-enrich-go/internal/model"
)

// ErrNotFound 按名称查不到公司ID
var ErrNotFound = eris.New("company not found")

// ProfileSource 公司档案数据源 (Xiniu)
type ProfileSource interface {
	ResolveCompanyID(ctx context.Context, fullName string) (string, error)
	FetchCompany(ctx context.Context, companyID string) (*CompanyInfo, error)
	FetchFundings(ctx context.Context, companyID string) ([]model.FundingEvent, error)
	FetchIndustry(ctx context.Context, companyID string) (*IndustryTags, error)
	FetchFounders(ctx context.Context, companyID string) ([]model.Founder, error)
}

// InferenceSource 搜索推断数据源 (Metaso)，返回完整的回答文本
type InferenceSource interface {
	Ask(ctx context.Context, question string) (string, error)
}

// RegistrySource 工商变更数据源 (Qichacha)
type RegistrySource interface {
	GetAllChanges(ctx context.Context, searchKey string) ([]ChangeRecord, error)
}

// CompanyInfo 公司基本信息
type CompanyInfo struct {
	EstablishDate string
	Round         string // 轮次/上市状态
	Brief         string
	Description   string
}

// IndustryTags 行业标签（主要行业 + 有序标签）
type IndustryTags struct {
	Primary *model.PrimaryIndustry
	Tags    []model.IndustryTag
}
