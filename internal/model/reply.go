package model

// 推断问题的JSON键
const (
	KeyParentName   = "母公司名称"
	KeyParentListed = "母公司是否上市"
	KeyJointStock   = "是否是股份公司"
	KeyReformDate   = "股改时间"
)

// ParentCompanyReply 母公司推断结果（已校验）
type ParentCompanyReply struct {
	Name   string `json:"母公司名称"`
	Listed string `json:"母公司是否上市"`
}

// DefaultParentCompany 全部为NULL
func DefaultParentCompany() ParentCompanyReply {
	return ParentCompanyReply{Name: Null, Listed: Null}
}

// AsMap 转回原始键值
func (p ParentCompanyReply) AsMap() map[string]any {
	return map[string]any{KeyParentName: p.Name, KeyParentListed: p.Listed}
}

// StockReformReply 股改推断结果（已校验）
type StockReformReply struct {
	IsJointStock string `json:"是否是股份公司"`
	ReformDate   string `json:"股改时间"`
}

// DefaultStockReform 全部为NULL
func DefaultStockReform() StockReformReply {
	return StockReformReply{IsJointStock: Null, ReformDate: Null}
}

// AsMap 转回原始键值
func (s StockReformReply) AsMap() map[string]any {
	return map[string]any{KeyJointStock: s.IsJointStock, KeyReformDate: s.ReformDate}
}

// FundingEvent 一轮融资
type FundingEvent struct {
	Date      string `json:"date"`      // 形如 2021/03/05
	Round     string `json:"round"`     // 轮次
	Amount    string `json:"amount"`    // 已格式化金额
	Investors string `json:"investors"` // 以"，"分隔
	NewsTitle string `json:"news_title,omitempty"`
}

// IndustryTag 行业标签
type IndustryTag struct {
	Name string `json:"标签名"`
	ID   string `json:"标签ID"`
}

// PrimaryIndustry 主要行业
type PrimaryIndustry struct {
	Level1    string `json:"一级行业"`
	Level2    string `json:"二级行业"`
	OtherTags string `json:"其他标签"`
}

// IndustryProfile 行业属性
type IndustryProfile struct {
	Brief   string           `json:"简介"`
	Primary *PrimaryIndustry `json:"主要行业,omitempty"`
	Tags    []IndustryTag    `json:"所有行业标签,omitempty"`
}

// Founder 创始人
type Founder struct {
	Name  string `json:"姓名"`
	Title string `json:"职位"`
	Bio   string `json:"简介"`
}

// ProfileReply 公司档案数据源的结果，nil字段表示该子查询无数据
type ProfileReply struct {
	CompanyID     string           `json:"company_id"`
	EstablishDate string           `json:"establish_date,omitempty"`
	ListingStatus string           `json:"listing_status,omitempty"`
	Description   string           `json:"description,omitempty"`
	Fundings      []FundingEvent   `json:"fundings,omitempty"`
	Industry      *IndustryProfile `json:"industry,omitempty"`
	Founders      []Founder        `json:"founders,omitempty"`
}

// Branch 并发查询分支
type Branch string

const (
	BranchProfile       Branch = "profile"
	BranchParentCompany Branch = "parent_company"
	BranchStockReform   Branch = "stock_reform"
)

// AllBranches 所有分支
var AllBranches = []Branch{BranchProfile, BranchParentCompany, BranchStockReform}

// SourceResult 三个分支合并后的结果
type SourceResult struct {
	Profile *ProfileReply      `json:"profile,omitempty"` // nil: 未找到公司ID或查询失败
	Parent  ParentCompanyReply `json:"parent"`
	Reform  StockReformReply   `json:"reform"`
	Failed  []Branch           `json:"failed,omitempty"`
}
