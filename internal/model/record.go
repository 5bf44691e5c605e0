package model

import "encoding/json"

// 闭合词表
const (
	Yes  = "是"
	No   = "不是"
	Null = "NULL"

	NotFunded         = "未融资"
	UndisclosedAmount = "金额未披露"
	Undisclosed       = "未披露"
)

// Column 输出列名
type Column string

const (
	ColEstablished        Column = "成立时间"
	ColListed             Column = "是否上市"
	ColParentCompany      Column = "母公司"
	ColParentListed       Column = "母公司是否上市"
	ColFundingHistory     Column = "融资历史"
	ColPeerFund           Column = "Peer Fund"
	ColMultiFundingInYear Column = "某一年融资超2次"
	ColMultiInvestorRound Column = "单轮3家以上fund"
	ColMultiPeerFund      Column = "2家以上Peer Fund"
	ColInDealLog          Column = "已在Deal List"
	ColIndustry           Column = "行业属性"
	ColTrackName          Column = "赛道名称"
	ColDescription        Column = "产品/公司介绍"
	ColFounders           Column = "创始人信息"
	ColJointStock         Column = "是否是股份公司"
	ColReformDate         Column = "股改时间"
)

// RecordColumns 输出列顺序（固定）
var RecordColumns = []Column{
	ColEstablished,
	ColListed,
	ColParentCompany,
	ColParentListed,
	ColFundingHistory,
	ColPeerFund,
	ColMultiFundingInYear,
	ColMultiInvestorRound,
	ColMultiPeerFund,
	ColInDealLog,
	ColIndustry,
	ColTrackName,
	ColDescription,
	ColFounders,
	ColJointStock,
	ColReformDate,
}

// DefaultValue 列缺失时的默认值
func DefaultValue(c Column) string {
	switch c {
	case ColFundingHistory:
		return NotFunded
	case ColMultiFundingInYear, ColMultiInvestorRound, ColMultiPeerFund, ColInDealLog:
		return No
	case ColIndustry, ColTrackName, ColDescription, ColFounders:
		return ""
	default:
		return Null
	}
}

// IsRecordColumn 判断是否为生成列
func IsRecordColumn(name string) bool {
	for _, c := range RecordColumns {
		if string(c) == name {
			return true
		}
	}
	return false
}

// RecordEntry 有序记录中的一项
type RecordEntry struct {
	Column Column `json:"column"`
	Value  string `json:"value"`
}

// CanonicalRecord 一家公司的输出记录，构造后不可修改
type CanonicalRecord struct {
	values map[Column]string
}

// NewCanonicalRecord 构造记录，未给出的列取默认值，未知列被忽略
func NewCanonicalRecord(values map[Column]string) CanonicalRecord {
	m := make(map[Column]string, len(RecordColumns))
	for _, c := range RecordColumns {
		if v, ok := values[c]; ok {
			m[c] = v
		} else {
			m[c] = DefaultValue(c)
		}
	}
	return CanonicalRecord{values: m}
}

// Get 获取列值
func (r CanonicalRecord) Get(c Column) string {
	if v, ok := r.values[c]; ok {
		return v
	}
	return DefaultValue(c)
}

// Entries 按固定列顺序返回
func (r CanonicalRecord) Entries() []RecordEntry {
	entries := make([]RecordEntry, 0, len(RecordColumns))
	for _, c := range RecordColumns {
		entries = append(entries, RecordEntry{Column: c, Value: r.Get(c)})
	}
	return entries
}

// MarshalJSON 序列化为有序数组
func (r CanonicalRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Entries())
}

// CompanyRow 批次中的一行
type CompanyRow struct {
	Index       int    // 数据行下标（不含表头，从0开始）
	CompanyName string // 原始公司名
}
