package service

import (
	"sort"
	"strings"

	"company-enrich-go/internal/model"
)

const investorSeparator = "，"

// FundingAnalyzer 融资信号计算，peerFunds 为同业基金名单
type FundingAnalyzer struct {
	peerFunds map[string]struct{}
}

// NewFundingAnalyzer 创建融资分析器
func NewFundingAnalyzer(peerFunds []string) *FundingAnalyzer {
	set := make(map[string]struct{}, len(peerFunds))
	for _, f := range peerFunds {
		if f = strings.TrimSpace(f); f != "" {
			set[f] = struct{}{}
		}
	}
	return &FundingAnalyzer{peerFunds: set}
}

// FundingSignals 四个融资信号
type FundingSignals struct {
	PeerFunds          string // 命中的同业基金，"，"连接；无则NULL
	MultiFundingInYear string
	MultiInvestorRound string
	MultiPeerFund      string
}

// Analyze 计算全部信号，空历史返回默认值
func (a *FundingAnalyzer) Analyze(events []model.FundingEvent) FundingSignals {
	return FundingSignals{
		PeerFunds:          a.PeerFundIntersection(events),
		MultiFundingInYear: yesNo(MultipleFundingsInYear(events)),
		MultiInvestorRound: yesNo(MultipleInvestorsInRound(events)),
		MultiPeerFund:      yesNo(a.MultiplePeerFunds(events)),
	}
}

// PeerFundIntersection 投资方与同业基金名单的交集，排序后以"，"连接
func (a *FundingAnalyzer) PeerFundIntersection(events []model.FundingEvent) string {
	hits := a.peerFundHits(events)
	if len(hits) == 0 {
		return model.Null
	}
	return strings.Join(hits, investorSeparator)
}

// MultiplePeerFunds 至少两家同业基金
func (a *FundingAnalyzer) MultiplePeerFunds(events []model.FundingEvent) bool {
	return len(a.peerFundHits(events)) >= 2
}

func (a *FundingAnalyzer) peerFundHits(events []model.FundingEvent) []string {
	seen := make(map[string]struct{})
	for _, e := range events {
		for _, inv := range splitInvestors(e.Investors) {
			if _, ok := a.peerFunds[inv]; ok {
				seen[inv] = struct{}{}
			}
		}
	}
	hits := make([]string, 0, len(seen))
	for h := range seen {
		hits = append(hits, h)
	}
	sort.Strings(hits)
	return hits
}

// MultipleFundingsInYear 某一年融资超过2次（年份取日期中第一个"/"之前的部分）
func MultipleFundingsInYear(events []model.FundingEvent) bool {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		year := strings.SplitN(e.Date, "/", 2)[0]
		counts[year]++
		if counts[year] > 2 {
			return true
		}
	}
	return false
}

// MultipleInvestorsInRound 单轮超过3家投资方
func MultipleInvestorsInRound(events []model.FundingEvent) bool {
	for _, e := range events {
		if len(splitInvestors(e.Investors)) > 3 {
			return true
		}
	}
	return false
}

func splitInvestors(s string) []string {
	var out []string
	for _, inv := range strings.Split(s, investorSeparator) {
		if inv = strings.TrimSpace(inv); inv != "" {
			out = append(out, inv)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return model.Yes
	}
	return model.No
}
