package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"company-enrich-go/internal/model"
)

func TestFundingAnalyzerEmptyHistory(t *testing.T) {
	a := NewFundingAnalyzer([]string{"红杉资本"})

	for _, events := range [][]model.FundingEvent{nil, {}} {
		s := a.Analyze(events)
		assert.Equal(t, "NULL", s.PeerFunds)
		assert.Equal(t, "不是", s.MultiFundingInYear)
		assert.Equal(t, "不是", s.MultiInvestorRound)
		assert.Equal(t, "不是", s.MultiPeerFund)
	}
}

func TestPeerFundIntersection(t *testing.T) {
	a := NewFundingAnalyzer([]string{"红杉资本", "高瓴资本", "IDG资本"})
	events := []model.FundingEvent{
		{Date: "2021/05/01", Investors: "高瓴资本，某天使"},
		{Date: "2020/01/01", Investors: "红杉资本，高瓴资本"},
	}

	assert.Equal(t, "红杉资本，高瓴资本", a.PeerFundIntersection(events))
	assert.True(t, a.MultiplePeerFunds(events))
	assert.False(t, a.MultiplePeerFunds(events[:1]))
	assert.Equal(t, "NULL", a.PeerFundIntersection([]model.FundingEvent{{Investors: "未披露"}}))
}

func TestMultipleFundingsInYear(t *testing.T) {
	three := []model.FundingEvent{{Date: "2021/01/01"}, {Date: "2021/06/01"}, {Date: "2021/12/01"}}
	assert.True(t, MultipleFundingsInYear(three))

	two := []model.FundingEvent{{Date: "2021/01/01"}, {Date: "2021/06/01"}, {Date: "2020/12/01"}}
	assert.False(t, MultipleFundingsInYear(two))

	assert.False(t, MultipleFundingsInYear([]model.FundingEvent{{}, {}, {}}))
}

func TestMultipleInvestorsInRound(t *testing.T) {
	assert.True(t, MultipleInvestorsInRound([]model.FundingEvent{{Investors: "A，B，C，D"}}))
	assert.False(t, MultipleInvestorsInRound([]model.FundingEvent{{Investors: "A，B，C"}}))
	assert.False(t, MultipleInvestorsInRound([]model.FundingEvent{{Investors: "A，，B，C， "}}))
}
