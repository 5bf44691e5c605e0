package service

import (
	"fmt"
	"strings"

	"company-enrich-go/internal/model"
)

// FormatFundingHistory 每轮一行 "日期, 轮次, 金额, 投资方"，无融资返回"未融资"
func FormatFundingHistory(events []model.FundingEvent) string {
	if len(events) == 0 {
		return model.NotFunded
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("%s, %s, %s, %s", e.Date, e.Round, e.Amount, e.Investors))
	}
	return strings.Join(lines, "\n")
}

// FormatIndustry 行业属性：标量字段 "键: 值"，标签列表 "标签: 名称"
// 主要行业属于第三层结构，不输出
func FormatIndustry(p *model.IndustryProfile) string {
	if p == nil {
		return ""
	}
	var lines []string
	if p.Brief != "" {
		lines = append(lines, "简介: "+p.Brief)
	}
	for _, tag := range p.Tags {
		lines = append(lines, "标签: "+tag.Name)
	}
	return strings.Join(lines, "\n")
}

// TrackName 赛道名称取第一个标签
func TrackName(p *model.IndustryProfile) string {
	if p == nil || len(p.Tags) == 0 {
		return ""
	}
	return p.Tags[0].Name
}

var bracketStripper = strings.NewReplacer("[", "", "]", "", "{", "", "}", "")

// FormatFounders 每位创始人一行
func FormatFounders(founders []model.Founder) string {
	lines := make([]string, 0, len(founders))
	for _, f := range founders {
		lines = append(lines, fmt.Sprintf("姓名: %s, 职位: %s, 简介: %s",
			f.Name, f.Title, strings.TrimSpace(bracketStripper.Replace(f.Bio))))
	}
	return strings.Join(lines, "\n")
}
