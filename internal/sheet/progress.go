package sheet

import (
	"strings"

	"company-enrich-go/internal/model"
)

// ProgressReport 某个sheet的补全进度
type ProgressReport struct {
	Sheet         string
	TotalRows     int
	LastProcessed int // 最后一个已填写生成列的数据行，-1 表示都未处理
	Pending       []model.CompanyRow
}

// CheckProgress 找出最后一个已处理的行，以及其后仍有公司名的行
func CheckProgress(s *Sheet, companyColumn string) ProgressReport {
	report := ProgressReport{Sheet: s.Name, TotalRows: s.RowCount(), LastProcessed: -1}

	var generated []string
	for _, h := range s.Header() {
		if model.IsRecordColumn(strings.TrimSpace(h)) {
			generated = append(generated, strings.TrimSpace(h))
		}
	}

	for row := report.TotalRows - 1; row >= 0 && len(generated) > 0; row-- {
		if rowHasAny(s, row, generated) {
			report.LastProcessed = row
			break
		}
	}

	for _, r := range s.CompanyRows(companyColumn, Range{Start: report.LastProcessed + 1}) {
		if r.CompanyName != "" {
			report.Pending = append(report.Pending, r)
		}
	}
	return report
}

func rowHasAny(s *Sheet, row int, columns []string) bool {
	for _, c := range columns {
		if strings.TrimSpace(s.Cell(row, c)) != "" {
			return true
		}
	}
	return false
}
