package sheet

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"company-enrich-go/internal/model"
)

// maxColumnWidth 列宽上限
const maxColumnWidth = 50

// DefaultCompanyColumns 公司名列的候选表头，按顺序优先
var DefaultCompanyColumns = []string{"示范企业名称", "企业名称"}

// companyColumnHints 候选都不存在时，表头包含这些词的列视为公司名列
var companyColumnHints = []string{"名称", "name", "企业"}

// Range 数据行范围 [Start, End)，End <= 0 表示到末尾
type Range struct {
	Start int
	End   int
}

// Sheet 内存中的一个工作表，第一行为表头
type Sheet struct {
	Name   string
	mu     sync.Mutex
	header []string
	rows   [][]string
}

// Workbook 内存中的工作簿
type Workbook struct {
	Path   string
	Sheets []*Sheet
}

// Open 读取工作簿的所有sheet
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open %s", path)
	}
	defer f.Close()

	wb := &Workbook{Path: path}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, eris.Wrapf(err, "sheet: read %s", name)
		}
		wb.Sheets = append(wb.Sheets, NewSheet(name, rows))
	}
	return wb, nil
}

// NewSheet 由二维数据构造，rows[0] 为表头
func NewSheet(name string, rows [][]string) *Sheet {
	s := &Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	s.header = append([]string(nil), rows[0]...)
	for _, r := range rows[1:] {
		s.rows = append(s.rows, append([]string(nil), r...))
	}
	return s
}

// Header 表头副本
func (s *Sheet) Header() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.header...)
}

// RowCount 数据行数
func (s *Sheet) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// columnIndex 调用方需持有锁
func (s *Sheet) columnIndex(column string) int {
	for i, h := range s.header {
		if strings.TrimSpace(h) == column {
			return i
		}
	}
	return -1
}

// Cell 读取单元格，越界返回空串
func (s *Sheet) Cell(row int, column string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.columnIndex(column)
	if col < 0 || row < 0 || row >= len(s.rows) || col >= len(s.rows[row]) {
		return ""
	}
	return s.rows[row][col]
}

// SetCell 写入单元格，列不存在时追加到表头末尾
func (s *Sheet) SetCell(row int, column string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.columnIndex(column)
	if col < 0 {
		s.header = append(s.header, column)
		col = len(s.header) - 1
	}
	for len(s.rows) <= row {
		s.rows = append(s.rows, nil)
	}
	for len(s.rows[row]) <= col {
		s.rows[row] = append(s.rows[row], "")
	}
	s.rows[row][col] = value
}

// CompanyColumn 找到公司名所在列
func (s *Sheet) CompanyColumn(candidates []string) (string, bool) {
	header := s.Header()
	for _, c := range candidates {
		for _, h := range header {
			if strings.TrimSpace(h) == c {
				return c, true
			}
		}
	}
	for _, h := range header {
		lower := strings.ToLower(h)
		for _, hint := range companyColumnHints {
			if strings.Contains(lower, hint) {
				return strings.TrimSpace(h), true
			}
		}
	}
	return "", false
}

// CompanyRows 取出范围内的公司行
func (s *Sheet) CompanyRows(column string, rng Range) []model.CompanyRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.columnIndex(column)
	if col < 0 {
		return nil
	}
	start, end := clampRange(rng, len(s.rows))

	rows := make([]model.CompanyRow, 0, end-start)
	for i := start; i < end; i++ {
		name := ""
		if col < len(s.rows[i]) {
			name = strings.TrimSpace(s.rows[i][col])
		}
		rows = append(rows, model.CompanyRow{Index: i, CompanyName: name})
	}
	return rows
}

func clampRange(rng Range, n int) (int, int) {
	start, end := rng.Start, rng.End
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// Save 写出工作簿：自动换行、顶端对齐、细边框，列宽按内容最长行计算
func (wb *Workbook) Save(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return eris.Wrap(err, "sheet: create style")
	}

	for i, s := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return eris.Wrapf(err, "sheet: rename %s", s.Name)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return eris.Wrapf(err, "sheet: create %s", s.Name)
		}
		if err := s.writeTo(f, style); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "sheet: save %s", path)
	}
	return nil
}

func (s *Sheet) writeTo(f *excelize.File, style int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append([][]string{s.header}, s.rows...)
	widths := make([]int, len(s.header))

	for r, row := range all {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return eris.Wrap(err, "sheet: cell name")
			}
			if err := f.SetCellValue(s.Name, cell, value); err != nil {
				return eris.Wrapf(err, "sheet: write %s!%s", s.Name, cell)
			}
			if c >= len(widths) {
				widths = append(widths, make([]int, c-len(widths)+1)...)
			}
			if w := longestLine(value); w > widths[c] {
				widths[c] = w
			}
		}
	}

	if len(widths) == 0 {
		return nil
	}
	lastCell, _ := excelize.CoordinatesToCellName(len(widths), len(all))
	if err := f.SetCellStyle(s.Name, "A1", lastCell, style); err != nil {
		return eris.Wrapf(err, "sheet: style %s", s.Name)
	}
	for c, w := range widths {
		name, _ := excelize.ColumnNumberToName(c + 1)
		width := w + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(s.Name, name, name, float64(width)); err != nil {
			return eris.Wrapf(err, "sheet: width %s", name)
		}
	}
	return nil
}

func longestLine(value string) int {
	longest := 0
	for _, line := range strings.Split(value, "\n") {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	return longest
}
