package sheet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"company-enrich-go/internal/utils"
)

// LoadReferenceSet 读取参考名单，支持 .json（字符串数组）和 .xlsx（第一个sheet的第一列，跳过表头）
func LoadReferenceSet(path string) (utils.ReferenceSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "refs: read %s", path)
		}
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, eris.Wrapf(err, "refs: decode %s", path)
		}
		return normalizeNames(names), nil
	case ".xlsx", ".xlsm":
		names, err := firstColumn(path)
		if err != nil {
			return nil, err
		}
		return normalizeNames(names), nil
	default:
		return nil, eris.Errorf("refs: unsupported file type %s", path)
	}
}

func firstColumn(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "refs: open %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, eris.Wrapf(err, "refs: read %s", sheets[0])
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		names = append(names, row[0])
	}
	return names, nil
}

// normalizeNames 去空白、NFC规范化、去重、排序
func normalizeNames(names []string) utils.ReferenceSet {
	seen := make(map[string]struct{}, len(names))
	out := make(utils.ReferenceSet, 0, len(names))
	for _, n := range names {
		n = norm.NFC.String(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ConvertReferenceList 把参考名单工作簿转成JSON数组文件
func ConvertReferenceList(src, dst string) (int, error) {
	names, err := LoadReferenceSet(src)
	if err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return 0, eris.Wrap(err, "refs: encode")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, eris.Wrapf(err, "refs: create dir for %s", dst)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return 0, eris.Wrapf(err, "refs: write %s", dst)
	}
	return len(names), nil
}
