package fetcher

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FlexString 兼容字符串、数字、null 的JSON字段
type FlexString string

// UnmarshalJSON 实现json反序列化
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

// FlexList 兼容字符串列表或单个字符串
type FlexList []string

// UnmarshalJSON 实现json反序列化
func (l *FlexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []FlexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, string(it))
		}
		*l = out
		return nil
	}
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*l = nil
	} else {
		*l = FlexList{string(s)}
	}
	return nil
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount 金额加千分位，如 10000000 USD -> "10,000,000 USD"
func formatAmount(amount json.Number, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	if i, err := amount.Int64(); err == nil {
		if i == 0 {
			return ""
		}
		return amountPrinter.Sprintf("%d", i) + " " + currency
	}
	f, err := amount.Float64()
	if err != nil || f == 0 {
		return ""
	}
	s := amountPrinter.Sprintf("%.2f", f)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + currency
}
