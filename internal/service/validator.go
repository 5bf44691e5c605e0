package service

import (
	"regexp"
	"time"

	"go.uber.org/zap"

	"company-enrich-go/internal/model"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func inVocabulary(v string) bool {
	return v == model.Yes || v == model.No || v == model.Null
}

// ValidateParentCompany 校验母公司推断结果，缺键时返回全NULL
func ValidateParentCompany(raw map[string]any) model.ParentCompanyReply {
	rawName, ok1 := raw[model.KeyParentName]
	rawListed, ok2 := raw[model.KeyParentListed]
	if !ok1 || !ok2 {
		zap.L().Warn("validator: parent company reply missing keys", zap.Any("reply", raw))
		return model.DefaultParentCompany()
	}

	reply := model.DefaultParentCompany()
	if name, ok := rawName.(string); ok && name != "" {
		reply.Name = name
	}
	if reply.Name == model.Null {
		return reply
	}

	if listed, ok := rawListed.(string); ok && inVocabulary(listed) {
		reply.Listed = listed
	} else {
		zap.L().Warn("validator: invalid listed value",
			zap.String("field", model.KeyParentListed), zap.Any("value", rawListed))
	}
	return reply
}

// ValidateStockReform 校验股改推断结果，缺键时返回全NULL
func ValidateStockReform(raw map[string]any) model.StockReformReply {
	rawStatus, ok1 := raw[model.KeyJointStock]
	rawDate, ok2 := raw[model.KeyReformDate]
	if !ok1 || !ok2 {
		zap.L().Warn("validator: stock reform reply missing keys", zap.Any("reply", raw))
		return model.DefaultStockReform()
	}

	reply := model.DefaultStockReform()
	if status, ok := rawStatus.(string); ok && inVocabulary(status) {
		reply.IsJointStock = status
	} else {
		zap.L().Warn("validator: invalid joint stock value",
			zap.String("field", model.KeyJointStock), zap.Any("value", rawStatus))
	}

	date, _ := rawDate.(string)
	switch {
	case date == model.Null:
	case isCalendarDate(date):
		reply.ReformDate = date
	default:
		zap.L().Warn("validator: invalid reform date",
			zap.String("field", model.KeyReformDate), zap.Any("value", rawDate))
	}
	return reply
}

// isCalendarDate 严格 YYYY-MM-DD 且为真实日期
func isCalendarDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
