package cli

import (
	"go.uber.org/zap"

	"company-enrich-go/config"
	"company-enrich-go/internal/cache"
	"company-enrich-go/internal/fetcher"
	"company-enrich-go/internal/service"
	"company-enrich-go/internal/sheet"
	"company-enrich-go/internal/utils"
)

// sourceFactory 构造数据源，测试中替换为本地桩
var sourceFactory = func(c *config.Config) (fetcher.ProfileSource, fetcher.InferenceSource) {
	profile := fetcher.NewXiniuClient(c.XiniuAccessKeyID, c.XiniuAccessKeySecret, c.XiniuBaseURL, c.CallTimeout.Duration)
	inference := fetcher.NewMetasoClient(c.MetasoSecretKey, c.MetasoURL, c.CallTimeout.Duration)
	return profile, inference
}

// buildEngine 组装补全引擎
func buildEngine(c *config.Config) *service.Engine {
	profile, inference := sourceFactory(c)

	peerFunds := loadReferences(c.PeerFundsPath, "peer funds")
	dealLog := loadReferences(c.DealLogPath, "deal log")

	orchestrator := service.NewOrchestrator(profile, inference, cache.NewMemoryCache(), c.CacheTTL.Duration)
	analyzer := service.NewFundingAnalyzer(peerFunds)
	return service.NewEngine(orchestrator, analyzer, dealLog, c.Workers)
}

// loadReferences 名单缺失时用空名单继续
func loadReferences(path, label string) utils.ReferenceSet {
	if path == "" {
		return nil
	}
	refs, err := sheet.LoadReferenceSet(path)
	if err != nil {
		zap.L().Warn("cli: reference list unavailable, using empty list",
			zap.String("list", label), zap.String("path", path), zap.Error(err))
		return nil
	}
	zap.L().Info("cli: reference list loaded", zap.String("list", label), zap.Int("entries", len(refs)))
	return refs
}
