package service

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"company-enrich-go/internal/model"
	"company-enrich-go/internal/utils"
)

// RecordSink 每家公司处理完后调用一次
type RecordSink func(row int, record model.CanonicalRecord)

// CellWriter 表格写入接口
type CellWriter interface {
	SetCell(row int, column string, value string)
}

// CellSink 把 CellWriter 适配为 RecordSink，按固定列顺序写入
func CellSink(w CellWriter) RecordSink {
	return func(row int, record model.CanonicalRecord) {
		for _, e := range record.Entries() {
			w.SetCell(row, string(e.Column), e.Value)
		}
	}
}

// Batch 一批待处理的公司（通常对应一个sheet）
type Batch struct {
	Name string
	Rows []model.CompanyRow
	Sink RecordSink
}

// BatchStats 批次统计
type BatchStats struct {
	Name      string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

// Engine 补全引擎：名单匹配 + 数据源查询 + 信号计算 + 格式化
type Engine struct {
	orchestrator *Orchestrator
	analyzer     *FundingAnalyzer
	dealLog      utils.ReferenceSet
	workers      int
}

// NewEngine 创建补全引擎，workers <= 1 时批次内严格顺序处理
func NewEngine(orchestrator *Orchestrator, analyzer *FundingAnalyzer, dealLog utils.ReferenceSet, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		orchestrator: orchestrator,
		analyzer:     analyzer,
		dealLog:      dealLog,
		workers:      workers,
	}
}

// Enrich 补全一家公司
func (e *Engine) Enrich(ctx context.Context, companyName string) model.CanonicalRecord {
	return e.EnrichWithProgress(ctx, companyName, nil)
}

// EnrichWithProgress 补全一家公司，并在每个分支结束时回调
func (e *Engine) EnrichWithProgress(ctx context.Context, companyName string, progress ProgressFunc) model.CanonicalRecord {
	inDealLog := utils.MatchesReference(companyName, e.dealLog)
	result := e.orchestrator.Query(ctx, companyName, progress)
	return e.BuildRecord(result, inDealLog)
}

// BuildRecord 合并数据源结果为输出记录
func (e *Engine) BuildRecord(result *model.SourceResult, inDealLog bool) model.CanonicalRecord {
	values := map[model.Column]string{
		model.ColInDealLog: yesNo(inDealLog),
	}

	if result == nil {
		return model.NewCanonicalRecord(values)
	}

	values[model.ColParentCompany] = result.Parent.Name
	values[model.ColParentListed] = result.Parent.Listed
	values[model.ColJointStock] = result.Reform.IsJointStock
	values[model.ColReformDate] = result.Reform.ReformDate

	signals := e.analyzer.Analyze(nil)
	if p := result.Profile; p != nil {
		values[model.ColEstablished] = nullIfEmpty(p.EstablishDate)
		values[model.ColListed] = nullIfEmpty(p.ListingStatus)
		values[model.ColFundingHistory] = FormatFundingHistory(p.Fundings)
		values[model.ColIndustry] = FormatIndustry(p.Industry)
		values[model.ColTrackName] = TrackName(p.Industry)
		values[model.ColDescription] = p.Description
		values[model.ColFounders] = FormatFounders(p.Founders)
		signals = e.analyzer.Analyze(p.Fundings)
	}

	values[model.ColPeerFund] = signals.PeerFunds
	values[model.ColMultiFundingInYear] = signals.MultiFundingInYear
	values[model.ColMultiInvestorRound] = signals.MultiInvestorRound
	values[model.ColMultiPeerFund] = signals.MultiPeerFund

	return model.NewCanonicalRecord(values)
}

func nullIfEmpty(s string) string {
	if s == "" {
		return model.Null
	}
	return s
}

// ProcessBatch 处理一个批次，按行号升序；单家公司出错不影响其余公司
func (e *Engine) ProcessBatch(ctx context.Context, batch Batch) BatchStats {
	start := time.Now()
	log := zap.L().With(zap.String("sheet", batch.Name))

	rows := make([]model.CompanyRow, len(batch.Rows))
	copy(rows, batch.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })

	stats := BatchStats{Name: batch.Name, Total: len(rows)}
	var succeeded, failed, skipped atomic.Int32

	process := func(row model.CompanyRow) {
		if row.CompanyName == "" {
			skipped.Add(1)
			return
		}
		if e.processRow(ctx, batch, row) {
			succeeded.Add(1)
		} else {
			failed.Add(1)
		}
	}

	log.Info("engine: batch started", zap.Int("rows", len(rows)), zap.Int("workers", e.workers))

	if e.workers == 1 {
		for _, row := range rows {
			if ctx.Err() != nil {
				break
			}
			process(row)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for _, row := range rows {
			if ctx.Err() != nil {
				break
			}
			row := row
			g.Go(func() error {
				process(row)
				return nil
			})
		}
		g.Wait()
	}

	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())
	stats.Skipped = int(skipped.Load())
	stats.Elapsed = time.Since(start)

	log.Info("engine: batch finished",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("elapsed", stats.Elapsed))
	return stats
}

// processRow 单家公司的错误边界
func (e *Engine) processRow(ctx context.Context, batch Batch, row model.CompanyRow) (ok bool) {
	log := zap.L().With(zap.String("sheet", batch.Name), zap.Int("row", row.Index), zap.String("company", row.CompanyName))
	defer func() {
		if r := recover(); r != nil {
			log.Error("engine: company failed", zap.Any("panic", r))
			ok = false
		}
	}()

	record := e.Enrich(ctx, row.CompanyName)
	if batch.Sink != nil {
		batch.Sink(row.Index, record)
	}
	log.Info("engine: company done")
	return true
}

// ProcessBatches 多个批次并发处理，返回顺序与输入一致
func (e *Engine) ProcessBatches(ctx context.Context, batches []Batch) []BatchStats {
	stats := make([]BatchStats, len(batches))

	var g errgroup.Group
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			stats[i] = e.ProcessBatch(ctx, batch)
			return nil
		})
	}
	g.Wait()
	return stats
}
