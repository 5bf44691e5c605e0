package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"company-enrich-go/internal/cache"
	"company-enrich-go/internal/fetcher"
	"company-enrich-go/internal/model"
	"company-enrich-go/internal/utils"
)

// ProgressFunc 分支结束时回调，err 为 nil 表示成功
type ProgressFunc func(branch model.Branch, err error)

// Orchestrator 并发查询三个数据源分支：公司档案、母公司推断、股改推断
type Orchestrator struct {
	profile   fetcher.ProfileSource
	inference fetcher.InferenceSource
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewOrchestrator 创建编排器，cache 可为 nil
func NewOrchestrator(profile fetcher.ProfileSource, inference fetcher.InferenceSource, c cache.Cache, cacheTTL time.Duration) *Orchestrator {
	return &Orchestrator{
		profile:   profile,
		inference: inference,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

// Query 查询一家公司，任一分支失败只影响该分支的字段
func (o *Orchestrator) Query(ctx context.Context, companyName string, progress ProgressFunc) *model.SourceResult {
	if progress == nil {
		progress = func(model.Branch, error) {}
	}
	log := zap.L().With(zap.String("company", companyName))

	if o.cache != nil {
		if cached, err := o.cache.Get(ctx, companyName); err == nil && cached != nil {
			log.Debug("orchestrator: cache hit")
			for _, b := range model.AllBranches {
				progress(b, nil)
			}
			return cached.Result
		}
	}

	result := &model.SourceResult{
		Parent: model.DefaultParentCompany(),
		Reform: model.DefaultStockReform(),
	}
	var mu sync.Mutex
	fail := func(branch model.Branch, err error) {
		log.Warn("orchestrator: branch failed", zap.String("branch", string(branch)), zap.Error(err))
		mu.Lock()
		result.Failed = append(result.Failed, branch)
		mu.Unlock()
	}

	// 分支之间互不取消，错误在分支内部消化
	var g errgroup.Group
	g.Go(func() error {
		profile, err := runBranch(func() (*model.ProfileReply, error) {
			return o.queryProfile(ctx, companyName)
		})
		// 未找到公司不算失败
		if err != nil && !eris.Is(err, fetcher.ErrNotFound) {
			fail(model.BranchProfile, err)
		}
		result.Profile = profile
		progress(model.BranchProfile, err)
		return nil
	})
	g.Go(func() error {
		parent, err := runBranch(func() (model.ParentCompanyReply, error) {
			raw, err := o.ask(ctx, fetcher.ParentCompanyQuestion(companyName))
			if err != nil {
				return model.DefaultParentCompany(), err
			}
			return ValidateParentCompany(raw), nil
		})
		if err != nil {
			fail(model.BranchParentCompany, err)
			parent = model.DefaultParentCompany()
		}
		result.Parent = parent
		progress(model.BranchParentCompany, err)
		return nil
	})
	g.Go(func() error {
		reform, err := runBranch(func() (model.StockReformReply, error) {
			raw, err := o.ask(ctx, fetcher.StockReformQuestion(companyName))
			if err != nil {
				return model.DefaultStockReform(), err
			}
			return ValidateStockReform(raw), nil
		})
		if err != nil {
			fail(model.BranchStockReform, err)
			reform = model.DefaultStockReform()
		}
		result.Reform = reform
		progress(model.BranchStockReform, err)
		return nil
	})
	g.Wait()

	if o.cache != nil && len(result.Failed) == 0 {
		o.cache.Set(ctx, companyName, result, o.cacheTTL)
	}
	return result
}

// runBranch 执行分支并把 panic 转成错误
func runBranch[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			err = eris.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// ask 提问并解析成JSON对象
func (o *Orchestrator) ask(ctx context.Context, question string) (map[string]any, error) {
	answer, err := o.inference.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	raw, err := fetcher.ParseReplyObject(answer)
	if err != nil {
		// 无法解析的回答按全NULL处理，不视为分支失败
		zap.L().Warn("orchestrator: unparseable answer", zap.Error(err), zap.String("answer", truncate(answer, 200)))
		return map[string]any{}, nil
	}
	return raw, nil
}

// queryProfile 依次尝试名称变体查询公司ID，找到后并发获取四个子查询
func (o *Orchestrator) queryProfile(ctx context.Context, companyName string) (*model.ProfileReply, error) {
	companyID, err := o.resolveID(ctx, companyName)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("company", companyName), zap.String("company_id", companyID))
	reply := &model.ProfileReply{CompanyID: companyID}

	var g errgroup.Group
	var info *fetcher.CompanyInfo
	var tags *fetcher.IndustryTags
	g.Go(func() error {
		v, err := runBranch(func() (*fetcher.CompanyInfo, error) { return o.profile.FetchCompany(ctx, companyID) })
		if err != nil {
			log.Warn("orchestrator: fetch company failed", zap.Error(err))
		}
		info = v
		return nil
	})
	g.Go(func() error {
		v, err := runBranch(func() ([]model.FundingEvent, error) { return o.profile.FetchFundings(ctx, companyID) })
		if err != nil {
			log.Warn("orchestrator: fetch fundings failed", zap.Error(err))
		}
		reply.Fundings = v
		return nil
	})
	g.Go(func() error {
		v, err := runBranch(func() (*fetcher.IndustryTags, error) { return o.profile.FetchIndustry(ctx, companyID) })
		if err != nil {
			log.Warn("orchestrator: fetch industry failed", zap.Error(err))
		}
		tags = v
		return nil
	})
	g.Go(func() error {
		v, err := runBranch(func() ([]model.Founder, error) { return o.profile.FetchFounders(ctx, companyID) })
		if err != nil {
			log.Warn("orchestrator: fetch founders failed", zap.Error(err))
		}
		reply.Founders = v
		return nil
	})
	g.Wait()

	if info != nil {
		reply.EstablishDate = info.EstablishDate
		reply.ListingStatus = info.Round
		reply.Description = info.Description
	}
	if info != nil || tags != nil {
		industry := &model.IndustryProfile{}
		if info != nil {
			industry.Brief = info.Brief
		}
		if tags != nil {
			industry.Primary = tags.Primary
			industry.Tags = tags.Tags
		}
		reply.Industry = industry
	}
	return reply, nil
}

// resolveID 最多尝试三个名称变体，第一个成功的为准
func (o *Orchestrator) resolveID(ctx context.Context, companyName string) (string, error) {
	var lastErr error
	for _, variant := range utils.NameVariants(companyName) {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "orchestrator: resolve id")
		}
		id, err := o.profile.ResolveCompanyID(ctx, variant)
		if err == nil && id != "" {
			if variant != companyName {
				zap.L().Info("orchestrator: resolved by name variant",
					zap.String("company", companyName), zap.String("variant", variant))
			}
			return id, nil
		}
		lastErr = err
	}
	if lastErr == nil || eris.Is(lastErr, fetcher.ErrNotFound) {
		return "", eris.Wrapf(fetcher.ErrNotFound, "orchestrator: %s", companyName)
	}
	return "", lastErr
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}
