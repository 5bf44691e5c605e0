package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"company-enrich-go/internal/model"
)

// CachedResult 缓存的数据源查询结果
type CachedResult struct {
	CompanyName string              `json:"company_name"`
	Result      *model.SourceResult `json:"result"`
	CreatedAt   time.Time           `json:"created_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// Cache 缓存接口，key 为公司名
type Cache interface {
	Get(ctx context.Context, companyName string) (*CachedResult, error)
	Set(ctx context.Context, companyName string, result *model.SourceResult, ttl time.Duration) error
	Delete(ctx context.Context, companyName string) error
}

// MemoryCache 内存缓存实现，只在一次运行内有效（同名公司在多个sheet中重复出现）
type MemoryCache struct {
	data map[string]*CachedResult
	mu   sync.RWMutex
	now  func() time.Time
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*CachedResult),
		now:  time.Now,
	}
}

func cacheKey(companyName string) string {
	return strings.TrimSpace(companyName)
}

// Get 获取缓存，不存在或已过期返回 nil
func (c *MemoryCache) Get(ctx context.Context, companyName string) (*CachedResult, error) {
	key := cacheKey(companyName)

	c.mu.RLock()
	result, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	// 检查是否过期
	if c.now().After(result.ExpiresAt) {
		c.Delete(ctx, key)
		return nil, nil
	}
	return result, nil
}

// Set 设置缓存
func (c *MemoryCache) Set(ctx context.Context, companyName string, result *model.SourceResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.data[cacheKey(companyName)] = &CachedResult{
		CompanyName: companyName,
		Result:      result,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	return nil
}

// Delete 删除缓存
func (c *MemoryCache) Delete(ctx context.Context, companyName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, cacheKey(companyName))
	return nil
}

// Len 当前缓存条目数
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
