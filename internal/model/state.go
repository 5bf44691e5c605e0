package model

import (
	"encoding/json"
	"sync"
)

// BranchStatus 分支状态
type BranchStatus string

const (
	StatusPending BranchStatus = "pending"
	StatusDone    BranchStatus = "done"
	StatusError   BranchStatus = "error"
)

// BranchState 单个分支的状态
type BranchState struct {
	Status BranchStatus `json:"status"`          // pending/done/error
	Error  string       `json:"error,omitempty"` // 错误信息
}

// BranchMap 并发安全的分支状态map
type BranchMap struct {
	m sync.Map
}

// NewBranchMap 创建BranchMap，所有分支初始为pending
func NewBranchMap() *BranchMap {
	b := &BranchMap{}
	for _, branch := range AllBranches {
		b.Set(branch, &BranchState{Status: StatusPending})
	}
	return b
}

// Set 设置分支状态
func (b *BranchMap) Set(branch Branch, state *BranchState) {
	b.m.Store(branch, state)
}

// Get 获取分支状态
func (b *BranchMap) Get(branch Branch) *BranchState {
	v, ok := b.m.Load(branch)
	if !ok {
		return nil
	}
	return v.(*BranchState)
}

// CountDone 统计已结束的分支数量
func (b *BranchMap) CountDone() int {
	count := 0
	b.m.Range(func(_, v interface{}) bool {
		if state := v.(*BranchState); state.Status == StatusDone || state.Status == StatusError {
			count++
		}
		return true
	})
	return count
}

// MarshalJSON 实现json序列化
func (b *BranchMap) MarshalJSON() ([]byte, error) {
	m := make(map[Branch]*BranchState)
	b.m.Range(func(k, v interface{}) bool {
		m[k.(Branch)] = v.(*BranchState)
		return true
	})
	return json.Marshal(m)
}

// EnrichState 单个公司补全的完整状态 - SSE每次输出这个完整结构
type EnrichState struct {
	Status        string           `json:"status"` // "enriching" | "completed" | "error"
	RequestID     string           `json:"request_id,omitempty"`
	Query         string           `json:"query,omitempty"`
	Overall       int              `json:"overall"`        // 整体进度 0-100
	CurrentAction string           `json:"current_action"` // 当前在做什么
	Branches      *BranchMap       `json:"branches"`
	Record        *CanonicalRecord `json:"record,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// NewEnrichState 创建初始状态
func NewEnrichState() *EnrichState {
	return &EnrichState{
		Status:        "enriching",
		CurrentAction: "Initializing...",
		Branches:      NewBranchMap(),
	}
}
