package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"company-enrich-go/internal/model"
)

// heartbeatInterval 心跳间隔
var heartbeatInterval = 15 * time.Second

// Writer SSE写入器，每次输出完整的 EnrichState
type Writer struct {
	w         http.ResponseWriter
	flusher   http.Flusher
	mu        sync.Mutex
	state     *model.EnrichState
	stopHeart chan struct{}
	stopOnce  sync.Once
}

// NewWriter 创建SSE写入器并启动心跳
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, eris.New("sse: streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	writer := &Writer{
		w:         w,
		flusher:   flusher,
		state:     model.NewEnrichState(),
		stopHeart: make(chan struct{}),
	}

	// 启动心跳
	go writer.heartbeat()

	return writer, nil
}

// heartbeat 定期发送心跳保持连接
func (s *Writer) heartbeat() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			heartbeat := map[string]interface{}{
				"status":         "heartbeat",
				"overall":        s.state.Overall,
				"current_action": s.state.CurrentAction,
			}
			data, _ := json.Marshal(heartbeat)
			fmt.Fprintf(s.w, "data: %s\n\n", data)
			s.flusher.Flush()
			s.mu.Unlock()
		case <-s.stopHeart:
			return
		}
	}
}

// StopHeartbeat 停止心跳，可重复调用
func (s *Writer) StopHeartbeat() {
	s.stopOnce.Do(func() { close(s.stopHeart) })
}

// send 调用方需持有锁
func (s *Writer) send() error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return eris.Wrap(err, "sse: marshal state")
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return eris.Wrap(err, "sse: write")
	}
	s.flusher.Flush()
	return nil
}

// Start 设置查询和请求ID并立即发送
func (s *Writer) Start(requestID, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RequestID = requestID
	s.state.Query = query
	s.state.CurrentAction = "Querying sources..."
	return s.send()
}

// BranchDone 分支结束，err 非空时标记为错误
func (s *Writer) BranchDone(branch model.Branch, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &model.BranchState{Status: model.StatusDone}
	if err != nil {
		state = &model.BranchState{Status: model.StatusError, Error: err.Error()}
	}
	s.state.Branches.Set(branch, state)
	s.state.CurrentAction = fmt.Sprintf("%s finished", branch)
	s.recalcOverall()
	return s.send()
}

// Complete 发送最终记录
func (s *Writer) Complete(record model.CanonicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Status = "completed"
	s.state.Overall = 100
	s.state.CurrentAction = "Enrichment completed"
	s.state.Record = &record
	return s.send()
}

// SendGlobalError 发送全局错误
func (s *Writer) SendGlobalError(errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Status = "error"
	s.state.CurrentAction = "Enrichment failed"
	s.state.Error = errMsg
	return s.send()
}

// recalcOverall 根据结束的分支数量计算进度（只增不减，留10%给合并）
func (s *Writer) recalcOverall() {
	done := s.state.Branches.CountDone()
	newOverall := done * 90 / len(model.AllBranches)
	if newOverall > s.state.Overall {
		s.state.Overall = newOverall
	}
}
