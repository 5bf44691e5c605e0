package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"company-enrich-go/internal/model"
	"company-enrich-go/internal/service"
	"company-enrich-go/internal/sse"
)

// Enricher 单个公司补全
type Enricher interface {
	EnrichWithProgress(ctx context.Context, companyName string, progress service.ProgressFunc) model.CanonicalRecord
}

// EnrichHandler 公司补全HTTP处理器
type EnrichHandler struct {
	engine Enricher
}

// NewEnrichHandler 创建处理器
func NewEnrichHandler(engine Enricher) *EnrichHandler {
	return &EnrichHandler{engine: engine}
}

// EnrichSSE 处理SSE补全请求
// POST /api/enrich/sse
// Body: {"query": "公司名"}
func (h *EnrichHandler) EnrichSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	defer writer.StopHeartbeat()

	requestID := uuid.NewString()
	log := zap.L().With(zap.String("request_id", requestID), zap.String("company", req.Query))
	log.Info("handler: enrichment started")

	writer.Start(requestID, req.Query)
	record := h.engine.EnrichWithProgress(r.Context(), req.Query, func(branch model.Branch, err error) {
		writer.BranchDone(branch, err)
	})
	if err := writer.Complete(record); err != nil {
		log.Warn("handler: write final record", zap.Error(err))
		return
	}

	log.Info("handler: enrichment completed")
}

// Health 健康检查
func (h *EnrichHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// NewServeMux 注册路由
func NewServeMux(h *EnrichHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/api/enrich/sse", h.EnrichSSE)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
