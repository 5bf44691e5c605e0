package handler

// EnrichRequest 单个公司补全请求
type EnrichRequest struct {
	Query string `json:"query"` // 公司名
}
