package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"company-enrich-go/internal/sse"
)

// DefaultMetasoURL 秘塔搜索开放接口
const DefaultMetasoURL = "https://metaso.cn/api/open/search"

// MetasoClient 搜索推断数据源客户端，响应为SSE流
type MetasoClient struct {
	secretKey  string
	url        string
	httpClient *http.Client
}

// NewMetasoClient 创建秘塔客户端
func NewMetasoClient(secretKey, url string, timeout time.Duration) *MetasoClient {
	if url == "" {
		url = DefaultMetasoURL
	}
	return &MetasoClient{
		secretKey: secretKey,
		url:       url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type metasoRequest struct {
	Question string `json:"question"`
	Lang     string `json:"lang"`
}

type metasoEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Ask 提问并拼接所有 append-text 片段
func (m *MetasoClient) Ask(ctx context.Context, question string) (string, error) {
	jsonBody, err := json.Marshal(metasoRequest{Question: question, Lang: "zh"})
	if err != nil {
		return "", eris.Wrap(err, "metaso: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", eris.Wrap(err, "metaso: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("secret-key", m.secretKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "metaso: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", eris.Errorf("metaso: returned status %d: %s", resp.StatusCode, string(body))
	}

	var sb strings.Builder
	err = sse.ReadData(resp.Body, func(data []byte) bool {
		var event metasoEvent
		if err := json.Unmarshal(data, &event); err != nil {
			// 非JSON的事件直接忽略
			return true
		}
		if event.Type == "append-text" {
			sb.WriteString(event.Text)
		}
		return true
	})
	if err != nil {
		return "", eris.Wrap(err, "metaso: stream")
	}

	zap.L().Debug("metaso: answer received", zap.Int("length", sb.Len()))
	return sb.String(), nil
}

// ParentCompanyQuestion 母公司问题
func ParentCompanyQuestion(company string) string {
	return fmt.Sprintf("请严格以JSON格式回答以下问题：1. %s的母公司的名称是什么？如果不确定或没有，请回答NULL。"+
		"2. 该母公司是否上市？如果是，请回答'是'，如果不是，请回答'不是'，如果不确定，请回答NULL。"+
		"请按照以下格式回答：{\"母公司名称\": \"具体名称或NULL\", \"母公司是否上市\": \"是/不是/NULL\"}", company)
}

// StockReformQuestion 股改问题
func StockReformQuestion(company string) string {
	return fmt.Sprintf("请严格以JSON格式回答以下问题：1. %s是否是股份公司？如果是，请回答'是'，如果不是，请回答'不是'，如果不确定，请回答NULL。"+
		"2. 如果是股份公司，其股改的时间是什么时候？请以YYYY-MM-DD格式回答，如果不确定或没有，请回答NULL。"+
		"请按照以下格式回答：{\"是否是股份公司\": \"是/不是/NULL\", \"股改时间\": \"YYYY-MM-DD或NULL\"}", company)
}
