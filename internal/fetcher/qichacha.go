package fetcher

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultQichachaBaseURL 企查查开放接口
const DefaultQichachaBaseURL = "https://api.qichacha.com"

// qichachaPageSize 接口单页上限
const qichachaPageSize = 10

// ChangeRecord 一条工商变更记录
type ChangeRecord struct {
	ProjectName string   `json:"ProjectName"`
	ChangeDate  string   `json:"ChangeDate"`
	BeforeList  FlexList `json:"BeforeList"`
	AfterList   FlexList `json:"AfterList"`
}

// ChangePage 一页变更记录
type ChangePage struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
	Paging  struct {
		PageSize     int `json:"PageSize"`
		PageIndex    int `json:"PageIndex"`
		TotalRecords int `json:"TotalRecords"`
	} `json:"Paging"`
	Result []ChangeRecord `json:"Result"`
}

// QichachaClient 工商变更记录客户端
type QichachaClient struct {
	appKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewQichachaClient 创建企查查客户端
func NewQichachaClient(appKey, secretKey, baseURL string, timeout time.Duration) *QichachaClient {
	if baseURL == "" {
		baseURL = DefaultQichachaBaseURL
	}
	return &QichachaClient{
		appKey:    appKey,
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// Token 鉴权token: MD5(appKey + timespan + secretKey) 大写
func (q *QichachaClient) Token(timespan string) string {
	sum := md5.Sum([]byte(q.appKey + timespan + q.secretKey))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// GetChanges 获取一页变更记录
func (q *QichachaClient) GetChanges(ctx context.Context, searchKey string, pageIndex int) (*ChangePage, error) {
	params := url.Values{}
	params.Set("key", q.appKey)
	params.Set("searchKey", searchKey)
	params.Set("pageIndex", strconv.Itoa(pageIndex))
	params.Set("pageSize", strconv.Itoa(qichachaPageSize))

	req, err := http.NewRequestWithContext(ctx, "GET", q.baseURL+"/ECIChange/GetList?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "qichacha: build request")
	}
	timespan := strconv.FormatInt(q.now().Unix(), 10)
	req.Header.Set("Token", q.Token(timespan))
	req.Header.Set("Timespan", timespan)

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "qichacha: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, eris.Errorf("qichacha: returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ChangePage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, eris.Wrap(err, "qichacha: decode response")
	}
	if result.Status != "200" {
		return nil, eris.Errorf("qichacha: status %s: %s", result.Status, result.Message)
	}
	return &result, nil
}

// GetAllChanges 翻页获取全部变更记录
func (q *QichachaClient) GetAllChanges(ctx context.Context, searchKey string) ([]ChangeRecord, error) {
	first, err := q.GetChanges(ctx, searchKey, 1)
	if err != nil {
		return nil, err
	}

	records := first.Result
	totalPages := (first.Paging.TotalRecords + qichachaPageSize - 1) / qichachaPageSize
	for page := 2; page <= totalPages; page++ {
		next, err := q.GetChanges(ctx, searchKey, page)
		if err != nil {
			return records, eris.Wrapf(err, "qichacha: page %d", page)
		}
		records = append(records, next.Result...)
	}
	return records, nil
}

// stockReformProject 企业类型变更的事项名称
const stockReformProject = "市场主体类型变更"

// FindStockReformDate 找出从非股份公司变更为股份公司的日期
func FindStockReformDate(changes []ChangeRecord) (string, bool) {
	for _, c := range changes {
		if c.ProjectName != stockReformProject {
			continue
		}
		if !mentionsJointStock(c.BeforeList) && mentionsJointStock(c.AfterList) {
			return c.ChangeDate, true
		}
	}
	return "", false
}

func mentionsJointStock(items []string) bool {
	for _, it := range items {
		if strings.Contains(it, "股份") {
			return true
		}
	}
	return false
}
