package fetcher

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"company-enrich-go/internal/model"
)

// DefaultXiniuBaseURL 烯牛开放平台地址
const DefaultXiniuBaseURL = "https://api.xiniudata.com/openapi/v2"

// founderTitles 职位包含这些关键词视为创始人
var founderTitles = []string{"ceo", "创始人", "总裁"}

// XiniuClient 公司档案数据源客户端，所有请求都需要签名
type XiniuClient struct {
	accessKeyID     string
	accessKeySecret string
	baseURL         string
	httpClient      *http.Client
	now             func() time.Time
}

// NewXiniuClient 创建烯牛客户端
func NewXiniuClient(accessKeyID, accessKeySecret, baseURL string, timeout time.Duration) *XiniuClient {
	if baseURL == "" {
		baseURL = DefaultXiniuBaseURL
	}
	return &XiniuClient{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// xiniuEnvelope 通用响应头
type xiniuEnvelope struct {
	Code        int    `json:"code"`
	CodeMessage string `json:"codeMessage"`
}

// Sign 计算请求签名：顶层字段 key+value 与 payload 字段 key+value 排序拼接，末尾加 secret 后取 SHA1
func Sign(fields map[string]string, payload map[string]any, secret string) string {
	parts := make([]string, 0, len(fields)+len(payload))
	for k, v := range fields {
		parts = append(parts, k+v)
	}
	for k, v := range payload {
		parts = append(parts, k+signValue(v))
	}
	sort.Strings(parts)

	sum := sha1.Sum([]byte(strings.Join(parts, "") + secret))
	return hex.EncodeToString(sum[:])
}

func signValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}

// post 签名并发送请求，code != 0 视为失败
func (c *XiniuClient) post(ctx context.Context, path string, payload map[string]any, out any) error {
	fields := map[string]string{
		"version":          "v1",
		"accesskeyid":      c.accessKeyID,
		"clientUserId":     "",
		"signatureversion": "v1",
		"timestamp":        strconv.FormatInt(c.now().Unix(), 10),
	}

	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["payload"] = payload
	body["signature"] = Sign(fields, payload, c.accessKeySecret)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "xiniu: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return eris.Wrap(err, "xiniu: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "xiniu: request %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return eris.Errorf("xiniu: %s returned status %d: %s", path, resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrapf(err, "xiniu: read %s", path)
	}

	var env xiniuEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return eris.Wrapf(err, "xiniu: decode %s", path)
	}
	if env.Code != 0 {
		return eris.Errorf("xiniu: %s returned code %d: %s", path, env.Code, env.CodeMessage)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "xiniu: decode %s", path)
	}
	return nil
}

func companyPayload(companyID string) (map[string]any, error) {
	id, err := strconv.ParseInt(companyID, 10, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "xiniu: invalid company id %q", companyID)
	}
	return map[string]any{"companyId": id}, nil
}

// ResolveCompanyID 按全称查询公司ID，查不到返回 ErrNotFound
func (c *XiniuClient) ResolveCompanyID(ctx context.Context, fullName string) (string, error) {
	var resp struct {
		IDList []FlexString `json:"idList"`
	}
	if err := c.post(ctx, "/company/id/list_by_fullname", map[string]any{"fullName": fullName}, &resp); err != nil {
		return "", err
	}
	if len(resp.IDList) == 0 || resp.IDList[0] == "" {
		return "", eris.Wrapf(ErrNotFound, "xiniu: %s", fullName)
	}
	return string(resp.IDList[0]), nil
}

// FetchCompany 获取公司基本信息
func (c *XiniuClient) FetchCompany(ctx context.Context, companyID string) (*CompanyInfo, error) {
	payload, err := companyPayload(companyID)
	if err != nil {
		return nil, err
	}

	var resp struct {
		CompanyVO *struct {
			EstablishDate FlexString `json:"establishDate"`
			Round         FlexString `json:"round"`
			Brief         FlexString `json:"brief"`
			Description   FlexString `json:"description"`
		} `json:"companyVO"`
	}
	if err := c.post(ctx, "/company/get_2", payload, &resp); err != nil {
		return nil, err
	}
	if resp.CompanyVO == nil {
		return nil, eris.Errorf("xiniu: company %s has no companyVO", companyID)
	}

	vo := resp.CompanyVO
	return &CompanyInfo{
		EstablishDate: strings.TrimSpace(string(vo.EstablishDate)),
		Round:         strings.TrimSpace(string(vo.Round)),
		Brief:         PlainText(string(vo.Brief)),
		Description:   PlainText(string(vo.Description)),
	}, nil
}

// FetchFundings 获取有效融资记录，按日期倒序
func (c *XiniuClient) FetchFundings(ctx context.Context, companyID string) ([]model.FundingEvent, error) {
	payload, err := companyPayload(companyID)
	if err != nil {
		return nil, err
	}

	var resp struct {
		List []struct {
			FundingDate FlexString `json:"fundingDate"`
			Round       FlexString `json:"round"`
			Investment  FlexString `json:"investment"`
			Currency    FlexString `json:"currency"`
			Investors   FlexList   `json:"investors"`
			NewsTitle   FlexString `json:"newsTitle"`
			Active      FlexString `json:"active"`
		} `json:"list"`
	}
	if err := c.post(ctx, "/company/funding/list_all_2", payload, &resp); err != nil {
		return nil, err
	}

	events := make([]model.FundingEvent, 0, len(resp.List))
	for _, f := range resp.List {
		if f.Active != "Y" {
			continue
		}
		amount := formatAmount(json.Number(f.Investment), string(f.Currency))
		if amount == "" {
			amount = model.UndisclosedAmount
		}
		investors := strings.Join(f.Investors, "，")
		if investors == "" {
			investors = model.Undisclosed
		}
		events = append(events, model.FundingEvent{
			Date:      string(f.FundingDate),
			Round:     string(f.Round),
			Amount:    amount,
			Investors: investors,
			NewsTitle: string(f.NewsTitle),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})
	return events, nil
}

// FetchIndustry 获取主要行业和有序标签，任一接口成功即返回
func (c *XiniuClient) FetchIndustry(ctx context.Context, companyID string) (*IndustryTags, error) {
	payload, err := companyPayload(companyID)
	if err != nil {
		return nil, err
	}

	var primary struct {
		Data struct {
			PrimaryTag1 FlexString `json:"primary_tag1"`
			PrimaryTag2 FlexString `json:"primary_tag2"`
			OtherTags   FlexList   `json:"other_tags"`
		} `json:"data"`
	}
	primaryErr := c.post(ctx, "/company/tag/list_primary_tag", payload, &primary)

	var ordered struct {
		List []struct {
			Name FlexString `json:"name"`
			ID   FlexString `json:"id"`
		} `json:"list"`
	}
	orderedErr := c.post(ctx, "/company/tag/list_ordered", payload, &ordered)

	if primaryErr != nil && orderedErr != nil {
		return nil, primaryErr
	}

	result := &IndustryTags{}
	if primaryErr == nil {
		result.Primary = &model.PrimaryIndustry{
			Level1:    string(primary.Data.PrimaryTag1),
			Level2:    string(primary.Data.PrimaryTag2),
			OtherTags: strings.Join(primary.Data.OtherTags, "，"),
		}
	}
	if orderedErr == nil {
		for _, tag := range ordered.List {
			result.Tags = append(result.Tags, model.IndustryTag{Name: string(tag.Name), ID: string(tag.ID)})
		}
	}
	return result, nil
}

// FetchFounders 获取成员列表并筛选创始人
func (c *XiniuClient) FetchFounders(ctx context.Context, companyID string) ([]model.Founder, error) {
	payload, err := companyPayload(companyID)
	if err != nil {
		return nil, err
	}

	var resp struct {
		List []struct {
			Name        FlexString `json:"name"`
			Position    FlexString `json:"position"`
			Description FlexString `json:"description"`
		} `json:"list"`
	}
	if err := c.post(ctx, "/company/list_member", payload, &resp); err != nil {
		return nil, err
	}

	var founders []model.Founder
	for _, m := range resp.List {
		if !isFounderTitle(string(m.Position)) {
			continue
		}
		founders = append(founders, model.Founder{
			Name:  string(m.Name),
			Title: string(m.Position),
			Bio:   PlainText(string(m.Description)),
		})
	}
	return founders, nil
}

func isFounderTitle(position string) bool {
	if position == "" {
		return false
	}
	lower := strings.ToLower(position)
	for _, t := range founderTitles {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
