package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignKnownVector(t *testing.T) {
	fields := map[string]string{
		"version":          "v1",
		"accesskeyid":      "ak",
		"clientUserId":     "",
		"signatureversion": "v1",
		"timestamp":        "1700000000",
	}
	payload := map[string]any{"companyId": int64(123), "tags": []string{"a", "b"}}

	assert.Equal(t, "9747fcf2a75eee50d67960ccb60b65f7ad32992a", Sign(fields, payload, "sk"))
}

// xiniuStub 模拟烯牛接口，校验签名后按路径返回固定响应
func xiniuStub(t *testing.T, secret string, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		fields := map[string]string{}
		for k, v := range body {
			if k == "payload" || k == "signature" {
				continue
			}
			fields[k] = v.(string)
		}
		payload := body["payload"].(map[string]any)
		// json 数字解码为 float64，签名时按整数处理
		for k, v := range payload {
			if f, ok := v.(float64); ok {
				payload[k] = int64(f)
			}
		}
		assert.Equal(t, Sign(fields, payload, secret), body["signature"], r.URL.Path)

		resp, ok := responses[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resp))
	}))
}

func newTestXiniuClient(url string) *XiniuClient {
	c := NewXiniuClient("ak", "sk", url, 5*time.Second)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestXiniuResolveCompanyID(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/id/list_by_fullname": `{"code":0,"idList":[98765,111]}`,
	})
	defer srv.Close()

	id, err := newTestXiniuClient(srv.URL).ResolveCompanyID(context.Background(), "京东方科技")
	require.NoError(t, err)
	assert.Equal(t, "98765", id)
}

func TestXiniuResolveCompanyIDNotFound(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/id/list_by_fullname": `{"code":0,"idList":[]}`,
	})
	defer srv.Close()

	_, err := newTestXiniuClient(srv.URL).ResolveCompanyID(context.Background(), "不存在的公司")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound) || eris.Is(err, ErrNotFound))
}

func TestXiniuErrorCode(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/get_2": `{"code":1001,"codeMessage":"signature error"}`,
	})
	defer srv.Close()

	_, err := newTestXiniuClient(srv.URL).FetchCompany(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature error")
}

func TestXiniuFetchCompany(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/get_2": `{"code":0,"companyVO":{"establishDate":"2015-06-01","round":"已上市","brief":"AI芯片","description":"<p>第一段</p><p>第二段</p>"}}`,
	})
	defer srv.Close()

	info, err := newTestXiniuClient(srv.URL).FetchCompany(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "2015-06-01", info.EstablishDate)
	assert.Equal(t, "已上市", info.Round)
	assert.Equal(t, "AI芯片", info.Brief)
	assert.Equal(t, "第一段\n第二段", info.Description)
}

func TestXiniuInvalidCompanyID(t *testing.T) {
	_, err := newTestXiniuClient("http://127.0.0.1:0").FetchFundings(context.Background(), "abc")
	require.Error(t, err)
}

func TestXiniuFetchFundings(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/funding/list_all_2": `{"code":0,"list":[
			{"fundingDate":"2019/01/01","round":"天使轮","investment":0,"investors":"某天使","active":"Y"},
			{"fundingDate":"2021/05/01","round":"B轮","investment":10000000,"currency":"CNY","investors":["红杉资本","高瓴资本"],"active":"Y"},
			{"fundingDate":"2022/01/01","round":"C轮","investment":5000000,"active":"N"},
			{"fundingDate":"2020/03/01","round":"A轮","investment":2500000.5,"active":"Y"}
		]}`,
	})
	defer srv.Close()

	events, err := newTestXiniuClient(srv.URL).FetchFundings(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "2021/05/01", events[0].Date)
	assert.Equal(t, "10,000,000 CNY", events[0].Amount)
	assert.Equal(t, "红杉资本，高瓴资本", events[0].Investors)

	assert.Equal(t, "2020/03/01", events[1].Date)
	assert.Equal(t, "2,500,000.5 USD", events[1].Amount)
	assert.Equal(t, "未披露", events[1].Investors)

	assert.Equal(t, "金额未披露", events[2].Amount)
}

func TestXiniuFetchIndustry(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/tag/list_primary_tag": `{"code":0,"data":{"primary_tag1":"硬件","primary_tag2":"芯片","other_tags":["AI","半导体"]}}`,
		"/company/tag/list_ordered":     `{"code":0,"list":[{"name":"人工智能","id":1},{"name":"半导体","id":"2"}]}`,
	})
	defer srv.Close()

	tags, err := newTestXiniuClient(srv.URL).FetchIndustry(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, tags.Primary)
	assert.Equal(t, "硬件", tags.Primary.Level1)
	assert.Equal(t, "AI，半导体", tags.Primary.OtherTags)
	require.Len(t, tags.Tags, 2)
	assert.Equal(t, "人工智能", tags.Tags[0].Name)
	assert.Equal(t, "1", tags.Tags[0].ID)
}

func TestXiniuFetchIndustryPartial(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/tag/list_ordered": `{"code":0,"list":[{"name":"人工智能","id":1}]}`,
	})
	defer srv.Close()

	tags, err := newTestXiniuClient(srv.URL).FetchIndustry(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, tags.Primary)
	assert.Len(t, tags.Tags, 1)
}

func TestXiniuFetchFounders(t *testing.T) {
	srv := xiniuStub(t, "sk", map[string]string{
		"/company/list_member": `{"code":0,"list":[
			{"name":"张三","position":"联合创始人兼CEO","description":"连续创业者"},
			{"name":"李四","position":"CTO","description":"技术负责人"},
			{"name":"王五","position":"总裁","description":""},
			{"name":"赵六","position":"","description":""}
		]}`,
	})
	defer srv.Close()

	founders, err := newTestXiniuClient(srv.URL).FetchFounders(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, founders, 2)
	assert.Equal(t, "张三", founders[0].Name)
	assert.Equal(t, "联合创始人兼CEO", founders[0].Title)
	assert.Equal(t, "王五", founders[1].Name)
}

func TestIsFounderTitle(t *testing.T) {
	assert.True(t, isFounderTitle("Ceo"))
	assert.True(t, isFounderTitle("创始人"))
	assert.False(t, isFounderTitle("COO"))
	assert.False(t, isFounderTitle(""))
}
