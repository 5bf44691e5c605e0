package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQichachaToken(t *testing.T) {
	c := NewQichachaClient("app", "sec", "", time.Second)
	assert.Equal(t, "E3CC944C43E07A8110A1C59C4A3AA950", c.Token("1700000000"))
}

func TestQichachaGetAllChangesPaginates(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ECIChange/GetList", r.URL.Path)
		assert.Equal(t, "app", r.URL.Query().Get("key"))
		assert.Equal(t, "测试公司", r.URL.Query().Get("searchKey"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "E3CC944C43E07A8110A1C59C4A3AA950", r.Header.Get("Token"))
		assert.Equal(t, "1700000000", r.Header.Get("Timespan"))

		page, _ := strconv.Atoi(r.URL.Query().Get("pageIndex"))
		pages = append(pages, r.URL.Query().Get("pageIndex"))

		resp := ChangePage{Status: "200"}
		resp.Paging.TotalRecords = 23
		resp.Paging.PageIndex = page
		n := 10
		if page == 3 {
			n = 3
		}
		for i := 0; i < n; i++ {
			resp.Result = append(resp.Result, ChangeRecord{ProjectName: "地址变更", ChangeDate: "2020-01-0" + strconv.Itoa(page)})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewQichachaClient("app", "sec", srv.URL, 5*time.Second)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	records, err := c.GetAllChanges(context.Background(), "测试公司")
	require.NoError(t, err)
	assert.Len(t, records, 23)
	assert.Equal(t, []string{"1", "2", "3"}, pages)
}

func TestQichachaStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"201","Message":"查询无结果"}`))
	}))
	defer srv.Close()

	_, err := NewQichachaClient("app", "sec", srv.URL, 5*time.Second).GetAllChanges(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "查询无结果")
}

func TestFindStockReformDate(t *testing.T) {
	changes := []ChangeRecord{
		{ProjectName: "地址变更", ChangeDate: "2015-01-01", AfterList: FlexList{"股份"}},
		{ProjectName: "市场主体类型变更", ChangeDate: "2016-01-01", BeforeList: FlexList{"股份有限公司"}, AfterList: FlexList{"股份有限公司(上市)"}},
		{ProjectName: "市场主体类型变更", ChangeDate: "2018-06-30", BeforeList: FlexList{"有限责任公司"}, AfterList: FlexList{"股份有限公司(非上市)"}},
	}

	date, ok := FindStockReformDate(changes)
	assert.True(t, ok)
	assert.Equal(t, "2018-06-30", date)

	_, ok = FindStockReformDate(changes[:2])
	assert.False(t, ok)
}

func TestChangeRecordDecodesStringLists(t *testing.T) {
	var rec ChangeRecord
	require.NoError(t, json.Unmarshal([]byte(`{"ProjectName":"市场主体类型变更","BeforeList":"有限责任公司","AfterList":["股份有限公司"]}`), &rec))
	assert.Equal(t, FlexList{"有限责任公司"}, rec.BeforeList)
	assert.Equal(t, FlexList{"股份有限公司"}, rec.AfterList)
}
