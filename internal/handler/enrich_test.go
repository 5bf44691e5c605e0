package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-enrich-go/internal/model"
	"company-enrich-go/internal/service"
	"company-enrich-go/internal/sse"
)

type stubEnricher struct {
	got chan string
}

func newStubEnricher() *stubEnricher {
	return &stubEnricher{got: make(chan string, 1)}
}

func (s *stubEnricher) EnrichWithProgress(ctx context.Context, name string, progress service.ProgressFunc) model.CanonicalRecord {
	s.got <- name
	for _, b := range model.AllBranches {
		progress(b, nil)
	}
	return model.NewCanonicalRecord(map[model.Column]string{model.ColParentCompany: "腾讯控股"})
}

func TestEnrichSSE(t *testing.T) {
	stub := newStubEnricher()
	srv := httptest.NewServer(NewServeMux(NewEnrichHandler(stub)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/enrich/sse", "application/json", strings.NewReader(`{"query":" 京东方科技 "}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var frames []map[string]any
	require.NoError(t, sse.ReadData(resp.Body, func(data []byte) bool {
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		frames = append(frames, m)
		return true
	}))

	assert.Equal(t, "京东方科技", <-stub.got)
	require.Len(t, frames, 5)
	last := frames[4]
	assert.Equal(t, "completed", last["status"])
	assert.NotEmpty(t, last["request_id"])
	record := last["record"].([]any)
	assert.Equal(t, "腾讯控股", record[2].(map[string]any)["value"])
}

func TestEnrichSSEBadRequests(t *testing.T) {
	srv := httptest.NewServer(NewServeMux(NewEnrichHandler(newStubEnricher())))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/enrich/sse", "application/json", strings.NewReader(`{"query":""}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/enrich/sse", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/enrich/sse")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServeMux(NewEnrichHandler(newStubEnricher())).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
