package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitorsRoundTrip(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{"name":"Competitor One","website":"https://competitor1.com","keywords":["alternative"]}`
	req := httptest.NewRequest("POST", "/api/competitors", strings.NewReader(body))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest("GET", "/api/competitors", nil)
	req.AddCookie(authCookie(t, s))
	rec = doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Competitor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Competitor One", resp.Data[0].Name)
	assert.Equal(t, "user-1", resp.Data[0].UserID)
}

func TestCreateCompetitorRequiresName(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/competitors", strings.NewReader(`{"website":"https://x.com"}`))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsRoundTrip(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{"title":"Weekly Sentiment","type":"sentiment","data":{"positive":65},"period":"weekly"}`
	req := httptest.NewRequest("POST", "/api/reports", strings.NewReader(body))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest("GET", "/api/reports", nil)
	req.AddCookie(authCookie(t, s))
	rec = doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Weekly Sentiment", resp.Data[0].Title)
	assert.JSONEq(t, `{"positive":65}`, string(resp.Data[0].Data))
}

func TestCreateReportValidation(t *testing.T) {
	s, _, _ := newTestServer(t)

	tests := []string{
		`{"type":"sentiment","data":{},"period":"weekly"}`,
		`{"title":"T","data":{"a":1},"period":"weekly"}`,
		`{"title":"T","type":"sentiment","period":"weekly"}`,
		`{"title":"T","type":"sentiment","data":{"a":1}}`,
	}

	for _, body := range tests {
		req := httptest.NewRequest("POST", "/api/reports", strings.NewReader(body))
		req.AddCookie(authCookie(t, s))
		rec := doRequest(s, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestGetSetupWithoutSavedItems(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/setup", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    models.MonitoringItems `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "user-1", resp.Data.UserID)
	assert.Empty(t, resp.Data.Keywords)
}

func TestSaveSetupRoundTrip(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{
		"domains": ["example.com", ""],
		"brandNames": ["Acme"],
		"keywords": ["acme", "acme corp", ""]
	}`
	req := httptest.NewRequest("POST", "/api/setup", strings.NewReader(body))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest("GET", "/api/setup", nil)
	req.AddCookie(authCookie(t, s))
	rec = doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.MonitoringItems `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Blank entries are dropped on save.
	assert.Equal(t, []string{"example.com"}, []string(resp.Data.Domains))
	assert.Equal(t, []string{"Acme"}, []string(resp.Data.BrandNames))
	assert.Equal(t, []string{"acme", "acme corp"}, []string(resp.Data.Keywords))
}

func TestListDigests(t *testing.T) {
	s, _, _ := newTestServer(t)
	archiver := &fakeArchiver{names: []string{
		"digest-user@example.com-2026-08-24-09-00-00.json",
		"digest-user@example.com-2026-08-31-09-00-00.json",
	}}
	s.archive = archiver

	req := httptest.NewRequest("GET", "/api/digests", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Listing is scoped to the caller's own digests.
	assert.Equal(t, "digest-user@example.com-", archiver.lastPrefix)

	var resp struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, archiver.names, resp.Data)
}

func TestListDigestsEmptyArchive(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.archive = &fakeArchiver{}

	req := httptest.NewRequest("GET", "/api/digests", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListDigestsWithoutArchive(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/digests", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Digest archive is not configured", resp["error"])
}

func TestListDigestsArchiveFailure(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.archive = &fakeArchiver{listErr: errors.New("storage unavailable")}

	req := httptest.NewRequest("GET", "/api/digests", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSaveSetupRejectsMissingKeywords(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/setup", strings.NewReader(`{"domains":["example.com"]}`))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid data format", resp["error"])
}
