package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMentions(t *testing.T) {
	s, st, _ := newTestServer(t)

	m := twitterMention("twitter-1")
	m.UserID = "user-1"
	require.NoError(t, st.CreateMention(context.Background(), &m))

	other := twitterMention("twitter-2")
	other.UserID = "user-2"
	require.NoError(t, st.CreateMention(context.Background(), &other))

	req := httptest.NewRequest("GET", "/api/mentions", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Mention `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	// Only the requester's rows come back.
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "twitter-1", resp.Data[0].ID)
}

func TestListMentionsEmpty(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/mentions", nil)
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Empty set serializes as [], not null.
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestCreateMention(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{
		"content": "Manually tracked post",
		"platform": "twitter",
		"author": "Jane Doe (@janedoe)",
		"sentiment": "positive",
		"url": "https://x.com/janedoe/status/42",
		"engagement": {"likes": 10}
	}`
	req := httptest.NewRequest("POST", "/api/mentions", strings.NewReader(body))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Mention `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.ID, "manual-"))
	assert.Equal(t, "user-1", resp.Data.UserID)
	require.NotNil(t, resp.Data.Engagement)
	assert.Equal(t, 10, resp.Data.Engagement.Likes)
}

func TestCreateMentionValidation(t *testing.T) {
	s, _, _ := newTestServer(t)

	tests := []string{
		`{"platform":"twitter","author":"a","sentiment":"neutral"}`,
		`{"content":"c","author":"a","sentiment":"neutral"}`,
		`{"content":"c","platform":"twitter","sentiment":"neutral"}`,
		`{"content":"c","platform":"twitter","author":"a"}`,
	}

	for _, body := range tests {
		req := httptest.NewRequest("POST", "/api/mentions", strings.NewReader(body))
		req.AddCookie(authCookie(t, s))
		rec := doRequest(s, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestDeleteMentions(t *testing.T) {
	s, st, _ := newTestServer(t)

	for _, id := range []string{"twitter-1", "twitter-2", "twitter-3"} {
		m := twitterMention(id)
		m.UserID = "user-1"
		require.NoError(t, st.CreateMention(context.Background(), &m))
	}

	body := `{"ids": ["twitter-1", "twitter-3", "missing"]}`
	req := httptest.NewRequest("DELETE", "/api/mentions", strings.NewReader(body))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Count   int64  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(2), resp.Count)
	assert.Equal(t, "Successfully deleted 2 mentions", resp.Message)

	remaining, err := st.ListMentions(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "twitter-2", remaining[0].ID)
}

func TestDeleteMentionsEmptyIDs(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("DELETE", "/api/mentions", strings.NewReader(`{"ids": []}`))
	req.AddCookie(authCookie(t, s))
	rec := doRequest(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
