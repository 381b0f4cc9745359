package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/brandmonitor/brandmonitor/internal/auth"
	"github.com/brandmonitor/brandmonitor/internal/models"
	"github.com/brandmonitor/brandmonitor/internal/store"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory store.Store with error injection for tests.
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]*models.User // keyed by email
	mentions    map[string]models.Mention
	competitors []models.Competitor
	reports     []models.Report
	monitoring  map[string]*models.MonitoringItems

	upsertErr   error
	upsertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]*models.User),
		mentions:   make(map[string]models.Mention),
		monitoring: make(map[string]*models.MonitoringItems),
	}
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	user.CreatedAt = time.Now()
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpsertMention(ctx context.Context, mention *models.Mention) (*models.Mention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.mentions[mention.ID+"|"+mention.UserID] = *mention
	saved := *mention
	return &saved, nil
}

func (f *fakeStore) CreateMention(ctx context.Context, mention *models.Mention) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mentions[mention.ID+"|"+mention.UserID] = *mention
	return nil
}

func (f *fakeStore) ListMentions(ctx context.Context, userID string) ([]models.Mention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Mention
	for _, m := range f.mentions {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteMentions(ctx context.Context, userID string, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		key := id + "|" + userID
		if _, ok := f.mentions[key]; ok {
			delete(f.mentions, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) CreateCompetitor(ctx context.Context, competitor *models.Competitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	competitor.ID = fmt.Sprintf("competitor-%d", len(f.competitors)+1)
	f.competitors = append(f.competitors, *competitor)
	return nil
}

func (f *fakeStore) ListCompetitors(ctx context.Context, userID string) ([]models.Competitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Competitor
	for _, c := range f.competitors {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateReport(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	report.ID = fmt.Sprintf("report-%d", len(f.reports)+1)
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeStore) ListReports(ctx context.Context, userID string) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Report
	for _, r := range f.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertMonitoringItems(ctx context.Context, items *models.MonitoringItems) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitoring[items.UserID] = items
	return nil
}

func (f *fakeStore) GetMonitoringItems(ctx context.Context, userID string) (*models.MonitoringItems, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if items, ok := f.monitoring[userID]; ok {
		return items, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListAllMonitoringItems(ctx context.Context) ([]models.MonitoringItems, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MonitoringItems
	for _, items := range f.monitoring {
		out = append(out, *items)
	}
	return out, nil
}

// fakeSearcher is a scriptable PlatformSearcher: per platform it can return
// mentions, fail, or panic.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   int
	results map[models.Platform][]models.Mention
	errs    map[models.Platform]error
	panics  map[models.Platform]bool
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[models.Platform][]models.Mention),
		errs:    make(map[models.Platform]error),
		panics:  make(map[models.Platform]bool),
	}
}

func (f *fakeSearcher) SearchPlatform(ctx context.Context, keyword string, platform models.Platform, timeRange string) ([]models.Mention, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.panics[platform] {
		panic("searcher blew up")
	}
	if err := f.errs[platform]; err != nil {
		return nil, err
	}
	return f.results[platform], nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeArchiver is an in-memory archive.Archiver that records the listing
// prefix it was asked for.
type fakeArchiver struct {
	names      []string
	listErr    error
	lastPrefix string
}

func (f *fakeArchiver) StoreDigest(ctx context.Context, digest *models.Digest) error {
	return nil
}

func (f *fakeArchiver) ListDigests(ctx context.Context, prefix string) ([]string, error) {
	f.lastPrefix = prefix
	return f.names, f.listErr
}

const (
	testEmail    = "user@example.com"
	testPassword = "password123"
)

// newTestServer builds a server over the fakes with one registered user.
func newTestServer(t *testing.T) (*Server, *fakeStore, *fakeSearcher) {
	t.Helper()

	st := newFakeStore()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, st.CreateUser(context.Background(), &models.User{
		Name:         "Test User",
		Email:        testEmail,
		PasswordHash: hash,
	}))

	searcher := newFakeSearcher()
	server := NewServer(st, searcher, auth.NewManager("test-secret", time.Hour), nil)
	return server, st, searcher
}

// authCookie signs a session token for the seeded test user.
func authCookie(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	token, err := s.auth.Sign(testEmail)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}
