package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/config"
	"github.com/keyxmakerx/together/internal/plugins/auth"
	"github.com/keyxmakerx/together/internal/plugins/content"
	"github.com/keyxmakerx/together/internal/plugins/events"
	"github.com/keyxmakerx/together/internal/plugins/messages"
)

// --- In-memory stores ---

type memUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
	seq   int
}

func (m *memUsers) Create(ctx context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return auth.ErrDuplicateEmail
	}
	m.seq++
	user.ID = "u-" + string(rune('0'+m.seq))
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *memUsers) CountActiveMembers(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if !u.IsAdmin && u.Status == auth.StatusActive {
			n++
		}
	}
	return n, nil
}

func (m *memUsers) CountUsers(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memUsers) ListMembers(ctx context.Context, limit int) ([]auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auth.User
	for _, u := range m.users {
		if !u.IsAdmin && len(out) < limit {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type memEvents []events.Event

func (m memEvents) ListByCategory(ctx context.Context, category string, limit int) ([]events.Event, error) {
	var out []events.Event
	for _, e := range m {
		if e.Category == category && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m memEvents) FindByIDs(ctx context.Context, ids []string, limit int) ([]events.Event, error) {
	var out []events.Event
	for _, e := range m {
		for _, id := range ids {
			if e.ID == id && len(out) < limit {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (m memEvents) Count(ctx context.Context) (int64, error) { return int64(len(m)), nil }

type memMessages struct {
	mu   sync.Mutex
	msgs []messages.Message
}

func (m *memMessages) Insert(ctx context.Context, msg *messages.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = "m"
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) Partners(ctx context.Context, email string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	for _, msg := range m.msgs {
		if msg.From == email {
			seen[msg.To] = true
		}
		if msg.To == email {
			seen[msg.From] = true
		}
	}
	out := []string{}
	for addr := range seen {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memMessages) CountUnread(ctx context.Context, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.msgs {
		if msg.To == email && !msg.Read {
			n++
		}
	}
	return n, nil
}

type memContent []content.Item

func (m memContent) List(ctx context.Context, limit int) ([]content.Item, error) {
	if len(m) > limit {
		return m[:limit], nil
	}
	return m, nil
}

func (m memContent) ListByType(ctx context.Context, itemType string, limit int) ([]content.Item, error) {
	var out []content.Item
	for _, it := range m {
		if it.Type == itemType && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

// --- Harness ---

type testServer struct {
	app   *App
	users *memUsers
	ping  error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{users: &memUsers{users: map[string]*auth.User{}}}
	stores := &Stores{
		Users: ts.users,
		Events: memEvents{
			{ID: "e1", Title: "Open Studio", Category: events.CategoryUpcoming},
			{ID: "e2", Title: "Print Workshop", Category: events.CategoryRecommended},
			{ID: "e3", Title: "Winter Fair", Category: events.CategoryPast},
		},
		Messages: &memMessages{},
		Content: memContent{
			{ID: "c1", Title: "Composting 101", Type: content.TypeCourse, Description: "Start a heap."},
			{ID: "c2", Title: "Zine Making", Type: content.TypeVideo},
		},
		Ping:  func(ctx context.Context) error { return ts.ping },
		Close: func(ctx context.Context) error { return nil },
	}

	cfg := &config.Config{
		Env:            "test",
		Port:           8000,
		FrontendOrigin: "http://127.0.0.1:3000",
		StaticDir:      t.TempDir(),
		Database:       config.DatabaseConfig{Driver: config.DriverMongo},
		Auth: config.AuthConfig{
			Secret: "integration-test-secret-0123456789",
			TTL:    30 * time.Minute,
		},
	}

	ts.app = New(cfg, stores)
	ts.app.RegisterRoutes()
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, contentType, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	ts.app.Echo.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signup(t *testing.T, email, password, name string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{"email": email, "password": password, "name": name})
	require.NoError(t, err)
	return ts.do(t, http.MethodPost, "/signup", echo.MIMEApplicationJSON, string(body), "")
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	rec := ts.do(t, http.MethodPost, "/login", echo.MIMEApplicationForm, form.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp auth.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// --- Scenarios ---

func TestSignupLoginMe(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.signup(t, "a@x.io", "pw", "A")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"User created successfully"}`, rec.Body.String())

	rec = ts.signup(t, "a@x.io", "other", "Again")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeError(t, rec).Detail)

	tok := ts.login(t, "a@x.io", "pw")

	rec = ts.do(t, http.MethodGet, "/me", "", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"email":"a@x.io","name":"A","is_admin":false,"status":"Active","registered_events":[]}`,
		rec.Body.String())
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.signup(t, "a@x.io", "pw", "A").Code)

	for _, creds := range [][2]string{{"a@x.io", "wrong"}, {"nobody@x.io", "pw"}} {
		form := url.Values{"username": {creds[0]}, "password": {creds[1]}}
		rec := ts.do(t, http.MethodPost, "/login", echo.MIMEApplicationForm, form.Encode(), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, rec).Detail)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	}
}

func TestAuthenticationFailures(t *testing.T) {
	ts := newTestServer(t)

	ghost, err := ts.app.Tokens.Issue("ghost@x.io")
	require.NoError(t, err)

	tests := []struct {
		name   string
		bearer string
		detail string
	}{
		{name: "missing", bearer: "", detail: "Authorization token missing"},
		{name: "invalid", bearer: "garbage", detail: "Token invalid or expired"},
		{name: "unknown subject", bearer: ghost, detail: "User not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, path := range []string{"/me", "/member/dashboard", "/admin/stats"} {
				rec := ts.do(t, http.MethodGet, path, "", "", tc.bearer)
				assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
				assert.Equal(t, tc.detail, decodeError(t, rec).Detail, path)
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate), path)
			}
		})
	}
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.signup(t, "member@x.io", "pw", "Member").Code)
	require.Equal(t, http.StatusOK, ts.signup(t, "boss@x.io", "pw", "Boss").Code)

	memberTok := ts.login(t, "member@x.io", "pw")
	rec := ts.do(t, http.MethodGet, "/admin/stats", "", "", memberTok)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admins only", decodeError(t, rec).Detail)

	// Promote directly in the store; signup never grants admin by default.
	ts.users.users["boss@x.io"].IsAdmin = true
	bossTok := ts.login(t, "boss@x.io", "pw")

	rec = ts.do(t, http.MethodGet, "/admin/stats", "", "", bossTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active_members":1,"signups_this_month":2,"events_this_month":3}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/admin/members", "", "", bossTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Member","email":"member@x.io","status":"Active"}]`, rec.Body.String())
}

func TestMemberRoutes(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.signup(t, "ada@x.io", "pw", "Ada").Code)
	require.Equal(t, http.StatusOK, ts.signup(t, "bob@x.io", "pw", "Bob").Code)
	ada := ts.login(t, "ada@x.io", "pw")
	bob := ts.login(t, "bob@x.io", "pw")

	rec := ts.do(t, http.MethodPost, "/member/messages", echo.MIMEApplicationJSON,
		`{"to":"bob@x.io","text":"<i>hello</i> Bob"}`, ada)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"msg":"Message sent"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/member/messages", echo.MIMEApplicationJSON,
		`{"to":"bob@x.io","text":"Tom & Jerry: is 3<5? I'm in"}`, ada)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sent := ts.app.Stores.Messages.(*memMessages).msgs
	assert.Equal(t, "Tom & Jerry: is 3<5? I'm in", sent[len(sent)-1].Text)

	rec = ts.do(t, http.MethodGet, "/member/messages", "", "", ada)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"conversations":["bob@x.io"]}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/member/messages", "", "", bob)
	assert.JSONEq(t, `{"conversations":["ada@x.io"]}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/member/dashboard", "", "", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"upcoming_events": ["Open Studio"],
		"recommended_events": ["Print Workshop"],
		"messages": 2,
		"courses": ["Composting 101"]
	}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/member/events", "", "", ada)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"upcoming":["Open Studio"],"registered":[],"past":["Winter Fair"]}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/member/messages", echo.MIMEApplicationJSON, `{"to":"bob@x.io","text":""}`, ada)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/content", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []content.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)

	rec = ts.do(t, http.MethodGet, "/", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Together Culture")
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestLandingFromStaticDir(t *testing.T) {
	ts := newTestServer(t)
	path := filepath.Join(ts.app.Config.StaticDir, "landing.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>custom landing</h1>"), 0o644))

	rec := ts.do(t, http.MethodGet, "/", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>custom landing</h1>", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/static/landing.html", "", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.ping = errors.New("no reachable servers")
	rec = ts.do(t, http.MethodGet, "/healthz", "", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeError(t, rec).Error)
}

func TestErrorHandler_RouterErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/nope", "", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)

	rec = ts.do(t, http.MethodDelete, "/content", "", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", decodeError(t, rec).Error)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set(echo.HeaderOrigin, "http://127.0.0.1:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	ts.app.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://127.0.0.1:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "not_found", errorType(http.StatusNotFound))
	assert.Equal(t, "unprocessable_entity", errorType(http.StatusUnprocessableEntity))
	assert.Equal(t, "error", errorType(599))
}
