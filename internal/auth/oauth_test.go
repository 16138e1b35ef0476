package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"sunless-desktop/internal/ipc"
)

type fakeBrowser struct {
	opened []string
	err    error
}

func (b *fakeBrowser) OpenURL(u string) error {
	b.opened = append(b.opened, u)
	return b.err
}

type fakeWindow struct {
	shown int
}

func (w *fakeWindow) Show() { w.shown++ }

type captured struct {
	updates []ipc.AuthSessionUpdate
}

func (c *captured) Publish(channel string, payload any) {
	if channel == ipc.EventAuthSessionUpdated {
		c.updates = append(c.updates, payload.(ipc.AuthSessionUpdate))
	}
}

type memSessions struct {
	token string
}

func (m *memSessions) Save(token string) error {
	m.token = token
	return nil
}

func (m *memSessions) Load() (string, error) { return m.token, nil }

func (m *memSessions) Clear() error {
	m.token = ""
	return nil
}

type harness struct {
	svc      *Service
	browser  *fakeBrowser
	window   *fakeWindow
	events   *captured
	sessions *memSessions
}

func newHarness(t *testing.T, backend http.Handler) *harness {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	h := &harness{
		browser:  &fakeBrowser{},
		window:   &fakeWindow{},
		events:   &captured{},
		sessions: &memSessions{},
	}
	h.svc = New(Options{
		BackendURL: srv.URL + "/",
		ClientID:   "sunless-desktop",
		Browser:    h.browser,
		Window:     h.window,
		Sessions:   h.sessions,
		Events:     h.events,
		HTTPClient: srv.Client(),
	})
	h.svc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 8000000, time.UTC) }
	return h
}

func (h *harness) issue(t *testing.T) string {
	t.Helper()
	state, err := h.svc.States().Issue()
	require.NoError(t, err)
	return state
}

func completeHandler(t *testing.T, status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/complete", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "abcdefghij_KLM-123", payload["code"])

		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestStartOAuth(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())

	res := h.svc.StartOAuth(context.Background(), "")
	require.True(t, res.Success)
	assert.JSONEq(t, `{"status":"pending"}`, res.Token)

	require.Len(t, h.browser.opened, 1)
	u, err := url.Parse(h.browser.opened[0])
	require.NoError(t, err)
	assert.Equal(t, "/auth/start", u.Path)
	q := u.Query()
	assert.Equal(t, "google", q.Get("provider"))
	assert.Equal(t, "desktop", q.Get("platform"))
	assert.Equal(t, "sunless-desktop", q.Get("client_id"))

	assert.True(t, h.svc.States().Validate(q.Get("state")))
}

func TestStartOAuth_Failures(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())

	res := h.svc.StartOAuth(context.Background(), "github")
	assert.False(t, res.Success)
	assert.Equal(t, "Unsupported provider: github", res.Error)

	h.browser.err = errors.New("no browser")
	res = h.svc.StartOAuth(context.Background(), ProviderGoogle)
	assert.False(t, res.Success)
	assert.Equal(t, "no browser", res.Error)
}

func TestHandleProtocolURL_Success(t *testing.T) {
	h := newHarness(t, completeHandler(t, http.StatusOK,
		`{"status":"success","user":{"uid":"u1"},"firebaseToken":"fb-token"}`))
	state := h.issue(t)

	handled := h.svc.HandleProtocolURL(context.Background(),
		"sunless://auth-complete?code=abcdefghij_KLM-123&state="+url.QueryEscape(state))
	require.True(t, handled)

	assert.Equal(t, 1, h.window.shown)
	require.Len(t, h.events.updates, 1)
	assert.Equal(t, ipc.AuthSessionUpdate{
		Success:       true,
		FirebaseToken: "fb-token",
		Timestamp:     "2026-03-04T05:06:07.008Z",
	}, h.events.updates[0])
	assert.Equal(t, "fb-token", h.sessions.token)
}

func TestHandleProtocolURL_PathForm(t *testing.T) {
	h := newHarness(t, completeHandler(t, http.StatusOK,
		`{"status":"success","user":{"uid":"u1"},"firebaseToken":"fb-token"}`))
	state := h.issue(t)

	handled := h.svc.HandleProtocolURL(context.Background(),
		"sunless:///auth-complete/?code=abcdefghij_KLM-123&state="+url.QueryEscape(state))
	require.True(t, handled)
	require.Len(t, h.events.updates, 1)
	assert.True(t, h.events.updates[0].Success)
}

func TestHandleProtocolURL_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		code      string
		badState  bool
		wantError string
	}{
		{name: "unknown state", badState: true, code: "abcdefghij_KLM-123", wantError: ErrInvalidState.Error()},
		{name: "missing code", code: "", wantError: ErrMissingCode.Error()},
		{name: "short code", code: "abc", wantError: ErrInvalidCode.Error()},
		{name: "bad characters", code: "abcdefghij$<script>", wantError: ErrInvalidCode.Error()},
		{
			name: "backend rejects", code: "abcdefghij_KLM-123",
			status: http.StatusUnauthorized, body: "expired code",
			wantError: "Authentication failed (401): expired code",
		},
		{
			name: "backend error field", code: "abcdefghij_KLM-123",
			status: http.StatusOK, body: `{"status":"error","error":"account disabled"}`,
			wantError: "account disabled",
		},
		{
			name: "not completed", code: "abcdefghij_KLM-123",
			status: http.StatusOK, body: `{"status":"pending"}`,
			wantError: ErrIncomplete.Error(),
		},
		{
			name: "no token", code: "abcdefghij_KLM-123",
			status: http.StatusOK, body: `{"status":"success","user":{"uid":"u1"}}`,
			wantError: ErrNoToken.Error(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			state := h.issue(t)
			if tc.badState {
				state = "forged"
			}

			q := url.Values{"state": {state}}
			if tc.code != "" {
				q.Set("code", tc.code)
			}
			require.True(t, h.svc.HandleProtocolURL(context.Background(), "sunless://auth-complete?"+q.Encode()))

			require.Len(t, h.events.updates, 1)
			update := h.events.updates[0]
			assert.False(t, update.Success)
			assert.Equal(t, tc.wantError, update.Error)
			assert.Empty(t, update.FirebaseToken)
			assert.Empty(t, h.sessions.token)
			if tc.status == 0 {
				assert.Zero(t, calls, "backend must not be contacted")
			}
		})
	}
}

func TestHandleProtocolURL_StateIsSingleUse(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	state := h.issue(t)
	raw := "sunless://auth-complete?code=abcdefghij_KLM-123&state=" + url.QueryEscape(state)

	h.svc.HandleProtocolURL(context.Background(), raw)
	h.svc.HandleProtocolURL(context.Background(), raw)

	require.Len(t, h.events.updates, 2)
	assert.Equal(t, "Authentication failed (502): ", h.events.updates[0].Error)
	assert.Equal(t, ErrInvalidState.Error(), h.events.updates[1].Error)
}

func TestHandleProtocolURL_Ignored(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())

	assert.False(t, h.svc.HandleProtocolURL(context.Background(), "https://example.com"))
	assert.False(t, h.svc.HandleProtocolURL(context.Background(), "sunless://settings"))
	assert.Empty(t, h.events.updates)
}

func TestFindProtocolURL(t *testing.T) {
	got, ok := FindProtocolURL([]string{"--flag", "sunless://auth-complete?code=x", "other"})
	require.True(t, ok)
	assert.Equal(t, "sunless://auth-complete?code=x", got)

	_, ok = FindProtocolURL([]string{"--flag"})
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())
	h.sessions.token = "fb-token"

	res := h.svc.Logout(context.Background())
	assert.Equal(t, Result{Success: true}, res)
	assert.Empty(t, h.sessions.token)
}

func TestLogoutEverywhere(t *testing.T) {
	var gotAuth string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	h.sessions.token = "stored"

	res := h.svc.LogoutEverywhere(context.Background(), "id-token")
	assert.Equal(t, Result{Success: true}, res)
	assert.Equal(t, "Bearer id-token", gotAuth)
	assert.Empty(t, h.sessions.token)
}

func TestLogoutEverywhere_UsesStoredToken(t *testing.T) {
	var gotAuth string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	h.sessions.token = "stored"

	res := h.svc.LogoutEverywhere(context.Background(), "")
	assert.True(t, res.Success)
	assert.Equal(t, "Bearer stored", gotAuth)
}

func TestLogoutEverywhere_Failures(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, "revoked")
	}))
	h.sessions.token = "stored"

	res := h.svc.LogoutEverywhere(context.Background(), "id-token")
	assert.False(t, res.Success)
	assert.Equal(t, "Backend logout failed: 403 revoked", res.Error)
	assert.Equal(t, "stored", h.sessions.token)

	h.sessions.token = ""
	res = h.svc.LogoutEverywhere(context.Background(), "")
	assert.Equal(t, "No session token available", res.Error)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	var store KeyringStore

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("fb-token"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fb-token", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
