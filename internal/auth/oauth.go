// Package auth glues the desktop app to the backend's OAuth flow: it issues
// single-use correlation tokens, opens the provider sign-in page, completes
// the flow from the sunless:// callback and keeps the resulting session.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"sunless-desktop/internal/ipc"
)

// ProviderGoogle is the only identity provider the backend offers.
const ProviderGoogle = "google"

const requestTimeout = 15 * time.Second

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]{10,256}$`)

// BrowserOpener opens a URL in the user's default browser.
type BrowserOpener interface {
	OpenURL(url string) error
}

// WindowShower brings the main window to the front.
type WindowShower interface {
	Show()
}

// Result is returned to the UI for auth requests.
type Result struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Options configures a Service.
type Options struct {
	BackendURL string
	ClientID   string
	States     *StateStore
	Browser    BrowserOpener
	Window     WindowShower
	Sessions   SessionStore
	Events     ipc.Publisher
	HTTPClient *http.Client
	Log        logrus.FieldLogger
}

// Service handles sign-in, sign-out and the protocol callback
type Service struct {
	backendURL string
	oauth      *oauth2.Config
	states     *StateStore
	browser    BrowserOpener
	window     WindowShower
	sessions   SessionStore
	events     ipc.Publisher
	httpClient *http.Client
	log        logrus.FieldLogger
	now        func() time.Time
}

// New creates a new auth service
func New(opts Options) *Service {
	backend := strings.TrimRight(opts.BackendURL, "/")
	if opts.States == nil {
		opts.States = NewStateStore()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	return &Service{
		backendURL: backend,
		oauth: &oauth2.Config{
			ClientID: opts.ClientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:  backend + "/auth/start",
				TokenURL: backend + "/auth/complete",
			},
		},
		states:     opts.States,
		browser:    opts.Browser,
		window:     opts.Window,
		sessions:   opts.Sessions,
		events:     opts.Events,
		httpClient: opts.HTTPClient,
		log:        opts.Log,
		now:        time.Now,
	}
}

// States exposes the correlation-token store so its sweeper can be run.
func (s *Service) States() *StateStore {
	return s.states
}

// AuthURL builds the backend sign-in URL for provider carrying state.
func (s *Service) AuthURL(provider, state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("provider", provider),
		oauth2.SetAuthURLParam("platform", "desktop"),
	)
}

// StartOAuth issues a correlation token and opens the provider sign-in page.
// Completion arrives later through HandleProtocolURL.
func (s *Service) StartOAuth(ctx context.Context, provider string) Result {
	if provider == "" {
		provider = ProviderGoogle
	}
	if provider != ProviderGoogle {
		return Result{Error: fmt.Sprintf("Unsupported provider: %s", provider)}
	}

	state, err := s.states.Issue()
	if err != nil {
		s.log.WithError(err).Error("Failed to generate OAuth state")
		return Result{Error: err.Error()}
	}

	if err := s.browser.OpenURL(s.AuthURL(provider, state)); err != nil {
		s.log.WithField("provider", provider).WithError(err).Error("OAuth error")
		return Result{Error: err.Error()}
	}

	pending, _ := json.Marshal(map[string]string{"status": "pending"})
	return Result{Success: true, Token: string(pending)}
}

// complete finishes a sign-in from the callback query parameters and reports
// the outcome on auth-session-updated.
func (s *Service) complete(ctx context.Context, code, state string) {
	if s.window != nil {
		s.window.Show()
	}

	token, err := s.redeem(ctx, code, state)
	if err != nil {
		s.log.WithError(err).Warn("Authentication failed")
		s.publish(false, "", err.Error())
		return
	}

	if s.sessions != nil {
		if err := s.sessions.Save(token); err != nil {
			s.log.WithError(err).Warn("Failed to store session token")
		}
	}
	s.log.Info("Authentication completed")
	s.publish(true, token, "")
}

func (s *Service) redeem(ctx context.Context, code, state string) (string, error) {
	if !s.states.Validate(state) {
		return "", ErrInvalidState
	}
	if code == "" {
		return "", ErrMissingCode
	}
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	return s.exchange(ctx, code)
}

type completeResponse struct {
	Status        string          `json:"status"`
	User          json.RawMessage `json:"user"`
	FirebaseToken string          `json:"firebaseToken"`
	Error         string          `json:"error"`
}

// exchange trades the provider code for a session token at the backend.
func (s *Service) exchange(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.backendURL+"/auth/complete", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("Authentication failed (%d): %s", resp.StatusCode, string(data))
	}

	var result completeResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse authentication response: %w", err)
	}

	if result.Status != "success" || !hasUser(result.User) {
		if result.Error != "" {
			return "", errors.New(result.Error)
		}
		return "", ErrIncomplete
	}
	if result.FirebaseToken == "" {
		return "", ErrNoToken
	}
	return result.FirebaseToken, nil
}

func hasUser(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && !bytes.Equal(trimmed, []byte("false"))
}

func (s *Service) publish(success bool, token, errMsg string) {
	if s.events == nil {
		return
	}
	update := ipc.AuthSessionUpdate{
		Success:   success,
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if success {
		update.FirebaseToken = token
	} else {
		update.Error = errMsg
	}
	s.events.Publish(ipc.EventAuthSessionUpdated, update)
}

// Logout forgets the local session.
func (s *Service) Logout(ctx context.Context) Result {
	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			s.log.WithError(err).Warn("Failed to clear session token")
		}
	}
	return Result{Success: true}
}

// LogoutEverywhere revokes every session of the user at the backend. When
// idToken is empty the stored session token is used.
func (s *Service) LogoutEverywhere(ctx context.Context, idToken string) Result {
	if idToken == "" && s.sessions != nil {
		stored, err := s.sessions.Load()
		if err != nil {
			return Result{Error: err.Error()}
		}
		idToken = stored
	}
	if idToken == "" {
		return Result{Error: "No session token available"}
	}

	if err := s.revoke(ctx, idToken); err != nil {
		s.log.WithError(err).Warn("Logout everywhere failed")
		return Result{Error: err.Error()}
	}

	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			s.log.WithError(err).Warn("Failed to clear session token")
		}
	}
	return Result{Success: true}
}

func (s *Service) revoke(ctx context.Context, idToken string) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: idToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.backendURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Backend logout failed: %d %s", resp.StatusCode, string(text))
	}
	return nil
}
