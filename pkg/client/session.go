package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// Session holds the authenticated user and token for one client instance.
// It is an explicit object rather than package-level state: construct it at
// startup, tear it down at logout.
type Session struct {
	mu      sync.Mutex
	store   CredentialStore
	token   string
	user    *User
	loading bool
}

// NewSession hydrates from the store. Loading is true only for the duration
// of that initial hydration.
func NewSession(store CredentialStore) *Session {
	s := &Session{store: store, loading: true}
	token, user, err := store.Load()
	if err == nil {
		s.token = token
		s.user = user
	}
	s.loading = false
	return s
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsAuthenticated requires both the token and the cached user.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Resync re-reads the store, picking up logins/logouts performed by another
// process sharing the credential file. Last write wins.
func (s *Session) Resync() {
	token, user, err := s.store.Load()
	if err != nil {
		return
	}
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// DashboardPath resolves the current user's landing route.
func (s *Session) DashboardPath() string {
	return DashboardPath(s.User().PrimaryRole())
}

// State is a snapshot for guard evaluation.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := SessionState{
		Loading:         s.loading,
		IsAuthenticated: s.token != "" && s.user != nil,
	}
	if s.user != nil {
		state.Roles = s.user.Roles
	}
	return state
}

// login performs the credential exchange on behalf of Client.Login.
func (s *Session) login(ctx context.Context, httpClient *http.Client, loginURL, email, password string) (*User, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Err: netError(err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Err: netError(err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Err: responseError(resp)}
	}

	var payload struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &AuthError{Err: &APIError{Kind: KindGeneric, Message: "Malformed login response", cause: err}}
	}

	s.mu.Lock()
	s.token = payload.Token
	s.user = payload.User
	s.mu.Unlock()

	// The in-memory session is usable either way, but a failed save means
	// the login will not survive a restart. The caller decides how loudly
	// to warn, so the user is returned alongside the error.
	if err := s.store.Save(payload.Token, payload.User); err != nil {
		return payload.User, &AuthError{Err: &APIError{Kind: KindGeneric, Message: "Signed in, but credentials could not be saved", cause: err}}
	}

	return payload.User, nil
}

// logout clears local state unconditionally. The server call is
// best-effort; its failure is ignored.
func (s *Session) logout(ctx context.Context, httpClient *http.Client, logoutURL string) {
	if req, err := http.NewRequestWithContext(ctx, http.MethodPost, logoutURL, nil); err == nil {
		if resp, err := httpClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	_ = s.store.Clear()
}
