// Package auth manages the persisted login session. The interactive
// browser grant happens outside this program; what lives here is the
// session file and the refresh-token exchange that keeps the id token
// current for publishing.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/inkwell-app/inkwell/internal/appdata"
)

// ErrNotAuthenticated reports that no usable session exists. The user
// must log in again before publishing.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the persisted identity: the long-lived refresh token and
// the short-lived id token presented to the hosting service.
type Session struct {
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
}

// Manager owns the session file and the token-endpoint exchange.
type Manager struct {
	paths    *appdata.Paths
	tokenURL string
	http     *http.Client
}

// NewManager creates a session manager refreshing against tokenURL.
func NewManager(paths *appdata.Paths, tokenURL string) *Manager {
	return &Manager{paths: paths, tokenURL: tokenURL, http: &http.Client{}}
}

// SaveSession persists a session atomically. Used by the login command
// once a refresh token has been obtained externally.
func (m *Manager) SaveSession(session Session) error {
	return appdata.SaveJSON(m.paths.Session(), session)
}

// Logout deletes the persisted session. Best-effort, like the other
// artifact deletions.
func (m *Manager) Logout() {
	log.Printf("[INFO] Logging out")
	appdata.Remove(m.paths.Session())
}

// Login returns a session with a freshly refreshed id token.
//
// The persisted session is loaded and its refresh token exchanged at
// the token endpoint; the merged result is saved atomically (the token
// endpoint does not return the refresh token, so the stored one is kept).
// A missing session yields ErrNotAuthenticated without any network
// call. A corrupt session or a rejected refresh deletes the session
// so the user re-authenticates cleanly, mirroring what a failed load
// would have forced anyway.
func (m *Manager) Login(ctx context.Context) (Session, error) {
	var session Session
	if err := appdata.LoadJSON(m.paths.Session(), &session); err != nil {
		if errors.Is(err, appdata.ErrNotFound) {
			return Session{}, ErrNotAuthenticated
		}
		log.Printf("[WARN] Session file unreadable, discarding: error=%v", err)
		m.Logout()
		return Session{}, ErrNotAuthenticated
	}
	if session.RefreshToken == "" {
		m.Logout()
		return Session{}, ErrNotAuthenticated
	}

	idToken, err := m.refresh(ctx, session.RefreshToken)
	if err != nil {
		log.Printf("[ERROR] Token refresh failed: error=%v", err)
		m.Logout()
		return Session{}, fmt.Errorf("token refresh failed: %w", err)
	}

	session.IDToken = idToken
	if err := m.SaveSession(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// refresh exchanges a refresh token for a new id token.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var granted struct {
		IDToken string `json:"id_token"`
	}
	if err := json.Unmarshal(body, &granted); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if granted.IDToken == "" {
		return "", fmt.Errorf("token endpoint returned no id_token")
	}
	return granted.IDToken, nil
}
