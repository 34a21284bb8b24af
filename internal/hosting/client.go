// Package hosting is the HTTP client for the inkwell hosting service:
// alias reservation, site upload, device linking, and checkout
// sessions.
package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReservationError reports a failed alias reservation. Message carries
// the server's response body verbatim (for example "alias already
// taken") for inline display next to the input field.
type ReservationError struct {
	Status  int
	Message string
}

func (e *ReservationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("alias reservation failed with status %d", e.Status)
}

// Client talks to the hosting service. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a hosting client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// ReserveAlias asks the hosting service to exclusively bind alias to
// this account. A 201 means the alias is now reserved; any other status
// yields a *ReservationError carrying the server's message.
func (c *Client) ReserveAlias(ctx context.Context, alias string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reserve/"+alias, nil)
	if err != nil {
		return fmt.Errorf("failed to build reserve request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("alias reservation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		log.Printf("[INFO] Alias reserved: alias=%s", alias)
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	return &ReservationError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

// Upload posts the fully assembled site archive to /upload/<alias> as a
// bearer-authenticated multipart form. The archive file must be
// complete and closed before this is called - Upload never runs
// concurrently with archive assembly.
//
// The raw HTTP status code is returned uninterpreted; the caller
// decides success by range-checking.
func (c *Client) Upload(ctx context.Context, alias, idToken, archivePath string) (int, error) {
	archive, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(archivePath))
	if err != nil {
		return 0, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, archive); err != nil {
		return 0, fmt.Errorf("failed to read archive: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/"+alias, &body)
	if err != nil {
		return 0, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+idToken)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	log.Printf("[INFO] Upload completed: alias=%s status=%d duration=%s",
		alias, resp.StatusCode, time.Since(started))
	return resp.StatusCode, nil
}

// LinkDevice exchanges a one-time code shown on the tablet for the
// opaque device credential.
func (c *Client) LinkDevice(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return "", fmt.Errorf("failed to marshal link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/device/link", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("device link failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("device link rejected (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("device link returned an empty credential")
	}
	return token, nil
}

// CreateCheckoutSession asks the hosting service for a checkout session
// id. A 201 returns the session id; anything else returns "".
func (c *Client) CreateCheckoutSession(ctx context.Context, idToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stripe_checkout_session", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+idToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return "", nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read checkout session: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}
