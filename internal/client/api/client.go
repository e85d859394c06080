// Package api is the thin HTTP client used by the CLI to talk to the Tether
// backend. It speaks the server's JSON contract and maps HTTP failure codes
// onto the shared sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tetherhq/tether/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type syncRequest struct {
	LocalData json.RawMessage `json:"local_data"`
}

type syncResponse struct {
	ServerData json.RawMessage `json:"server_data"`
}

// Signup creates a new account. A duplicate email yields
// common.ErrorAlreadyExists; rejected input yields common.ErrorValidation.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, "/signup", credentialsRequest{Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusBadRequest:
		return common.ErrorValidation
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

// Login exchanges credentials for a session token. Bad credentials yield
// common.ErrorUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.postJSON(ctx, "/login", credentialsRequest{Email: email, Password: password}, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("decoding response: %w", err)
		}
		return out.Token, nil
	case http.StatusUnauthorized:
		return "", common.ErrorUnauthorized
	default:
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

// Sync submits the local data blob and returns the state the server accepted.
// Any 401 — missing, expired, or otherwise rejected token — yields
// common.ErrInvalidToken so the caller re-authenticates instead of retrying.
func (c *Client) Sync(ctx context.Context, token string, localData json.RawMessage) (json.RawMessage, error) {
	resp, err := c.postJSON(ctx, "/sync", syncRequest{LocalData: localData}, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out syncResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return out.ServerData, nil
	case http.StatusUnauthorized:
		return nil, common.ErrInvalidToken
	case http.StatusBadRequest:
		return nil, common.ErrorValidation
	default:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

// Ping probes server reachability.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, token string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}
