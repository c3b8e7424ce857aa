// Package client talks to the taskpulse API and keeps the signed-in session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/taskpulse/apiserver/types"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Picture is an optional profile picture sent at signup.
type Picture struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AuthResponse is the body returned by register and login.
type AuthResponse struct {
	Message     string         `json:"message"`
	Token       string         `json:"token"`
	TokenExpiry int64          `json:"tokenExpiry,omitempty"`
	User        types.Identity `json:"user"`
}

// APIClient is a thin HTTP client for the taskpulse API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Register posts a multipart signup form.
func (c *APIClient) Register(ctx context.Context, username, password string, picture *Picture) (AuthResponse, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("username", username); err != nil {
		return AuthResponse{}, err
	}
	if err := w.WriteField("password", password); err != nil {
		return AuthResponse{}, err
	}
	if picture != nil && len(picture.Data) > 0 {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profilePicture"; filename=%q`, picture.Filename))
		if picture.ContentType != "" {
			h.Set("Content-Type", picture.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return AuthResponse{}, err
		}
		if _, err := part.Write(picture.Data); err != nil {
			return AuthResponse{}, err
		}
	}
	if err := w.Close(); err != nil {
		return AuthResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", body)
	if err != nil {
		return AuthResponse{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out AuthResponse
	if err := c.doJSON(req, http.StatusCreated, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Login posts JSON credentials.
func (c *APIClient) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	req, err := c.NewRequest(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return AuthResponse{}, err
	}

	var out AuthResponse
	if err := c.doJSON(req, http.StatusOK, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Logout asks the server to revoke token.
func (c *APIClient) Logout(ctx context.Context, token string) error {
	req, err := c.NewRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// NewRequest builds a request against the API. A non-nil body is sent as JSON.
func (c *APIClient) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Send performs req without touching its headers.
func (c *APIClient) Send(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *APIClient) doJSON(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
