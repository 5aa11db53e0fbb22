// Package client gives controllers access to the data: Client talks to the
// REST API, Local calls the services in-process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"study-sync/studysync/models"
	"study-sync/studysync/services"
)

// APIError is a non-2xx response. It unwraps to the matching service error
// so callers can use errors.Is the same way for both backends.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status=%d, message=%s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return services.ErrValidation
	case http.StatusUnauthorized:
		return services.ErrInvalidCredentials
	case http.StatusForbidden:
		return services.ErrAccessDenied
	case http.StatusNotFound:
		return services.ErrNotFound
	case http.StatusConflict:
		return services.ErrResourceExists
	default:
		return nil
	}
}

type errorBody struct {
	Error     string   `json:"error"`
	SpaceID   string   `json:"space_id"`
	Remaining []string `json:"remaining"`
	Failed    []string `json:"failed"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	authToken string
}

// NewClient expects a base URL without the /api/v1 prefix, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		var body errorBody
		if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
			body.Error = strings.TrimSpace(string(raw))
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: body.Error}
		if resp.StatusCode == http.StatusConflict && body.SpaceID != "" {
			return &services.CascadeDeleteError{
				SpaceID:   body.SpaceID,
				Remaining: body.Remaining,
				Failed:    body.Failed,
				Err:       apiErr,
			}
		}
		return apiErr
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Identity

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	return c.authenticate(ctx, "/auth/signup", map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	})
}

func (c *Client) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (models.Identity, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return models.Identity{}, err
	}

	var result authResponse
	if err := decodeResponse(resp, &result); err != nil {
		return models.Identity{}, err
	}

	c.SetAuthToken(result.Token)
	return result.User, nil
}

// SignOut always drops the local token, even when the server cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	defer c.SetAuthToken("")

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// Spaces

func (c *Client) CreateSpace(ctx context.Context, name string) (models.Space, error) {
	if c.AuthToken() == "" {
		return models.Space{}, fmt.Errorf("%w: user must be logged in to create a space", services.ErrValidation)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/spaces", map[string]string{"name": name})
	if err != nil {
		return models.Space{}, err
	}

	var result models.Space
	if err := decodeResponse(resp, &result); err != nil {
		return models.Space{}, err
	}
	return result, nil
}

func (c *Client) ListSpaces(ctx context.Context) ([]models.Space, error) {
	if c.AuthToken() == "" {
		return []models.Space{}, nil
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/spaces", nil)
	if err != nil {
		return nil, err
	}

	result := []models.Space{}
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetSpace returns nil without error when the space does not exist.
func (c *Client) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	if spaceID == "" {
		return nil, nil
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/spaces/"+url.PathEscape(spaceID), nil)
	if err != nil {
		return nil, err
	}

	var result models.Space
	if err := decodeResponse(resp, &result); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteSpace(ctx context.Context, spaceID string) error {
	if spaceID == "" {
		return services.ErrSpaceNotFound
	}

	resp, err := c.doRequest(ctx, http.MethodDelete, "/spaces/"+url.PathEscape(spaceID), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// Notes

func (c *Client) CreateNote(ctx context.Context, spaceID, title string) (models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return models.Note{}, fmt.Errorf("%w: title is required", services.ErrValidation)
	}
	if spaceID == "" {
		return models.Note{}, fmt.Errorf("%w: space is required", services.ErrValidation)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/spaces/"+url.PathEscape(spaceID)+"/notes", map[string]string{"title": title})
	if err != nil {
		return models.Note{}, err
	}

	var result models.Note
	if err := decodeResponse(resp, &result); err != nil {
		return models.Note{}, err
	}
	return result, nil
}

func (c *Client) ListNotes(ctx context.Context, spaceID string) ([]models.Note, error) {
	if spaceID == "" {
		return []models.Note{}, nil
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/spaces/"+url.PathEscape(spaceID)+"/notes", nil)
	if err != nil {
		return nil, err
	}

	result := []models.Note{}
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetNote returns nil without error when the note does not exist.
func (c *Client) GetNote(ctx context.Context, noteID string) (*models.Note, error) {
	if noteID == "" {
		return nil, nil
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID), nil)
	if err != nil {
		return nil, err
	}

	var result models.Note
	if err := decodeResponse(resp, &result); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (c *Client) SaveNote(ctx context.Context, noteID string, fields models.NoteFields) error {
	if noteID == "" {
		return services.ErrNoteNotFound
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/notes/"+url.PathEscape(noteID), fields)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	if noteID == "" {
		return services.ErrNoteNotFound
	}

	resp, err := c.doRequest(ctx, http.MethodDelete, "/notes/"+url.PathEscape(noteID), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}
