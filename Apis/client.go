package Apis

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
)

// ErrUnauthorized matches any APIError carrying a 401.
var ErrUnauthorized = errors.New("unauthorized")

// TokenSource is the session as seen by the client: where the bearer token
// comes from and who to tell when the server rejects it.
type TokenSource interface {
	Token() string
	Expire()
}

// Envelope is the shape of every JSON response the REST service sends.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

// APIError is a non-2xx reply. Message is the server's own message when the
// body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// MessageOf returns the text shown to the user for err: the server message if
// there is one, otherwise fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource
}

// NewClient builds a client without request timeouts; a hung backend keeps
// the caller waiting.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Tokens:  tokens,
	}
}

// WithTokens returns a copy of the client bound to another session.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	clone := *c
	clone.Tokens = tokens
	return &clone
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, authenticated bool) (*http.Response, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authenticated && c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope Envelope[json.RawMessage]
	if raw, readErr := io.ReadAll(resp.Body); readErr == nil && json.Unmarshal(raw, &envelope) == nil {
		apiErr.Message = envelope.Message
	}
	if authenticated && resp.StatusCode == http.StatusUnauthorized && c.Tokens != nil {
		c.Tokens.Expire()
	}
	return nil, apiErr
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, authenticated bool) (Envelope[T], error) {
	var envelope Envelope[T]
	resp, err := c.do(ctx, method, path, query, body, authenticated)
	if err != nil {
		return envelope, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && !errors.Is(err, io.EOF) {
		return envelope, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return envelope, nil
}

// Download posts body as JSON and returns the raw response, used for the
// server generated reports.
func (c *Client) Download(ctx context.Context, path string, body any) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodPost, path, nil, body, true)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
