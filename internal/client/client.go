// Package client talks to the chatbot backend on behalf of the widget. It covers the two API calls, chat
// and summarize, and the acquisition of the CSRF token from the host page.
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
	"strings"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"go.uber.org/zap"
)

// Client is an HTTP client for the chatbot API mounted under {base}/chatbot/.
type Client struct {
	baseURL string

	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// StatusError is returned when the backend answers a chat call with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

const (
	// CSRFHeader is the request header carrying the anti-forgery token.
	CSRFHeader = "X-CSRFToken"

	pagePath      = "/chatbot/"
	chatPath      = "/chatbot/api/chat/"
	summarizePath = "/chatbot/api/summarize/"
)

var (
	// ErrNoResponse is returned when a chat call succeeds but its body carries no response.
	ErrNoResponse = errors.New("response field is missing")
	// ErrNoSummary is returned when a summarize call answers a body without a summary.
	ErrNoSummary = errors.New("summary field is missing")
)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cli *Client) {
		cli.httpClient = c
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(cli *Client) {
		cli.logger = l
	}
}

// New creates a Client for the backend at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: NewHTTPClient(0),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("module", "client"))
	return c
}

// Chat sends query as role and returns the backend's answer.
func (c *Client) Chat(ctx context.Context, query, role, csrfToken string) (string, error) {
	body, err := json.Marshal(models.ChatRequest{Query: query, Role: role})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Chat response", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	var res models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if res.Response == nil {
		return "", ErrNoResponse
	}
	return *res.Response, nil
}

// Summarize uploads the file read from r under the name filename and returns its summary.
//
// The status code is not inspected: a body that decodes without a summary yields ErrNoSummary whatever
// the status, while a body that does not decode at all is reported as a transport error.
func (c *Client) Summarize(ctx context.Context, filename string, r io.Reader, csrfToken string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("error closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+summarizePath, &buf)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	// The content type carries the boundary generated by the multipart writer.
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(CSRFHeader, csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Summarize response",
		zap.String("filename", filename),
		zap.Int("status", resp.StatusCode))

	var res models.SummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if res.Summary == "" {
		return "", ErrNoSummary
	}
	return res.Summary, nil
}

func statusError(resp *http.Response) error {
	e := &StatusError{StatusCode: resp.StatusCode}

	var res models.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&res); err == nil {
		e.Message = res.Error
	}
	return e
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}
