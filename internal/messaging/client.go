// Package messaging delivers quote documents through a WhatsApp gateway
// (Evolution API).
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	ErrMissingAPIKey   = errors.New("messaging: api key required")
	ErrMissingPhone    = errors.New("messaging: phone number required")
	ErrMissingDocument = errors.New("messaging: document required")
	ErrNotConfigured   = errors.New("messaging: gateway url and instance required")
)

// maxErrorBody caps how much of a failed response is kept in APIError.
const maxErrorBody = 4 << 10

// Config is passed explicitly to every client; there is no package-level key.
type Config struct {
	BaseURL  string
	Instance string
	APIKey   string
	// RatePerSecond throttles outbound calls; 0 means 1 per second.
	RatePerSecond float64
	HTTPClient    *http.Client
}

// APIError is returned for non-2xx gateway responses.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("messaging: gateway returned %d: %s", e.Status, e.Body)
}

// Response is the decoded gateway reply.
type Response struct {
	RequestID string
	Status    int
	Data      map[string]any
}

// Client talks to one gateway instance.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

func NewClient(cfg Config) *Client {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *Client) check(phone string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	if c.cfg.BaseURL == "" || c.cfg.Instance == "" {
		return "", ErrNotConfigured
	}
	number := NormalizePhone(phone)
	if number == "" {
		return "", ErrMissingPhone
	}
	return number, nil
}

// SendDocument uploads a PDF as a document message.
func (c *Client) SendDocument(ctx context.Context, phone string, data []byte, fileName string) (*Response, error) {
	number, err := c.check(phone)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrMissingDocument
	}
	if fileName == "" {
		fileName = "cotizacion.pdf"
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("number", number); err != nil {
		return nil, err
	}
	part, err := mw.CreateFormFile("documentMessage", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "send-document", mw.FormDataContentType(), &body)
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, phone, text string) (*Response, error) {
	number, err := c.check(phone)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"number":      number,
		"textMessage": map[string]string{"text": text},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "send-message", "application/json", bytes.NewReader(raw))
}

// Status reports the state of the gateway instance.
func (c *Client) Status(ctx context.Context) (*Response, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.cfg.BaseURL == "" || c.cfg.Instance == "" {
		return nil, ErrNotConfigured
	}
	return c.do(ctx, http.MethodGet, "getInstance", "", nil)
}

func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	retryAt := c.retryAt
	c.mu.Unlock()
	if d := time.Until(retryAt); d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return c.limiter.Wait(ctx)
}

// backoff honours a Retry-After header (seconds) on 429 responses.
func (c *Client) backoff(h http.Header) {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		secs = 30
	}
	c.mu.Lock()
	c.retryAt = time.Now().Add(time.Duration(secs) * time.Second)
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, action, contentType string, body io.Reader) (*Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	endpoint := c.cfg.BaseURL + "/" + url.PathEscape(c.cfg.Instance) + "/" + action
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("messaging: %s %s: %w", method, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			c.backoff(resp.Header)
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	out := &Response{RequestID: reqID, Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("messaging: read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out.Data); err != nil {
			return nil, fmt.Errorf("messaging: decode response: %w", err)
		}
	}
	return out, nil
}
