// Package source fetches the daily sales-report document from the EDI portal.
package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aevon-lab/slsrpt-ingest/internal/core/config"
)

const (
	loginPath  = "/connect/registerSession"
	exportPath = "/api/documents/exportDocument"

	// exportQuery asks for one synchronous zip with every document in the window.
	exportQuery = "filename=&dateinname=false&control=false&isolatedfiles=false&volumeId=0&asynchronous=false"

	exportArchiveKey = "file.zip"
	maxResponseBytes = 256 << 20
)

var (
	// ErrLoginFailed is returned when the portal answers without a session token.
	ErrLoginFailed = errors.New("portal login failed")
	// ErrExportFailed is returned when the export call reports a non-success result.
	ErrExportFailed = errors.New("portal export failed")
)

// Client talks to the EDI portal over its JSON API.
type Client struct {
	baseURL  string
	user     string
	password string
	domain   string
	group    string
	docType  string
	http     *http.Client
}

// NewClient creates a portal client from config.
func NewClient(cfg config.SourceConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		user:     cfg.User,
		password: cfg.Password,
		domain:   cfg.Domain,
		group:    cfg.Group,
		docType:  cfg.DocumentType,
		http:     &http.Client{Timeout: cfg.SourceTimeout()},
	}
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
	Group    string `json:"group"`
	Audit    string `json:"audit"`
}

type loginResponse struct {
	Token string `json:"tokena"`
}

// Login opens a portal session and returns its token.
func (c *Client) Login(ctx context.Context) (string, error) {
	audit, err := json.Marshal(map[string]string{
		"remoteUserAgent": "slsrpt-ingest",
		"ediwinUser":      c.user,
	})
	if err != nil {
		return "", fmt.Errorf("marshal audit: %w", err)
	}

	var resp loginResponse
	body, err := c.postJSON(ctx, c.baseURL+loginPath, nil, loginRequest{
		User:     c.user,
		Password: c.password,
		Domain:   c.domain,
		Group:    c.group,
		Audit:    string(audit),
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: %s", ErrLoginFailed, truncate(body, 200))
	}

	slog.Info("[Source] Session opened", "domain", c.domain, "group", c.group)
	return resp.Token, nil
}

type exportRequest struct {
	Filter exportFilter `json:"filter"`
}

type exportFilter struct {
	From           string         `json:"from"`
	To             string         `json:"to"`
	Type           string         `json:"type"`
	FilterCriteria filterCriteria `json:"filterCriteria"`
}

type filterCriteria struct {
	Children []interface{} `json:"children"`
	Criteria interface{}   `json:"criteria"`
	Union    interface{}   `json:"union"`
}

type exportResponse struct {
	Result     int               `json:"result"`
	OutputData map[string]string `json:"outputData"`
}

// Export downloads the zip archive of every document received on day (UTC).
func (c *Client) Export(ctx context.Context, token string, day time.Time) ([]byte, error) {
	day = day.UTC()
	req := exportRequest{Filter: exportFilter{
		From:           day.Format("2006-01-02") + "T00:00:00.000Z",
		To:             day.Format("2006-01-02") + "T23:59:59.999Z",
		Type:           "LAST_YEAR",
		FilterCriteria: filterCriteria{Children: []interface{}{}},
	}}
	headers := map[string]string{
		"tokena":  token,
		"Accept":  "application/json, text/plain, */*",
		"Origin":  c.baseURL,
		"Referer": c.baseURL + "/",
	}

	var resp exportResponse
	body, err := c.postJSON(ctx, c.baseURL+exportPath+"?"+exportQuery, headers, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if resp.Result != 1 {
		return nil, fmt.Errorf("%w: %s", ErrExportFailed, truncate(body, 200))
	}

	encoded, ok := resp.OutputData[exportArchiveKey]
	if !ok {
		return nil, fmt.Errorf("%w: response has no %s", ErrExportFailed, exportArchiveKey)
	}
	archive, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("export: decode archive: %w", err)
	}

	slog.Info("[Source] Archive downloaded", "day", day.Format("2006-01-02"), "bytes", len(archive))
	return archive, nil
}

// Fetch logs in, exports the archive for day and returns the text of the
// sales-report document inside it.
func (c *Client) Fetch(ctx context.Context, day time.Time) (string, error) {
	token, err := c.Login(ctx)
	if err != nil {
		return "", err
	}
	archive, err := c.Export(ctx, token, day)
	if err != nil {
		return "", err
	}
	return ExtractDocument(archive, c.docType)
}

func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, in, out interface{}) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return body, fmt.Errorf("decode response: %w", err)
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
