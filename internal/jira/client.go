package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
)

const defaultTimeout = 30 * time.Second

// APIError is returned when JIRA answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("JIRA API returned %d: %s", e.StatusCode, e.Body)
}

// Client is a JIRA REST API v3 client.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a new JIRA client from the given config.
func NewClient(cfg config.Config) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.Token))
	timeout := cfg.Panel.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetIssue fetches a single issue by key, restricted to the given fields.
// expand may be empty.
func (c *Client) GetIssue(ctx context.Context, key string, fields, expand []string) (*Issue, error) {
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	if len(expand) > 0 {
		params.Set("expand", strings.Join(expand, ","))
	}
	endpoint := c.issueURL(key, "")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}

	var issue Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("decoding issue %s: %w", key, err)
	}
	return &issue, nil
}

// GetComments returns the comment collection of an issue.
func (c *Client) GetComments(ctx context.Context, key string) ([]Comment, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.issueURL(key, "/comment"), nil, "")
	if err != nil {
		return nil, fmt.Errorf("get comments %s: %w", key, err)
	}

	var result Comments
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding comments %s: %w", key, err)
	}
	return result.Comments, nil
}

// GetTransitions returns available transitions for an issue.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]TransitionInfo, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.issueURL(key, "/transitions"), nil, "")
	if err != nil {
		return nil, fmt.Errorf("get transitions %s: %w", key, err)
	}

	var result TransitionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding transitions %s: %w", key, err)
	}
	return result.Transitions, nil
}

// DoTransition performs a status transition on an issue.
func (c *Client) DoTransition(ctx context.Context, key string, transitionID string) error {
	data, err := json.Marshal(TransitionPayload{Transition: Transition{ID: transitionID}})
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, c.issueURL(key, "/transitions"), bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("transition %s: %w", key, err)
	}
	return nil
}

// AddComment posts an ADF comment body and returns the created comment as
// JIRA sent it back.
func (c *Client) AddComment(ctx context.Context, key string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(CommentPayload{Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshalling payload: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.issueURL(key, "/comment"), bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, fmt.Errorf("add comment %s: %w", key, err)
	}
	return json.RawMessage(resp), nil
}

// AddAttachment uploads one file as the "file" part of a multipart request.
// JIRA answers with a JSON array of the created attachments.
func (c *Client) AddAttachment(ctx context.Context, key, fileName, contentType string, content []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("writing file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.issueURL(key, "/attachments"), &buf, mw.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("upload attachment %s: %w", key, err)
	}
	return json.RawMessage(resp), nil
}

func (c *Client) issueURL(key, suffix string) string {
	return fmt.Sprintf("%s/rest/api/3/issue/%s%s", c.baseURL, url.PathEscape(key), suffix)
}

// doRequest executes an authenticated request and returns the response body.
// Any status outside 2xx is reported as *APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	slog.DebugContext(ctx, "jira request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if strings.HasPrefix(contentType, "multipart/") {
		// Required by JIRA for attachment uploads.
		req.Header.Set("X-Atlassian-Token", "no-check")
	}
}
