// Package salesforce is the CRM client. It speaks the Salesforce REST API
// directly and wraps every remote call in the bounded retry policy.
package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ffe/backend/internal/infrastructure/retry"
)

// maxResponseSize is the maximum allowed response size from the CRM (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client talks to one Salesforce org on behalf of the integration user
type Client struct {
	config     *Config
	httpClient *http.Client
	policy     retry.Policy
	logger     *zap.Logger

	mu      sync.Mutex
	session *session
}

type session struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryPolicy replaces the default retry policy. The transient classifier
// is always IsTransient.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// NewClient creates a CRM client with the given configuration
func NewClient(config *Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger.Named("salesforce"),
	}
	c.policy = retry.NewPolicy(IsTransient, c.logger)
	for _, opt := range opts {
		opt(c)
	}
	c.policy.IsTransient = IsTransient
	if c.policy.Logger == nil {
		c.policy.Logger = c.logger
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Generic REST operations
// ---------------------------------------------------------------------------

// QueryResult is one page of a SOQL query
type QueryResult struct {
	TotalSize      int               `json:"totalSize"`
	Done           bool              `json:"done"`
	NextRecordsURL string            `json:"nextRecordsUrl"`
	Records        []json.RawMessage `json:"records"`
}

// Query runs a SOQL statement built with BuildQuery and follows every result page
func (c *Client) Query(ctx context.Context, soql string) (*QueryResult, error) {
	return retry.Value(ctx, c.policy, "query", func(ctx context.Context) (*QueryResult, error) {
		var all QueryResult
		path := "/query?q=" + url.QueryEscape(soql)
		for {
			var page QueryResult
			if err := c.do(ctx, "query", http.MethodGet, path, nil, &page); err != nil {
				return nil, err
			}
			all.TotalSize = page.TotalSize
			all.Records = append(all.Records, page.Records...)
			if page.Done || page.NextRecordsURL == "" {
				all.Done = true
				return &all, nil
			}
			path = page.NextRecordsURL
		}
	})
}

// FindByExternalID fetches one record by an external id field. It returns
// ErrNotFound when nothing matches and ErrMultipleMatches for HTTP 300.
func (c *Client) FindByExternalID(ctx context.Context, sobject, field, value string, fields []string, out any) error {
	path := fmt.Sprintf("/sobjects/%s/%s/%s", sobject, field, url.PathEscape(value))
	if len(fields) > 0 {
		path += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}
	return c.policy.Do(ctx, "find "+sobject, func(ctx context.Context) error {
		return c.do(ctx, "find "+sobject, http.MethodGet, path, nil, out)
	})
}

type upsertResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Created bool   `json:"created"`
}

// Upsert creates or updates the record whose field equals value and returns its id.
// The key field and its value are not sent in the body.
func (c *Client) Upsert(ctx context.Context, sobject, field, value string, fields map[string]any) (string, error) {
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != field {
			body[k] = v
		}
	}
	path := fmt.Sprintf("/sobjects/%s/%s/%s", sobject, field, url.PathEscape(value))
	return retry.Value(ctx, c.policy, "upsert "+sobject, func(ctx context.Context) (string, error) {
		var resp upsertResponse
		if err := c.do(ctx, "upsert "+sobject, http.MethodPatch, path, body, &resp); err != nil {
			return "", err
		}
		if resp.ID == "" && field == "Id" {
			return value, nil
		}
		return resp.ID, nil
	})
}

// Update patches fields on the record with the given id
func (c *Client) Update(ctx context.Context, sobject, id string, fields map[string]any) error {
	path := fmt.Sprintf("/sobjects/%s/%s", sobject, url.PathEscape(id))
	return c.policy.Do(ctx, "update "+sobject, func(ctx context.Context) error {
		return c.do(ctx, "update "+sobject, http.MethodPatch, path, fields, nil)
	})
}

// Create inserts a record and returns its id
func (c *Client) Create(ctx context.Context, sobject string, fields map[string]any) (string, error) {
	path := fmt.Sprintf("/sobjects/%s", sobject)
	return retry.Value(ctx, c.policy, "create "+sobject, func(ctx context.Context) (string, error) {
		var resp upsertResponse
		if err := c.do(ctx, "create "+sobject, http.MethodPost, path, fields, &resp); err != nil {
			return "", err
		}
		return resp.ID, nil
	})
}

// RecordTypeID looks up the id of a record type by developer name
func (c *Client) RecordTypeID(ctx context.Context, developerName, sobjectType string) (string, error) {
	soql, err := BuildQuery("SELECT Id FROM RecordType WHERE DeveloperName = ? AND SobjectType = ?",
		developerName, sobjectType)
	if err != nil {
		return "", err
	}
	var records []struct {
		ID string `json:"Id"`
	}
	if err := c.queryInto(ctx, soql, &records); err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: record type %s on %s", ErrNotFound, developerName, sobjectType)
	}
	return records[0].ID, nil
}

// queryInto runs a query and decodes its records into out, a pointer to a slice
func (c *Client) queryInto(ctx context.Context, soql string, out any) error {
	result, err := c.Query(ctx, soql)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result.Records)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

// authenticate obtains a session using the OAuth username-password flow
func (c *Client) authenticate(ctx context.Context) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)
	form.Set("username", c.config.Username)
	form.Set("password", c.config.Password+c.config.SecurityToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.loginURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("salesforce: failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("salesforce: failed to read login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &oauthErr)
		return nil, fmt.Errorf("%w: login failed with HTTP %d %s %s",
			ErrUnauthorized, resp.StatusCode, oauthErr.Error, oauthErr.Description)
	}

	var s session
	if err := json.Unmarshal(body, &s); err != nil || s.AccessToken == "" || s.InstanceURL == "" {
		return nil, fmt.Errorf("%w: login response has no session", ErrUnauthorized)
	}
	c.session = &s
	c.logger.Debug("Authenticated with Salesforce", zap.String("instance_url", s.InstanceURL))
	return c.session, nil
}

// invalidate drops the cached session so the next attempt logs in again
func (c *Client) invalidate(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == s {
		c.session = nil
	}
}

// do performs one REST call. path is relative to the versioned data endpoint
// unless it already starts with /services/.
func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) error {
	s, err := c.authenticate(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("salesforce: failed to encode %s request: %w", operation, err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := strings.TrimRight(s.InstanceURL, "/")
	if strings.HasPrefix(path, "/services/") {
		endpoint += path
	} else {
		endpoint += "/services/data/v" + c.config.APIVersion + path
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("salesforce: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidate(s)
		}
		return newAPIError(operation, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, operation, err)
	}
	return nil
}

func newAPIError(operation string, status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Operation: operation}
	var errs []struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	}
	if json.Unmarshal(body, &errs) == nil && len(errs) > 0 {
		apiErr.ErrorCode = errs[0].ErrorCode
		apiErr.Message = errs[0].Message
	}
	return apiErr
}
