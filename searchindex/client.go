// Package searchindex implements the docchat.SearchIndex interface against
// the Azure AI Search REST API: bulk clear, bulk upload and keyword search
// over a single index.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	docchat "github.com/nevindra/docchat"
)

// Compile-time interface check.
var _ docchat.SearchIndex = (*Client)(nil)

const defaultAPIVersion = "2024-07-01"

// Option configures a Client.
type Option func(*Client)

// WithKeyField sets the index's document key field. Default "id".
func WithKeyField(name string) Option {
	return func(c *Client) { c.keyField = name }
}

// WithContentField sets the field that holds chunk text. Default "content".
func WithContentField(name string) Option {
	return func(c *Client) { c.contentField = name }
}

// WithAPIVersion overrides the REST API version.
func WithAPIVersion(v string) Option {
	return func(c *Client) { c.apiVersion = v }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets a structured logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks to one search index. ClearAll and Upload report success as
// a boolean and log the underlying error; Search returns errors so callers
// can tell a failed call from an empty result.
type Client struct {
	endpoint     string
	indexName    string
	apiKey       string
	keyField     string
	contentField string
	apiVersion   string
	client       *http.Client
	logger       *slog.Logger
}

// New creates a Client for the index at endpoint (e.g.
// "https://myservice.search.windows.net").
func New(endpoint, indexName, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:     endpoint,
		indexName:    indexName,
		apiKey:       apiKey,
		keyField:     "id",
		contentField: "content",
		apiVersion:   defaultAPIVersion,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ClearAll deletes every record in the index: list all document keys, then
// issue one bulk delete. An already-empty index is a success and sends no
// delete request, so the call is idempotent.
func (c *Client) ClearAll(ctx context.Context) bool {
	start := time.Now()

	keys, err := c.listKeys(ctx)
	if err != nil {
		c.logger.Error("searchindex: list keys failed", "index", c.indexName, "error", err)
		return false
	}
	if len(keys) == 0 {
		c.logger.Debug("searchindex: clear ok", "index", c.indexName, "deleted", 0, "duration", time.Since(start))
		return true
	}

	actions := make([]map[string]string, len(keys))
	for i, k := range keys {
		actions[i] = map[string]string{
			"@search.action": "delete",
			c.keyField:       k,
		}
	}
	if err := c.postActions(ctx, actions); err != nil {
		c.logger.Error("searchindex: clear failed", "index", c.indexName, "error", err)
		return false
	}

	c.logger.Debug("searchindex: clear ok", "index", c.indexName, "deleted", len(keys), "duration", time.Since(start))
	return true
}

// Upload submits the whole batch in one bulk request, one record per chunk,
// each with a freshly generated key. An empty batch is a no-op success and
// sends no request. Uploading the same chunks twice creates two record sets.
func (c *Client) Upload(ctx context.Context, chunks []string) bool {
	if len(chunks) == 0 {
		return true
	}
	start := time.Now()

	actions := make([]map[string]string, len(chunks))
	for i, chunk := range chunks {
		actions[i] = map[string]string{
			"@search.action": "upload",
			c.keyField:       docchat.NewRecordKey(),
			c.contentField:   chunk,
		}
	}
	if err := c.postActions(ctx, actions); err != nil {
		c.logger.Error("searchindex: upload failed", "index", c.indexName, "chunks", len(chunks), "error", err)
		return false
	}

	c.logger.Debug("searchindex: upload ok", "index", c.indexName, "chunks", len(chunks), "duration", time.Since(start))
	return true
}

// Search runs a keyword query against the content field and returns up to
// topK records in the service's relevance order.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]docchat.Record, error) {
	body := map[string]any{
		"search":       query,
		"count":        true,
		"top":          topK,
		"searchFields": c.contentField,
	}
	searchURL := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.indexName, c.apiVersion)

	var result struct {
		Value []map[string]any `json:"value"`
	}
	if err := c.doJSON(ctx, http.MethodPost, searchURL, body, &result); err != nil {
		return nil, err
	}

	records := make([]docchat.Record, 0, len(result.Value))
	for _, doc := range result.Value {
		rec := docchat.Record{}
		if k, ok := doc[c.keyField].(string); ok {
			rec.Key = k
		}
		if content, ok := doc[c.contentField].(string); ok {
			rec.Content = content
		}
		records = append(records, rec)
	}

	c.logger.Debug("searchindex: search ok", "index", c.indexName, "query", query, "results", len(records))
	return records, nil
}

// listKeys fetches the key field of every document in the index.
func (c *Client) listKeys(ctx context.Context) ([]string, error) {
	listURL := fmt.Sprintf("%s/indexes/%s/docs?api-version=%s&search=*&$select=%s",
		c.endpoint, c.indexName, c.apiVersion, url.QueryEscape(c.keyField))

	var result struct {
		Value []map[string]any `json:"value"`
	}
	if err := c.doJSON(ctx, http.MethodGet, listURL, nil, &result); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(result.Value))
	for _, doc := range result.Value {
		if k, ok := doc[c.keyField].(string); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// postActions sends one bulk document batch to the index endpoint.
func (c *Client) postActions(ctx context.Context, actions []map[string]string) error {
	indexURL := fmt.Sprintf("%s/indexes/%s/docs/index?api-version=%s", c.endpoint, c.indexName, c.apiVersion)
	return c.doJSON(ctx, http.MethodPost, indexURL, map[string]any{"value": actions}, nil)
}

// doJSON sends one request and decodes the response into out when non-nil.
// Any non-2xx status becomes an ErrHTTP carrying the response body.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &docchat.ErrHTTP{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
