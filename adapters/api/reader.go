// Package api loads dataset documents from REST endpoints.
package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"datagraph/adapters/jsonsource"
	"datagraph/domain/dataset"

	"github.com/tidwall/gjson"
)

// maxResponseBytes caps the size of a fetched document
const maxResponseBytes = 32 << 20

// APIReader handles fetching data from REST API endpoints
type APIReader struct {
	config     APIDataSource
	httpClient *http.Client
}

// NewAPIReader creates a new API reader for a data source
func NewAPIReader(config APIDataSource) *APIReader {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &APIReader{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name identifies the source
func (r *APIReader) Name() string {
	if r.config.Name != "" {
		return "api:" + r.config.Name
	}
	if u, err := url.Parse(r.config.URL); err == nil && u.Host != "" {
		return "api:" + u.Host
	}
	return "api"
}

// Load fetches the document and maps it to variables
func (r *APIReader) Load(ctx context.Context) ([]dataset.Variable, error) {
	body, err := r.FetchData(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := r.extractDocument(body)
	if err != nil {
		return nil, err
	}

	vars, err := jsonsource.Parse(r.documentName(), doc)
	if err != nil {
		return nil, err
	}
	for i := range vars {
		vars[i] = vars[i].WithSource(r.Name())
	}

	log.Printf("[APIReader] Loaded %d variables from %s", len(vars), r.config.URL)
	return vars, nil
}

// FetchData retrieves the raw response body from the configured endpoint
func (r *APIReader) FetchData(ctx context.Context) ([]byte, error) {
	startTime := time.Now()

	req, err := r.buildRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	log.Printf("[APIReader] Fetched %d bytes from %s in %v", len(body), r.config.URL, time.Since(startTime))
	return body, nil
}

// buildRequest creates an HTTP request with authentication
func (r *APIReader) buildRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}

	switch r.config.AuthMethod {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+r.config.AuthToken)
	case "api_key":
		req.Header.Set("X-API-Key", r.config.AuthToken)
	}

	return req, nil
}

// extractDocument selects the dataset document from the response using the
// configured gjson path; an empty path uses the whole body
func (r *APIReader) extractDocument(body []byte) ([]byte, error) {
	if r.config.DataPath == "" {
		return body, nil
	}

	result := gjson.GetBytes(body, r.config.DataPath)
	if !result.Exists() {
		return nil, fmt.Errorf("data path '%s' not found in response", r.config.DataPath)
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("data path '%s' is not an object", r.config.DataPath)
	}
	return []byte(result.Raw), nil
}

func (r *APIReader) documentName() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	u, err := url.Parse(r.config.URL)
	if err != nil {
		return "api"
	}
	return jsonsource.DocumentName(u.Path)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
