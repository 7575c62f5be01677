package operand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/morgangallant/logs-old/internal/domain"
)

const defaultAPIBase = "https://api.operand.ai"

// logProperty is the object property carrying the owning log's ID, used to
// resolve search matches back to stored logs.
const logProperty = "log"

// Client implements domain.Indexer against the Operand object API. Every
// indexed object is created under a single configured parent and tagged
// with the log ID it was derived from.
type Client struct {
	httpClient *http.Client
	apiBase    string
	apiKey     string
	parentID   string
	logger     *slog.Logger
}

// NewClient creates a new semantic-search client scoped to one parent object.
func NewClient(apiKey, parentID string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    defaultAPIBase,
		apiKey:     apiKey,
		parentID:   parentID,
		logger:     logger.With("component", "operand_client"),
	}
}

type createObjectRequest struct {
	ParentID   string            `json:"parentId"`
	Type       string            `json:"type"`
	Metadata   map[string]any    `json:"metadata"`
	Properties map[string]string `json:"properties"`
}

type searchContentsRequest struct {
	ParentIDs []string `json:"parentIds"`
	Query     string   `json:"query"`
	Max       int      `json:"max"`
}

type searchContentsResponse struct {
	Matches []struct {
		Content string  `json:"content"`
		Score   float64 `json:"score"`
		Object  struct {
			Properties map[string]string `json:"properties"`
		} `json:"object"`
	} `json:"matches"`
}

// IndexText pushes a text log's content into the index.
func (c *Client) IndexText(ctx context.Context, logID, text string) error {
	return c.createObject(ctx, createObjectRequest{
		ParentID:   c.parentID,
		Type:       "text",
		Metadata:   map[string]any{"text": text},
		Properties: map[string]string{logProperty: logID},
	})
}

// IndexImage pushes an externally resolvable image URL into the index.
func (c *Client) IndexImage(ctx context.Context, logID, imageURL string) error {
	return c.createObject(ctx, createObjectRequest{
		ParentID:   c.parentID,
		Type:       "image",
		Metadata:   map[string]any{"imageUrl": imageURL},
		Properties: map[string]string{logProperty: logID},
	})
}

func (c *Client) createObject(ctx context.Context, reqBody createObjectRequest) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create object request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v3/objects", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("create object returned status %d", resp.StatusCode)
	}
	return nil
}

// Search queries indexed content under the configured parent and maps each
// match back to a log ID via the log property.
func (c *Client) Search(ctx context.Context, query string, max int) ([]domain.SearchMatch, error) {
	body, err := json.Marshal(searchContentsRequest{
		ParentIDs: []string{c.parentID},
		Query:     query,
		Max:       max,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v3/search/contents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search contents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search contents returned status %d", resp.StatusCode)
	}

	var parsed searchContentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	matches := make([]domain.SearchMatch, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		matches = append(matches, domain.SearchMatch{
			LogID:   m.Object.Properties[logProperty],
			Snippet: m.Content,
			Score:   m.Score,
		})
	}
	return matches, nil
}
