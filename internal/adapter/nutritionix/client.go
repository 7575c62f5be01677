package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/morgangallant/logs-old/internal/adapter/metrics"
	"github.com/morgangallant/logs-old/internal/domain"
)

const (
	defaultAPIBase = "https://trackapi.nutritionix.com"
	queryTimezone  = "US/Eastern"
)

// ErrLookup marks a failed nutrition lookup. It propagates through the
// extraction pipeline and aborts extraction for the current message.
var ErrLookup = errors.New("nutrition lookup failure")

// Client implements domain.FoodLookup against the Nutritionix
// natural-language nutrients endpoint.
type Client struct {
	httpClient *http.Client
	apiBase    string
	appID      string
	appKey     string
	logger     *slog.Logger
	metrics    *metrics.IngestMetrics
}

// NewClient creates a new nutrition lookup client.
func NewClient(appID, appKey string, logger *slog.Logger, m *metrics.IngestMetrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    defaultAPIBase,
		appID:      appID,
		appKey:     appKey,
		logger:     logger.With("component", "nutritionix_client"),
		metrics:    m,
	}
}

type nutrientsRequest struct {
	Query    string `json:"query"`
	Timezone string `json:"timezone"`
}

type nutrientsResponse struct {
	Foods []domain.FoodItem `json:"foods"`
}

// Lookup sends free text as a natural-language query and returns the
// structured food records the service recognized in it. One attempt, no
// retries.
func (c *Client) Lookup(ctx context.Context, query string) ([]domain.FoodItem, error) {
	body, err := json.Marshal(nutrientsRequest{Query: query, Timezone: queryTimezone})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrLookup, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/natural/nutrients", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.countFailure()
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.countFailure()
		return nil, fmt.Errorf("%w: upstream returned status %d", ErrLookup, resp.StatusCode)
	}

	var parsed nutrientsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.countFailure()
		return nil, fmt.Errorf("%w: decode response: %v", ErrLookup, err)
	}

	c.logger.Debug("nutrition lookup complete", "foods", len(parsed.Foods))
	return parsed.Foods, nil
}

func (c *Client) countFailure() {
	if c.metrics != nil {
		c.metrics.LookupFailures.Inc()
	}
}
