package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/morgangallant/logs-old/internal/adapter/metrics"
	"github.com/morgangallant/logs-old/internal/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// ErrTransport marks a failure anywhere in the two-step file fetch chain.
// The caller treats it as fatal for the current message.
var ErrTransport = errors.New("telegram transport failure")

// Client implements domain.MediaFetcher against the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	apiBase    string
	token      string
	logger     *slog.Logger
	metrics    *metrics.IngestMetrics
}

// NewClient creates a new Bot API client.
func NewClient(token string, logger *slog.Logger, m *metrics.IngestMetrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    defaultAPIBase,
		token:      token,
		logger:     logger.With("component", "telegram_client"),
		metrics:    m,
	}
}

type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// Fetch downloads the highest-resolution variant of a photo. The platform
// orders variants smallest to largest, so the last entry is the original;
// that ordering is an upstream contract, not verified here.
func (c *Client) Fetch(ctx context.Context, photos []domain.PhotoSize) ([]byte, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("%w: no photo variants in payload", ErrTransport)
	}
	variant := photos[len(photos)-1]

	path, err := c.resolveFilePath(ctx, variant.FileID)
	if err != nil {
		return nil, err
	}

	data, err := c.download(ctx, path)
	if err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.MediaBytesTotal.Add(float64(len(data)))
	}
	c.logger.Debug("downloaded photo", "file_id", variant.FileID, "bytes", len(data))
	return data, nil
}

// resolveFilePath asks the Bot API for the server-side path of a file.
func (c *Client) resolveFilePath(ctx context.Context, fileID string) (string, error) {
	u := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", c.apiBase, c.token, url.QueryEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: getFile: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: getFile returned status %d", ErrTransport, resp.StatusCode)
	}

	var parsed getFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode getFile response: %v", ErrTransport, err)
	}
	if !parsed.OK || parsed.Result.FilePath == "" {
		return "", fmt.Errorf("%w: getFile did not resolve file %s", ErrTransport, fileID)
	}
	return parsed.Result.FilePath, nil
}

// download fetches the raw bytes at a previously resolved file path.
func (c *Client) download(ctx context.Context, filePath string) ([]byte, error) {
	u := fmt.Sprintf("%s/file/bot%s/%s", c.apiBase, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download returned status %d", ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read download body: %v", ErrTransport, err)
	}
	return data, nil
}
