package frontdash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/config"
	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/pkg/errors"
)

// Client talks to the FrontDash restaurant and order REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new FrontDash API client
func NewClient(cfg config.FrontdashConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GetHours returns the weekly operating hours of a restaurant
func (c *Client) GetHours(ctx context.Context, restaurantName string) ([]domain.OperatingHoursEntry, error) {
	body, err := c.get(ctx, "/api/restaurant/hours", restaurantName)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hours: %w", err)
	}

	hours := make([]domain.OperatingHoursEntry, 0, len(rows))
	for _, row := range rows {
		var entry domain.OperatingHoursEntry
		if err := decodeRow(row, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode hours row: %w", err)
		}
		hours = append(hours, entry)
	}

	return hours, nil
}

// GetMenu returns the catalog of a restaurant
func (c *Client) GetMenu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error) {
	body, err := c.get(ctx, "/api/restaurant/menu", restaurantName)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(rows))
	for _, row := range rows {
		var item domain.MenuItem
		if err := decodeRow(row, &item); err != nil {
			return nil, fmt.Errorf("failed to decode menu row: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// CreateOrder submits an order. Any non-2xx answer is returned as *errors.ErrSubmission.
func (c *Client) CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderReceipt, error) {
	jsonData, err := json.Marshal(newCreateOrderRequest(order))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.ErrSubmission{Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ErrSubmission{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Order API rejected order",
			zap.Int("status", resp.StatusCode),
			zap.String("restaurant", order.RestaurantName),
		)
		return nil, &errors.ErrSubmission{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var created createOrderResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, &errors.ErrSubmission{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	return created.toReceipt(), nil
}

func (c *Client) get(ctx context.Context, path, restaurantName string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s%s?restName=%s", c.baseURL, path, url.QueryEscape(restaurantName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("frontdash API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// errorMessage prefers the {"message": ...} field of an error body and falls back to the raw text
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
