package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const DefaultTimeout = 30 * time.Second

// StatusError is a non-2xx answer of the items endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error: %s: %s", e.Status, e.Message)
	}
	return "server error: " + e.Status
}

// Client reads filtered items from the dashboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ItemsPath is the request path for params, parameters in their canonical
// order.
func ItemsPath(params value.FilterParams) string {
	return "/api/items?" +
		value.ParamMinProfit + "=" + url.QueryEscape(params.MinProfit) + "&" +
		value.ParamMinPrice + "=" + url.QueryEscape(params.MinPrice) + "&" +
		value.ParamMaxPrice + "=" + url.QueryEscape(params.MaxPrice)
}

// FetchItems returns nil without error when the server answers null, that is
// before its first analysis.
func (c Client) FetchItems(ctx context.Context, params value.FilterParams) ([]entity.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ItemsPath(params), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError(resp)
	}

	var items []entity.Item
	if err = json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return items, nil
}

func statusError(resp *http.Response) error {
	e := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return e
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		e.Message = envelope.Message
	}

	return e
}
