package analysis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"skin_market/pkg/httpx"
	"skin_market/pkg/logx"
)

// HTTPEngine fetches a ready analysis from a remote endpoint that answers GET
// with the JSON item array.
type HTTPEngine struct {
	url    string
	client *http.Client
}

type HTTPOptions struct {
	URL            string
	Token          string
	Timeout        time.Duration
	LogFieldMaxLen int
}

func NewHTTPEngine(opts HTTPOptions) HTTPEngine {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithLogFieldMaxLen(opts.LogFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	)

	if opts.Token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, httpx.StaticToken(opts.Token))
	}

	return HTTPEngine{
		url: opts.URL,
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}
}

func (e HTTPEngine) RunAnalysis(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("analysis endpoint: unexpected status %s", resp.Status)
	}

	return string(body), nil
}
