package market

//go:generate mockgen -destination=./clients_mock_test.go -package=market -source=clients.go

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// QuoteClient defines the contract for an external quote API.
type QuoteClient interface {
	// Quote fetches the latest price and previous close for one symbol.
	Quote(ctx context.Context, symbol string) (*RawQuote, error)
}

// --- Finnhub ---

type finnhubClient struct {
	http   *resty.Client
	apiKey string
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	PreviousClose float64 `json:"pc"`
}

type finnhubError struct {
	Error string `json:"error"`
}

// NewFinnhubClient creates a quote client for finnhub.io. An empty baseURL uses the public API.
func NewFinnhubClient(baseURL, apiKey string) QuoteClient {
	if baseURL == "" {
		baseURL = "https://finnhub.io"
	}
	return &finnhubClient{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(5 * time.Second),
		apiKey: apiKey,
	}
}

func (c *finnhubClient) Quote(ctx context.Context, symbol string) (*RawQuote, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key is not configured")
	}

	var out finnhubQuote
	var apiErr finnhubError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"symbol": symbol, "token": c.apiKey}).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/v1/quote")
	if err != nil {
		return nil, fmt.Errorf("could not call finnhub: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return nil, fmt.Errorf("finnhub returned %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("finnhub returned %d", resp.StatusCode())
	}

	// Finnhub answers unknown symbols with an all-zero quote rather than an error.
	if out.Current == 0 {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return &RawQuote{Price: out.Current, PreviousClose: out.PreviousClose}, nil
}

// --- Alpha Vantage ---

type alphaVantageClient struct {
	http   *resty.Client
	apiKey string
}

type alphaVantageResponse struct {
	GlobalQuote struct {
		Price         string `json:"05. price"`
		PreviousClose string `json:"08. previous close"`
	} `json:"Global Quote"`
	// Rate limiting is reported in a 200 response.
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// NewAlphaVantageClient creates a quote client for alphavantage.co. An empty baseURL uses the public API.
func NewAlphaVantageClient(baseURL, apiKey string) QuoteClient {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return &alphaVantageClient{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(5 * time.Second),
		apiKey: apiKey,
	}
}

func (c *alphaVantageClient) Quote(ctx context.Context, symbol string) (*RawQuote, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage API key is not configured")
	}

	var out alphaVantageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   symbol,
			"apikey":   c.apiKey,
		}).
		SetResult(&out).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("could not call alpha vantage: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("alpha vantage returned %d", resp.StatusCode())
	}
	if out.Note != "" || out.Information != "" {
		return nil, fmt.Errorf("alpha vantage rate limited: %s%s", out.Note, out.Information)
	}
	if out.GlobalQuote.Price == "" {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}

	price, err := strconv.ParseFloat(out.GlobalQuote.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed price %q: %w", out.GlobalQuote.Price, err)
	}
	prevClose, err := strconv.ParseFloat(out.GlobalQuote.PreviousClose, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed previous close %q: %w", out.GlobalQuote.PreviousClose, err)
	}
	return &RawQuote{Price: price, PreviousClose: prevClose}, nil
}

// stubQuoteClient is a fake QuoteClient with fixed prices.
type stubQuoteClient struct{}

// NewStubQuoteClient creates a fake client.
func NewStubQuoteClient() QuoteClient {
	return &stubQuoteClient{}
}

func (s *stubQuoteClient) Quote(ctx context.Context, symbol string) (*RawQuote, error) {
	// Return canned quotes for the default watchlist only.
	prices := map[string]RawQuote{
		"RELIANCE.NS": {Price: 2915.40, PreviousClose: 2890.10},
		"TCS.NS":      {Price: 3842.75, PreviousClose: 3870.00},
		"INFY.NS":     {Price: 1502.30, PreviousClose: 1498.55},
	}
	q, ok := prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return &q, nil
}
