package market

//go:generate mockgen -destination=./service_mock_test.go -package=market -source=service.go Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finance-companion/internal/config"
	"finance-companion/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Service produces market context for the assistant.
type Service interface {
	// Quotes fetches every watchlist symbol and returns the ones that resolved, in watchlist order.
	Quotes(ctx context.Context) []domain.MarketQuote
	// Snapshot renders Quotes as one line per symbol, or FallbackAdvisory when nothing resolved.
	// It never fails.
	Snapshot(ctx context.Context) string
}

type service struct {
	client         QuoteClient
	watchlist      []Symbol
	maxConcurrency int
	log            *slog.Logger
}

// NewService is the constructor for the market context fetcher.
func NewService(client QuoteClient, watchlist []Symbol, maxConcurrency int, log *slog.Logger) Service {
	if maxConcurrency <= 0 {
		maxConcurrency = len(watchlist)
	}
	return &service{
		client:         client,
		watchlist:      watchlist,
		maxConcurrency: maxConcurrency,
		log:            log,
	}
}

// NewQuoteClientFromConfig selects the quote source named by cfg.QuoteProvider.
func NewQuoteClientFromConfig(cfg config.MarketConfig) (QuoteClient, error) {
	switch cfg.QuoteProvider {
	case "finnhub":
		return NewFinnhubClient("", cfg.FinnhubAPIKey), nil
	case "alphavantage":
		return NewAlphaVantageClient("", cfg.AlphaVantageAPIKey), nil
	case "stub":
		return NewStubQuoteClient(), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", cfg.QuoteProvider)
	}
}

// Quotes implements the Service interface.
func (s *service) Quotes(ctx context.Context) []domain.MarketQuote {
	results := make([]*domain.MarketQuote, len(s.watchlist))

	// Every goroutine returns nil so one failed symbol never cancels the others.
	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, sym := range s.watchlist {
		i, sym := i, sym
		g.Go(func() error {
			raw, err := s.client.Quote(ctx, sym.Symbol)
			if err != nil {
				s.log.Warn("quote fetch failed", "symbol", sym.Symbol, "error", err)
				return nil
			}
			if raw.Price == 0 || raw.PreviousClose == 0 {
				s.log.Warn("quote discarded", "symbol", sym.Symbol, "price", raw.Price, "previous_close", raw.PreviousClose)
				return nil
			}
			results[i] = &domain.MarketQuote{
				Symbol:        sym.Symbol,
				DisplayName:   sym.DisplayName,
				Price:         raw.Price,
				ChangePercent: (raw.Price - raw.PreviousClose) / raw.PreviousClose * 100,
			}
			return nil
		})
	}
	g.Wait()

	quotes := make([]domain.MarketQuote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// Snapshot implements the Service interface.
func (s *service) Snapshot(ctx context.Context) string {
	quotes := s.Quotes(ctx)
	if len(quotes) == 0 {
		return FallbackAdvisory
	}
	lines := make([]string, len(quotes))
	for i, q := range quotes {
		lines[i] = FormatQuote(q)
	}
	return strings.Join(lines, "\n")
}

// FormatQuote renders a quote line, e.g. "TCS (TCS.NS): ₹3842.75 (-0.70%)".
func FormatQuote(q domain.MarketQuote) string {
	sign := ""
	if q.ChangePercent >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s (%s): ₹%.2f (%s%.2f%%)", q.DisplayName, q.Symbol, q.Price, sign, q.ChangePercent)
}
