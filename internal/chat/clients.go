package chat

//go:generate mockgen -destination=./clients_mock_test.go -package=chat -source=clients.go

import (
	"context"

	"finance-companion/internal/domain"
)

// The orchestrator only needs a narrow slice of each collaborator.
// llm.Service, market.Service and extract.Extractor satisfy these.

// Dispatcher sends a built conversation to the configured chat backend.
type Dispatcher interface {
	Send(ctx context.Context, req *domain.ConversationRequest) (string, error)
}

// MarketContext provides the market snapshot injected into the system prompt.
type MarketContext interface {
	Snapshot(ctx context.Context) string
}

// TextExtractor reads text out of an uploaded document.
type TextExtractor interface {
	ExtractText(ctx context.Context, fileName string, data []byte) (string, error)
}
