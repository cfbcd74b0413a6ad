package llm

//go:generate mockgen -destination=./service_mock_test.go -package=llm -source=service.go Service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finance-companion/internal/config"
	"finance-companion/internal/domain"
)

// Service is the provider dispatcher: one call signature in front of whichever backend is configured.
type Service interface {
	// Send dispatches the request and returns the plain reply text.
	// Every failure is a *ProviderError.
	Send(ctx context.Context, req *domain.ConversationRequest) (string, error)
	// ProviderName reports which backend is configured.
	ProviderName() string
}

type service struct {
	provider Provider
	log      *slog.Logger
}

// NewService is the constructor for the dispatcher.
func NewService(provider Provider, log *slog.Logger) Service {
	return &service{
		provider: provider,
		log:      log,
	}
}

// NewProviderFromConfig selects the backend named by cfg.Provider.
func NewProviderFromConfig(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openrouter":
		return NewOpenRouterProvider(Config{
			APIKey:      cfg.OpenRouterAPIKey,
			Model:       cfg.OpenRouterModel,
			VisionModel: cfg.OpenRouterVisionModel,
			Timeout:     cfg.Timeout,
			Headers:     map[string]string{"HTTP-Referer": cfg.AppOrigin},
		}), nil
	case "groq":
		return NewGroqProvider(Config{
			APIKey:      cfg.GroqAPIKey,
			Model:       cfg.GroqModel,
			VisionModel: cfg.GroqVisionModel,
			Timeout:     cfg.Timeout,
		}), nil
	case "gemini":
		return NewGeminiProvider(Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
		}), nil
	case "stub":
		return NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.Provider)
	}
}

func (s *service) ProviderName() string {
	return s.provider.Name()
}

// Send implements the Service interface.
func (s *service) Send(ctx context.Context, req *domain.ConversationRequest) (string, error) {
	name := s.provider.Name()
	if req == nil || len(req.Turns) == 0 {
		return "", &ProviderError{Provider: name, Kind: KindInvalidRequest, Message: "conversation request has no turns"}
	}

	reply, err := s.provider.Send(ctx, req)
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			perr = transportError(name, err.Error(), err)
		}
		s.log.Warn("provider call failed", "provider", name, "kind", perr.Kind, "error", perr.Message)
		return "", perr
	}
	return reply, nil
}
