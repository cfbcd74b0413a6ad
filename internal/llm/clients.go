package llm

//go:generate mockgen -destination=./clients_mock_test.go -package=llm -source=clients.go

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finance-companion/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

// Provider is one chat-completion backend.
type Provider interface {
	// Name is the backend's display name, used in error messages.
	Name() string
	// Send returns the text of the first completion choice.
	Send(ctx context.Context, req *domain.ConversationRequest) (string, error)
}

const (
	openRouterBaseURL     = "https://openrouter.ai/api/v1"
	openRouterPlaceholder = "your_openrouter_api_key_here"
	groqBaseURL           = "https://api.groq.com/openai/v1"
	groqPlaceholder       = "your_groq_api_key_here"
)

// openAIProvider talks to any backend that speaks the OpenAI chat-completions wire format.
type openAIProvider struct {
	name        string
	keyEnv      string
	placeholder string
	cfg         Config
	client      *openai.Client
}

// NewOpenRouterProvider creates the OpenRouter backend.
func NewOpenRouterProvider(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/mistral-7b-instruct:free"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = "google/gemini-2.0-flash-exp:free"
	}
	headers := map[string]string{"X-Title": "AI Finance Chat"}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers
	return newOpenAIProvider("OpenRouter", "OPENROUTER_API_KEY", openRouterPlaceholder, cfg)
}

// NewGroqProvider creates the Groq backend.
func NewGroqProvider(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = groqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = "llama-4-maverick-17b-128e-instruct"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.VisionTemperature == 0 {
		cfg.VisionTemperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}
	return newOpenAIProvider("Groq", "GROQ_API_KEY", groqPlaceholder, cfg)
}

func newOpenAIProvider(name, keyEnv, placeholder string, cfg Config) *openAIProvider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &headerTransport{base: http.DefaultTransport, headers: cfg.Headers},
	}
	return &openAIProvider{
		name:        name,
		keyEnv:      keyEnv,
		placeholder: placeholder,
		cfg:         cfg,
		client:      openai.NewClientWithConfig(clientCfg),
	}
}

func (p *openAIProvider) Name() string {
	return p.name
}

// Send implements the Provider interface.
func (p *openAIProvider) Send(ctx context.Context, req *domain.ConversationRequest) (string, error) {
	// Never send a request with a missing or known-bad credential.
	if !usableKey(p.cfg.APIKey, p.placeholder) {
		return "", configurationError(p.name, p.keyEnv)
	}

	model, temperature := p.cfg.Model, p.cfg.Temperature
	vision := p.cfg.VisionModel != "" && hasImages(req)
	if vision {
		model, temperature = p.cfg.VisionModel, p.cfg.VisionTemperature
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(req, vision),
		Temperature: temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return "", transportError(p.name, openAIErrorDetail(err), err)
	}
	if len(resp.Choices) == 0 {
		return "", emptyResponseError(p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(req *domain.ConversationRequest, vision bool) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+1)
	if req.SystemInstruction != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, t := range req.Turns {
		msg := openai.ChatCompletionMessage{Role: string(t.Role)}
		if vision && len(t.Images) > 0 {
			parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: t.Content}}
			for _, img := range t.Images {
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURI(img)},
				})
			}
			msg.MultiContent = parts
		} else {
			msg.Content = t.Content
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// openAIErrorDetail picks the most specific message available: the structured error body,
// then the HTTP status, then the transport error itself.
func openAIErrorDetail(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return statusMessage(reqErr.HTTPStatusCode)
	}
	return err.Error()
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	for k, v := range t.headers {
		r.Header.Set(k, v)
	}
	return t.base.RoundTrip(r)
}

// stubProvider is a fake Provider for local runs without any credentials.
type stubProvider struct{}

// NewStubProvider creates a fake provider.
func NewStubProvider() Provider {
	return &stubProvider{}
}

func (s *stubProvider) Name() string {
	return "Stub"
}

func (s *stubProvider) Send(ctx context.Context, req *domain.ConversationRequest) (string, error) {
	// Return a canned response
	return "I'm running in offline mode, so I can't analyze that right now. This is an AI response and not professional financial advice.", nil
}
