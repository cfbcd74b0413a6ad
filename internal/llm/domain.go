package llm

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"finance-companion/internal/domain"
)

// ErrorKind classifies why a provider call failed.
type ErrorKind string

const (
	// KindConfiguration means the backend has no usable credential. No request was sent.
	KindConfiguration ErrorKind = "configuration"
	// KindTransport covers network failures and non-2xx responses.
	KindTransport ErrorKind = "transport"
	// KindEmptyResponse means the backend answered without any choices.
	KindEmptyResponse ErrorKind = "empty_response"
	// KindInvalidRequest means the caller passed a request with nothing to send.
	KindInvalidRequest ErrorKind = "invalid_request"
)

// ProviderError is the single error type every provider failure is normalized to.
// Message is safe to show to the end user.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Config describes one chat-completion backend. Zero values are replaced by the backend's defaults.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	VisionModel       string
	Temperature       float32
	VisionTemperature float32
	MaxTokens         int
	Timeout           time.Duration
	// Headers are added to every outbound request.
	Headers map[string]string
}

func configurationError(provider, envVar string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     KindConfiguration,
		Message:  fmt.Sprintf("%s API key is not configured. Please add %s to your environment", provider, envVar),
	}
}

func transportError(provider, detail string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     KindTransport,
		Message:  fmt.Sprintf("%s API Error: %s", provider, detail),
		Err:      err,
	}
}

func emptyResponseError(provider string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     KindEmptyResponse,
		Message:  fmt.Sprintf("No response from %s", provider),
	}
}

// statusMessage renders an HTTP status the way it appears on the wire, e.g. "503 Service Unavailable".
func statusMessage(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

func usableKey(key, placeholder string) bool {
	return key != "" && key != placeholder
}

func hasImages(req *domain.ConversationRequest) bool {
	for _, t := range req.Turns {
		if len(t.Images) > 0 {
			return true
		}
	}
	return false
}

func dataURI(img domain.Image) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
}
