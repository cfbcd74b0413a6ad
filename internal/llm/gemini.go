package llm

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"finance-companion/internal/domain"

	"github.com/go-resty/resty/v2"
)

const (
	geminiBaseURL     = "https://generativelanguage.googleapis.com"
	geminiPlaceholder = "your-gemini-api-key"
)

// InvoiceExtractor reads structured invoice fields out of an image.
type InvoiceExtractor interface {
	// ExtractInvoice returns the model's JSON text for the invoice in the image.
	ExtractInvoice(ctx context.Context, image []byte, mimeType string) (string, error)
}

// --- Gemini wire format ---

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// geminiClient is the Gemini backend. It has no system role and calls the assistant "model".
type geminiClient struct {
	http *resty.Client
	cfg  Config
}

// NewGeminiProvider creates the Gemini chat backend.
func NewGeminiProvider(cfg Config) Provider {
	return newGeminiClient(cfg)
}

// NewGeminiInvoiceExtractor creates an invoice extractor backed by Gemini vision.
func NewGeminiInvoiceExtractor(cfg Config) InvoiceExtractor {
	return newGeminiClient(cfg)
}

func newGeminiClient(cfg Config) *geminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-exp"
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
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.Headers)

	return &geminiClient{http: client, cfg: cfg}
}

func (g *geminiClient) Name() string {
	return "Gemini"
}

// Send implements the Provider interface.
func (g *geminiClient) Send(ctx context.Context, req *domain.ConversationRequest) (string, error) {
	if !usableKey(g.cfg.APIKey, geminiPlaceholder) {
		return "", configurationError(g.Name(), "GEMINI_API_KEY")
	}
	return g.generate(ctx, geminiRequest{
		Contents: toGeminiContents(req),
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.cfg.Temperature,
			MaxOutputTokens: g.cfg.MaxTokens,
		},
	})
}

// ExtractInvoice implements the InvoiceExtractor interface.
func (g *geminiClient) ExtractInvoice(ctx context.Context, image []byte, mimeType string) (string, error) {
	if !usableKey(g.cfg.APIKey, geminiPlaceholder) {
		return "", configurationError(g.Name(), "GEMINI_API_KEY")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	text, err := g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: invoiceExtractionPrompt},
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
			},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.cfg.VisionTemperature,
			MaxOutputTokens: g.cfg.MaxTokens,
		},
	})
	if err != nil {
		return "", err
	}
	return stripCodeFence(text), nil
}

func (g *geminiClient) generate(ctx context.Context, body geminiRequest) (string, error) {
	var out geminiResponse
	var apiErr geminiErrorBody

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.cfg.APIKey).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/" + g.cfg.Model + ":generateContent")
	if err != nil {
		return "", transportError(g.Name(), err.Error(), err)
	}
	if resp.IsError() {
		detail := apiErr.Error.Message
		if detail == "" {
			detail = statusMessage(resp.StatusCode())
		}
		return "", transportError(g.Name(), detail, nil)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", emptyResponseError(g.Name())
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// toGeminiContents maps turns onto Gemini roles. The system instruction is folded into the
// first user turn because Gemini has no system role.
func toGeminiContents(req *domain.ConversationRequest) []geminiContent {
	contents := make([]geminiContent, 0, len(req.Turns))
	pendingSystem := req.SystemInstruction
	for _, t := range req.Turns {
		role := "user"
		if t.Role == domain.RoleAssistant {
			role = "model"
		}

		text := t.Content
		if pendingSystem != "" && t.Role == domain.RoleUser {
			text = pendingSystem + "\n\n" + text
			pendingSystem = ""
		}

		parts := []geminiPart{{Text: text}}
		for _, img := range t.Images {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{
				MimeType: img.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			}})
		}
		contents = append(contents, geminiContent{Role: role, Parts: parts})
	}
	return contents
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

const invoiceExtractionPrompt = `You are an expert AI specialized in extracting structured data from invoice and receipt images with high accuracy.

INSTRUCTIONS:
1. Carefully analyze the entire invoice/receipt image
2. Extract ALL visible information accurately
3. Look for these specific fields:
   - Vendor/Company name (usually at the top, in larger text)
   - Invoice number (may be labeled as "Invoice #", "Invoice No.", "Receipt #", etc.)
   - Date (look for "Date", "Invoice Date", "Issued Date", etc.)
   - Line items in a table format (Description/Item Name, Quantity/Qty, Unit Price/Rate, Amount)
   - Tax amounts (GST, VAT, Sales Tax, etc.)
   - Subtotal and Total amounts
   - Any special notes or terms

4. For line items, extract:
   - Complete description (don't truncate)
   - Exact quantity (if not shown, assume 1)
   - Unit price (price per item, not total)

5. Return ONLY a JSON object in this EXACT format with no additional text:
{
  "vendor": "exact company name from invoice",
  "invoiceNumber": "exact invoice/receipt number",
  "date": "YYYY-MM-DD format",
  "tax": 0,
  "notes": "any terms, conditions, or special notes",
  "items": [
    {
      "description": "exact item/service description",
      "quantity": 0,
      "price": 0
    }
  ]
}

IMPORTANT:
- If a field is not visible or unclear, use empty string "" for text fields and 0 for numbers
- Ensure numbers are actual numbers, not strings
- Date must be in YYYY-MM-DD format (convert if needed)
- Extract ALL line items, not just the first one
- Be precise with decimal values`
