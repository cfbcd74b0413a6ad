package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LogConfig is shared by every service.
type LogConfig struct {
	Level string
	JSON  bool
}

// LLMConfig holds the chat provider selection and the credentials for every backend.
// Keys are not validated here; the dispatcher refuses to send with a missing or placeholder key.
type LLMConfig struct {
	Provider string

	OpenRouterAPIKey      string
	OpenRouterModel       string
	OpenRouterVisionModel string
	AppOrigin             string

	GroqAPIKey      string
	GroqModel       string
	GroqVisionModel string

	GeminiAPIKey string
	GeminiModel  string

	Timeout time.Duration
}

// MarketConfig selects the quote source used for the assistant's market context.
type MarketConfig struct {
	QuoteProvider      string
	FinnhubAPIKey      string
	AlphaVantageAPIKey string
	MaxConcurrency     int
}

// StoreConfig selects where chat messages are persisted for signed-in users.
type StoreConfig struct {
	Backend          string
	DBConnString     string
	DynamoDBTable    string
	DynamoDBEndpoint string
	AWSRegion        string
	BoltPath         string
}

// AssistantConfig holds configuration for the assistant service.
type AssistantConfig struct {
	Port   string
	Log    LogConfig
	LLM    LLMConfig
	Market MarketConfig
	Store  StoreConfig
}

// LedgerConfig holds configuration for the ledger service.
type LedgerConfig struct {
	Port         string
	Log          LogConfig
	DBConnString string
	GeminiAPIKey string
	GeminiModel  string
}

// LoadAssistantConfig reads assistant configuration from environment variables.
func LoadAssistantConfig() (AssistantConfig, error) {
	provider := strings.ToLower(envOrDefault("CHAT_PROVIDER", "openrouter"))
	switch provider {
	case "openrouter", "groq", "gemini", "stub":
	default:
		return AssistantConfig{}, fmt.Errorf("CHAT_PROVIDER must be one of openrouter, groq, gemini, stub (got %q)", provider)
	}

	quoteProvider := strings.ToLower(envOrDefault("QUOTE_PROVIDER", "finnhub"))
	switch quoteProvider {
	case "finnhub", "alphavantage", "stub":
	default:
		return AssistantConfig{}, fmt.Errorf("QUOTE_PROVIDER must be one of finnhub, alphavantage, stub (got %q)", quoteProvider)
	}

	timeout := envIntOrDefault("PROVIDER_TIMEOUT_SECONDS", 60)
	if timeout <= 0 {
		return AssistantConfig{}, fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive (got %d)", timeout)
	}

	store, err := loadStoreConfig()
	if err != nil {
		return AssistantConfig{}, err
	}

	return AssistantConfig{
		Port: envOrDefault("PORT", "8083"),
		Log:  loadLogConfig(),
		LLM: LLMConfig{
			Provider:              provider,
			OpenRouterAPIKey:      os.Getenv("OPENROUTER_API_KEY"),
			OpenRouterModel:       envOrDefault("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct:free"),
			OpenRouterVisionModel: envOrDefault("OPENROUTER_VISION_MODEL", "google/gemini-2.0-flash-exp:free"),
			AppOrigin:             envOrDefault("APP_ORIGIN", "http://localhost:5173"),
			GroqAPIKey:            os.Getenv("GROQ_API_KEY"),
			GroqModel:             envOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
			GroqVisionModel:       envOrDefault("GROQ_VISION_MODEL", "llama-4-maverick-17b-128e-instruct"),
			GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
			GeminiModel:           envOrDefault("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			Timeout:               time.Duration(timeout) * time.Second,
		},
		Market: MarketConfig{
			QuoteProvider:      quoteProvider,
			FinnhubAPIKey:      os.Getenv("FINNHUB_API_KEY"),
			AlphaVantageAPIKey: os.Getenv("ALPHAVANTAGE_API_KEY"),
			MaxConcurrency:     envIntOrDefault("MARKET_MAX_CONCURRENCY", 7),
		},
		Store: store,
	}, nil
}

// LoadLedgerConfig reads ledger configuration from environment variables.
func LoadLedgerConfig() (LedgerConfig, error) {
	connStr := os.Getenv("DB_CONNECTION_STRING")
	if connStr == "" {
		return LedgerConfig{}, fmt.Errorf("DB_CONNECTION_STRING is required in environment")
	}
	return LedgerConfig{
		Port:         envOrDefault("PORT", "8080"),
		Log:          loadLogConfig(),
		DBConnString: connStr,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOrDefault("GEMINI_MODEL", "gemini-2.0-flash-exp"),
	}, nil
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level: envOrDefault("LOG_LEVEL", "info"),
		JSON:  envBoolOrDefault("LOG_JSON", false),
	}
}

func loadStoreConfig() (StoreConfig, error) {
	cfg := StoreConfig{
		Backend:          strings.ToLower(envOrDefault("MESSAGE_STORE", "none")),
		DBConnString:     os.Getenv("DB_CONNECTION_STRING"),
		DynamoDBTable:    envOrDefault("DYNAMODB_TABLE", "ChatMessages"),
		DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		AWSRegion:        envOrDefault("AWS_REGION", "ap-south-1"),
		BoltPath:         envOrDefault("BOLT_PATH", "data/chat.bolt"),
	}

	switch cfg.Backend {
	case "none", "dynamodb", "bolt":
	case "postgres":
		if cfg.DBConnString == "" {
			return StoreConfig{}, fmt.Errorf("DB_CONNECTION_STRING is required in environment when MESSAGE_STORE=postgres")
		}
	default:
		return StoreConfig{}, fmt.Errorf("MESSAGE_STORE must be one of none, postgres, dynamodb, bolt (got %q)", cfg.Backend)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}
