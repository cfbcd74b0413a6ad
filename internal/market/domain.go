package market

// Symbol is one watchlist entry.
type Symbol struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
}

// RawQuote is what a quote source returns before percent change is derived.
type RawQuote struct {
	Price         float64
	PreviousClose float64
}

// DefaultWatchlist is the set of NSE listings summarized for the assistant.
var DefaultWatchlist = []Symbol{
	{Symbol: "RELIANCE.NS", DisplayName: "Reliance Industries"},
	{Symbol: "TCS.NS", DisplayName: "Tata Consultancy Svcs"},
	{Symbol: "HDFCBANK.NS", DisplayName: "HDFC Bank"},
	{Symbol: "INFY.NS", DisplayName: "Infosys Ltd"},
	{Symbol: "ICICIBANK.NS", DisplayName: "ICICI Bank"},
	{Symbol: "TATAMOTORS.NS", DisplayName: "Tata Motors"},
	{Symbol: "SBIN.NS", DisplayName: "State Bank of India"},
}

// FallbackAdvisory replaces the snippet when no symbol resolved.
const FallbackAdvisory = "Live market data is currently unavailable. Do not quote specific current prices; tell the user that live quotes could not be retrieved."
