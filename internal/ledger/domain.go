package ledger

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one row of an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// ExtractedData is the structured body of an invoice, whether typed in or read from an image.
type ExtractedData struct {
	Vendor        string     `json:"vendor"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          string     `json:"date"`
	Items         []LineItem `json:"items"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	Notes         string     `json:"notes"`
}

// Invoice is a stored invoice row.
type Invoice struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	FileURL       string        `json:"file_url,omitempty" db:"file_url"`
	FileName      string        `json:"file_name" db:"file_name"`
	Vendor        string        `json:"vendor" db:"vendor"`
	Date          string        `json:"date" db:"date"`
	Total         float64       `json:"total" db:"total"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	ExtractedData ExtractedData `json:"extracted_data" db:"extracted_data"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// VendorTotal is the spend with one vendor.
type VendorTotal struct {
	Vendor string  `json:"vendor"`
	Total  float64 `json:"total"`
}

// MonthTotal is the spend in one calendar month, formatted YYYY-MM.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// SpendingSummary aggregates a user's invoices.
type SpendingSummary struct {
	TotalSpending float64       `json:"total_spending"`
	InvoiceCount  int           `json:"invoice_count"`
	ByVendor      []VendorTotal `json:"by_vendor"`
	ByMonth       []MonthTotal  `json:"by_month"`
}

// Subtotal is the sum of quantity times price over all items.
func (d ExtractedData) Subtotal() float64 {
	var sum float64
	for _, item := range d.Items {
		sum += item.Quantity * item.Price
	}
	return sum
}
