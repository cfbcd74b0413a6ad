package ledger

//go:generate mockgen -destination=./service_mock_test.go -package=ledger -source=service.go Service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is the interface for the ledger's business logic.
type Service interface {
	SaveManualInvoice(ctx context.Context, userID uuid.UUID, input ManualInvoiceInput) (*Invoice, error)
	ListInvoices(ctx context.Context, userID uuid.UUID) ([]Invoice, error)
	DeleteInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID) (*SpendingSummary, error)
	// ExtractInvoice reads an invoice image into structured fields. Nothing is stored.
	ExtractInvoice(ctx context.Context, image []byte, mimeType string) (*ExtractedData, error)
}

// ManualInvoiceInput is a typed-in invoice.
type ManualInvoiceInput struct {
	Vendor        string     `json:"vendor"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Date          string     `json:"date"`
	Items         []LineItem `json:"items"`
	Tax           float64    `json:"tax"`
	Notes         string     `json:"notes"`
}

const dateLayout = "2006-01-02"

type service struct {
	repo   Repository
	reader InvoiceReader
	log    *slog.Logger
}

// NewService is the constructor for the service.
func NewService(repo Repository, reader InvoiceReader, log *slog.Logger) Service {
	return &service{
		repo:   repo,
		reader: reader,
		log:    log,
	}
}

// SaveManualInvoice validates the input, computes the total and stores it.
func (s *service) SaveManualInvoice(ctx context.Context, userID uuid.UUID, input ManualInvoiceInput) (*Invoice, error) {
	vendor := strings.TrimSpace(input.Vendor)
	number := strings.TrimSpace(input.InvoiceNumber)
	if vendor == "" || number == "" {
		return nil, fmt.Errorf("missing vendor or invoice number")
	}

	date := input.Date
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid invoice date")
	}

	data := ExtractedData{
		Vendor:        vendor,
		InvoiceNumber: number,
		Date:          date,
		Items:         input.Items,
		Tax:           input.Tax,
		Notes:         input.Notes,
	}
	if data.Items == nil {
		data.Items = []LineItem{}
	}
	data.Total = data.Subtotal() + data.Tax

	inv := &Invoice{
		UserID:        userID,
		FileName:      "Manual Entry - " + number,
		Vendor:        vendor,
		Date:          date,
		Total:         data.Total,
		InvoiceNumber: number,
		ExtractedData: data,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("could not save invoice: %w", err)
	}
	s.log.Info("invoice saved", "user_id", userID, "invoice_id", inv.ID, "total", inv.Total)
	return inv, nil
}

func (s *service) ListInvoices(ctx context.Context, userID uuid.UUID) ([]Invoice, error) {
	return s.repo.ListInvoices(ctx, userID)
}

// DeleteInvoice passes repository errors such as "invoice not found" through unchanged.
func (s *service) DeleteInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, userID, invoiceID)
}

// Summary totals the user's invoices overall, per vendor and per month.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SpendingSummary, error) {
	invoices, err := s.repo.ListInvoices(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load invoices: %w", err)
	}
	return summarize(invoices), nil
}

func summarize(invoices []Invoice) *SpendingSummary {
	summary := &SpendingSummary{
		InvoiceCount: len(invoices),
		ByVendor:     []VendorTotal{},
		ByMonth:      []MonthTotal{},
	}
	vendors := map[string]float64{}
	months := map[string]float64{}
	for _, inv := range invoices {
		summary.TotalSpending += inv.Total
		vendors[inv.Vendor] += inv.Total
		months[invoiceMonth(inv)] += inv.Total
	}

	for v, total := range vendors {
		summary.ByVendor = append(summary.ByVendor, VendorTotal{Vendor: v, Total: total})
	}
	sort.Slice(summary.ByVendor, func(i, j int) bool {
		a, b := summary.ByVendor[i], summary.ByVendor[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Vendor < b.Vendor
	})

	for m, total := range months {
		summary.ByMonth = append(summary.ByMonth, MonthTotal{Month: m, Total: total})
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})
	return summary
}

// invoiceMonth uses the invoice date, falling back to when the row was created.
func invoiceMonth(inv Invoice) string {
	if d, err := time.Parse(dateLayout, inv.Date); err == nil {
		return d.Format("2006-01")
	}
	return inv.CreatedAt.UTC().Format("2006-01")
}

// ExtractInvoice asks the vision model for the invoice fields and parses its JSON answer.
func (s *service) ExtractInvoice(ctx context.Context, image []byte, mimeType string) (*ExtractedData, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty invoice image")
	}
	raw, err := s.reader.ExtractInvoice(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("could not extract invoice: %w", err)
	}

	var data ExtractedData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.log.Warn("invoice extraction returned malformed json", "error", err)
		return nil, fmt.Errorf("could not parse extracted invoice: %w", err)
	}
	if data.Items == nil {
		data.Items = []LineItem{}
	}
	data.Total = data.Subtotal() + data.Tax
	return &data, nil
}
