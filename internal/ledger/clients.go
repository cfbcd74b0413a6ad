package ledger

//go:generate mockgen -destination=./clients_mock_test.go -package=ledger -source=clients.go InvoiceReader

import "context"

// InvoiceReader turns an invoice image into the raw JSON described by the extraction prompt.
// llm.InvoiceExtractor satisfies it.
type InvoiceReader interface {
	ExtractInvoice(ctx context.Context, image []byte, mimeType string) (string, error)
}
