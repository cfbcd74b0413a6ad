package ledger

//go:generate mockgen -destination=./repository_mock_test.go -package=ledger -source=repository.go Repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Repository is the interface for invoice database operations.
type Repository interface {
	// CreateInvoice inserts a new invoice, assigning its ID and creation time.
	CreateInvoice(ctx context.Context, inv *Invoice) error
	// ListInvoices returns the user's invoices, newest first.
	ListInvoices(ctx context.Context, userID uuid.UUID) ([]Invoice, error)
	// DeleteInvoice removes one of the user's invoices.
	DeleteInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error
}

// postgresRepository is the concrete implementation of the Repository that uses Postgres.
type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository is the constructor for the repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{
		db: db,
	}
}

// CreateInvoice inserts a row into the invoices table. extracted_data is stored as jsonb.
func (pr *postgresRepository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()

	data, err := json.Marshal(inv.ExtractedData)
	if err != nil {
		return fmt.Errorf("could not encode extracted data: %w", err)
	}

	query := `
		INSERT INTO invoices (id, user_id, file_url, file_name, vendor, date, total, invoice_number, extracted_data)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = pr.db.QueryRowContext(ctx, query,
		inv.ID,
		inv.UserID,
		inv.FileURL,
		inv.FileName,
		inv.Vendor,
		inv.Date,
		inv.Total,
		inv.InvoiceNumber,
		data,
	).Scan(&inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert invoice: %w", err)
	}
	return nil
}

// ListInvoices implements the interface.
func (pr *postgresRepository) ListInvoices(ctx context.Context, userID uuid.UUID) ([]Invoice, error) {
	query := `
		SELECT id, user_id, COALESCE(file_url, ''), file_name, vendor, date, total, invoice_number,
		       extracted_data, created_at
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := pr.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []Invoice{}
	for rows.Next() {
		var inv Invoice
		var data []byte
		err := rows.Scan(&inv.ID, &inv.UserID, &inv.FileURL, &inv.FileName, &inv.Vendor, &inv.Date,
			&inv.Total, &inv.InvoiceNumber, &data, &inv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("could not scan invoice: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &inv.ExtractedData); err != nil {
				return nil, fmt.Errorf("could not decode extracted data for invoice %s: %w", inv.ID, err)
			}
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read invoices: %w", err)
	}
	return invoices, nil
}

// DeleteInvoice only deletes rows owned by userID.
func (pr *postgresRepository) DeleteInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error {
	res, err := pr.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, invoiceID, userID)
	if err != nil {
		return fmt.Errorf("could not delete invoice: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not delete invoice: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("invoice not found")
	}
	return nil
}
