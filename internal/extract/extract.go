package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls readable text out of an uploaded document.
type Extractor interface {
	ExtractText(ctx context.Context, fileName string, data []byte) (string, error)
}

// FailureMessage is shown to the user when a document cannot be read.
const FailureMessage = "Failed to extract text from PDF. Please ensure the file is a valid PDF."

// ExtractionError means the document could not be read. The chat turn carries on without its text.
type ExtractionError struct {
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract text from %q: %v", e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsPDF reports whether an upload should go through PDF text extraction.
func IsPDF(fileName, mimeType string) bool {
	return mimeType == "application/pdf" || strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

// IsImage reports whether an upload can be forwarded to a vision model.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

type pdfExtractor struct{}

// NewPDFExtractor creates an Extractor for PDF files.
func NewPDFExtractor() Extractor {
	return &pdfExtractor{}
}

// ExtractText joins the text of every page, pages separated by a blank line.
func (x *pdfExtractor) ExtractText(ctx context.Context, fileName string, data []byte) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", &ExtractionError{FileName: fileName, Err: fmt.Errorf("malformed pdf: %v", rec)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{FileName: fileName, Err: err}
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", &ExtractionError{FileName: fileName, Err: err}
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{FileName: fileName, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}
