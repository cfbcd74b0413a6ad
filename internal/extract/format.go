package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxDocumentChars caps how much extracted text is forwarded to the model.
const MaxDocumentChars = 8000

const truncationMarker = "\n\n[... text truncated due to length ...]"

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	wideSpace  = regexp.MustCompile(`[ \t]{2,}`)
)

// FormatForAI cleans up extracted document text and wraps it in the upload prompt.
func FormatForAI(text, fileName string) string {
	cleaned := blankLines.ReplaceAllString(text, "\n\n")
	cleaned = wideSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if runes := []rune(cleaned); len(runes) > MaxDocumentChars {
		cleaned = string(runes[:MaxDocumentChars]) + truncationMarker
	}

	return fmt.Sprintf("I've uploaded a PDF file named %q. Here is the extracted text content:\n\n---\n%s\n---\n\nPlease analyze this document and provide insights about the financial information contained within.", fileName, cleaned)
}
