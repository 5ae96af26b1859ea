package sales

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// invoicePrefix is the object-key prefix all invoice PDFs are stored under
const invoicePrefix = "invoices/"

// SanitizeFilenamePart normalizes a string for use in an invoice filename:
// diacritics are stripped, whitespace becomes hyphens, and anything outside
// [A-Za-z0-9_-] is dropped.
func SanitizeFilenamePart(s string) string {
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition
		case r == ' ' || r == '\t':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "-")
}

// InvoiceObjectKey returns the deterministic storage key for an invoice PDF:
// invoices/INV-YYYY-NNNNN-<patient-code>.pdf
func InvoiceObjectKey(invoiceNumber, patientCode string) string {
	name := SanitizeFilenamePart(invoiceNumber)
	if code := SanitizeFilenamePart(patientCode); code != "" {
		name = name + "-" + code
	}
	return fmt.Sprintf("%s%s.pdf", invoicePrefix, name)
}

// InvoiceFilename returns the attachment filename for an invoice PDF
func InvoiceFilename(invoiceNumber, patientCode string) string {
	return strings.TrimPrefix(InvoiceObjectKey(invoiceNumber, patientCode), invoicePrefix)
}
