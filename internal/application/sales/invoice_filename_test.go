package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilenamePart(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"passes through plain codes", "P-0042", "P-0042"},
		{"replaces spaces with hyphens", "Tan Mei Ling", "Tan-Mei-Ling"},
		{"strips diacritics", "Zoë Müller", "Zoe-Muller"},
		{"drops punctuation", "A/B\\C:D*E?", "ABCDE"},
		{"drops path separators", "../../etc/passwd", "etcpasswd"},
		{"trims leading and trailing hyphens", " -P-0042- ", "P-0042"},
		{"empty input stays empty", "", ""},
		{"non-latin input collapses", "顾客", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilenamePart(tt.input))
		})
	}
}

func TestInvoiceObjectKey(t *testing.T) {
	assert.Equal(t, "invoices/INV-2026-00001-P-0042.pdf", InvoiceObjectKey("INV-2026-00001", "P-0042"))
	assert.Equal(t, "invoices/INV-2026-00001.pdf", InvoiceObjectKey("INV-2026-00001", ""))
	assert.Equal(t, "invoices/INV-2026-00001-P0001.pdf", InvoiceObjectKey("INV-2026-00001", "P/0001"))
}

func TestInvoiceFilename(t *testing.T) {
	assert.Equal(t, "INV-2026-00001-P-0042.pdf", InvoiceFilename("INV-2026-00001", "P-0042"))
}
