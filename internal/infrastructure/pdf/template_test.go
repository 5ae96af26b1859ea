package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsales "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/infrastructure/config"
)

func testClinic() config.InvoiceConfig {
	return config.InvoiceConfig{
		ClinicName:    "Leaf to Life TCM Clinic",
		ClinicAddress: "21 Bukit Pasoh Road, Singapore 089835",
		ClinicPhone:   "+65 6221 1234",
		GSTNumber:     "M90312345A",
	}
}

func testInvoiceData() appsales.InvoiceData {
	return appsales.InvoiceData{
		InvoiceNumber:     "INV-2026-00042",
		TransactionNumber: "TXN-2026-00042",
		IssuedAt:          time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		PatientCode:       "P-0007",
		PatientName:       "Amelia Tan",
		Items: []appsales.InvoiceLineData{
			{
				Name:      "Chamomile Flowers",
				Quantity:  decimal.NewFromInt(50),
				Unit:      "g",
				UnitPrice: decimal.RequireFromString("0.25"),
				LineTotal: decimal.RequireFromString("12.50"),
			},
			{
				Name:      "Sleep Blend",
				Quantity:  decimal.NewFromInt(1),
				Unit:      "pack",
				UnitPrice: decimal.RequireFromString("28.00"),
				LineTotal: decimal.RequireFromString("28.00"),
			},
		},
		Subtotal:           decimal.RequireFromString("40.50"),
		MembershipDiscount: decimal.RequireFromString("4.05"),
		ManualDiscount:     decimal.Zero,
		Total:              decimal.RequireFromString("36.45"),
		PaymentMethod:      "paynow",
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML(testClinic(), testInvoiceData())
	require.NoError(t, err)

	assert.Contains(t, html, "Leaf to Life TCM Clinic")
	assert.Contains(t, html, "GST Reg No: M90312345A")
	assert.Contains(t, html, "INV-2026-00042")
	assert.Contains(t, html, "Ref: TXN-2026-00042")
	assert.Contains(t, html, "14 Mar 2026")
	assert.Contains(t, html, "Amelia Tan")
	assert.Contains(t, html, "(P-0007)")
	assert.Contains(t, html, "Chamomile Flowers")
	assert.Contains(t, html, "$12.50")
	assert.Contains(t, html, "$36.45")
	assert.Contains(t, html, "Membership Discount")
	assert.NotContains(t, html, ">Discount<", "zero manual discount should not render a row")
}

func TestRenderHTML_EscapesPatientName(t *testing.T) {
	data := testInvoiceData()
	data.PatientName = "<script>alert(1)</script>"

	html, err := renderHTML(testClinic(), data)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTML_OmitsGSTWhenUnset(t *testing.T) {
	clinic := testClinic()
	clinic.GSTNumber = ""

	html, err := renderHTML(clinic, testInvoiceData())
	require.NoError(t, err)

	assert.NotContains(t, html, "GST Reg No")
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(testClinic())
	defer r.Close()

	assert.Equal(t, defaultRenderTimeout, r.timeout)
	assert.NotNil(t, r.allocCtx)
}
