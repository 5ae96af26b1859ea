// Package pdf renders invoice PDFs through a headless Chrome instance.
package pdf

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	appsales "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/infrastructure/config"
)

// invoiceModel is the merged render model: the invoice data plus the
// clinic letterhead from configuration.
type invoiceModel struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	GSTNumber     string

	InvoiceNumber      string
	TransactionNumber  string
	IssuedAt           string
	PatientCode        string
	PatientName        string
	Items              []invoiceLineModel
	Subtotal           string
	MembershipDiscount string
	ManualDiscount     string
	Total              string
	PaymentMethod      string
}

type invoiceLineModel struct {
	Name      string
	Quantity  string
	Unit      string
	UnitPrice string
	LineTotal string
}

const invoiceDateLayout = "2 Jan 2006"

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; margin: 0; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #2c6e49; padding-bottom: 12px; }
  .clinic { font-size: 11px; color: #555; }
  .clinic h1 { font-size: 18px; color: #2c6e49; margin: 0 0 4px 0; }
  .meta { text-align: right; }
  .meta .number { font-size: 16px; font-weight: bold; }
  .patient { margin: 16px 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  th { text-align: left; border-bottom: 1px solid #999; padding: 6px 4px; font-size: 11px; text-transform: uppercase; color: #555; }
  td { padding: 6px 4px; border-bottom: 1px solid #eee; }
  .num { text-align: right; }
  .totals { margin-top: 12px; margin-left: auto; width: 260px; }
  .totals td { border: none; padding: 3px 4px; }
  .totals .grand td { border-top: 1px solid #999; font-weight: bold; font-size: 14px; }
  .footer { margin-top: 24px; font-size: 10px; color: #888; }
</style>
</head>
<body>
  <div class="header">
    <div class="clinic">
      <h1>{{.ClinicName}}</h1>
      <div>{{.ClinicAddress}}</div>
      <div>{{.ClinicPhone}}</div>
      {{if .GSTNumber}}<div>GST Reg No: {{.GSTNumber}}</div>{{end}}
    </div>
    <div class="meta">
      <div class="number">{{.InvoiceNumber}}</div>
      <div>{{.IssuedAt}}</div>
      <div>Ref: {{.TransactionNumber}}</div>
    </div>
  </div>

  <div class="patient">
    <strong>{{.PatientName}}</strong>{{if .PatientCode}} ({{.PatientCode}}){{end}}
  </div>

  <table>
    <thead>
      <tr>
        <th>Item</th>
        <th class="num">Qty</th>
        <th class="num">Unit Price</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td class="num">{{.Quantity}} {{.Unit}}</td>
        <td class="num">${{.UnitPrice}}</td>
        <td class="num">${{.LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Subtotal</td><td class="num">${{.Subtotal}}</td></tr>
    {{if .MembershipDiscount}}<tr><td>Membership Discount</td><td class="num">-${{.MembershipDiscount}}</td></tr>{{end}}
    {{if .ManualDiscount}}<tr><td>Discount</td><td class="num">-${{.ManualDiscount}}</td></tr>{{end}}
    <tr class="grand"><td>Total (SGD)</td><td class="num">${{.Total}}</td></tr>
    <tr><td>Paid by</td><td class="num">{{.PaymentMethod}}</td></tr>
  </table>

  <div class="footer">
    This invoice was generated electronically and is valid without a signature.
  </div>
</body>
</html>
`))

// renderHTML produces the invoice HTML document for PrintToPDF
func renderHTML(clinic config.InvoiceConfig, data appsales.InvoiceData) (string, error) {
	model := invoiceModel{
		ClinicName:        clinic.ClinicName,
		ClinicAddress:     clinic.ClinicAddress,
		ClinicPhone:       clinic.ClinicPhone,
		GSTNumber:         clinic.GSTNumber,
		InvoiceNumber:     data.InvoiceNumber,
		TransactionNumber: data.TransactionNumber,
		IssuedAt:          data.IssuedAt.Format(invoiceDateLayout),
		PatientCode:       data.PatientCode,
		PatientName:       data.PatientName,
		Items:             make([]invoiceLineModel, len(data.Items)),
		Subtotal:          data.Subtotal.StringFixed(2),
		MembershipDiscount: formatDiscount(data.MembershipDiscount),
		ManualDiscount:    formatDiscount(data.ManualDiscount),
		Total:             data.Total.StringFixed(2),
		PaymentMethod:     data.PaymentMethod,
	}
	if model.IssuedAt == "" || data.IssuedAt.IsZero() {
		model.IssuedAt = time.Now().Format(invoiceDateLayout)
	}

	for i, item := range data.Items {
		model.Items[i] = invoiceLineModel{
			Name:      item.Name,
			Quantity:  item.Quantity.String(),
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: item.LineTotal.StringFixed(2),
		}
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, model); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatDiscount renders a discount amount, or empty when there is none so
// the template can drop the row entirely.
func formatDiscount(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return amount.StringFixed(2)
}
