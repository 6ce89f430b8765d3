// Package render produces printable artifacts from ledger records,
// currently a single-invoice PDF document.
package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/openbilling/invoiceledger/internal/calculator"
	"github.com/openbilling/invoiceledger/internal/models"
)

const (
	pageBreakAt = 260.0 // mm from top, leaves room for the footer
	rowHeight   = 8.0
)

// column widths of the line-item table in mm, A4 portrait is 210mm wide
// with 10mm margins on either side.
var colWidths = [4]float64{90, 25, 35, 40}

// InvoicePDF renders the invoice as an A4 PDF and returns the document
// bytes. Long invoices paginate, repeating the table header on each
// page.
func InvoicePDF(inv *models.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	writeHeader(pdf, inv)
	writeTableHead(pdf)

	for _, line := range inv.Lines {
		if pdf.GetY() > pageBreakAt {
			pdf.AddPage()
			writeTableHead(pdf)
		}
		total := calculator.LineTotal(line.UnitPrice, line.Quantity, line.Discount)
		pdf.CellFormat(colWidths[0], rowHeight, line.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], rowHeight, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], rowHeight, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], rowHeight, total.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	writeSummary(pdf, inv)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", inv.No, err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, inv *models.Invoice) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, fmt.Sprintf("Invoice %s", inv.No), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Date: "+inv.CreatedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+string(inv.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if inv.Customer != nil {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, inv.Customer.Name, "", 1, "L", false, 0, "")
		if inv.Customer.Address != "" {
			pdf.CellFormat(0, 6, inv.Customer.Address, "", 1, "L", false, 0, "")
		}
		if inv.Customer.Email != "" {
			pdf.CellFormat(0, 6, inv.Customer.Email, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)
}

func writeTableHead(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colWidths[0], rowHeight, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWidths[1], rowHeight, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colWidths[2], rowHeight, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colWidths[3], rowHeight, "Total", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func writeSummary(pdf *fpdf.Fpdf, inv *models.Invoice) {
	subtotal := inv.Amount.Sub(inv.Tax)
	labelWidth := colWidths[0] + colWidths[1] + colWidths[2]

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(labelWidth, rowHeight, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], rowHeight, subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(labelWidth, rowHeight, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], rowHeight, inv.Tax.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelWidth, rowHeight, "Total Due", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], rowHeight, inv.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
}
