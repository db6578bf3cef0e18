package invoice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/invoiceworks/backend-invoicing/internal/obs"
)

// RenderPDF produces the printable A4 document for one invoice.
func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		if obs.PDFRendersTotal != nil {
			obs.PDFRendersTotal.WithLabelValues("error").Inc()
		}
		return nil, "", err
	}
	data, err := renderPDF(inv, s.Company)
	if err != nil {
		if obs.PDFRendersTotal != nil {
			obs.PDFRendersTotal.WithLabelValues("error").Inc()
		}
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	if obs.PDFRendersTotal != nil {
		obs.PDFRendersTotal.WithLabelValues("ok").Inc()
	}
	return data, inv.InvoiceNumber + ".pdf", nil
}

func renderPDF(inv Invoice, company CompanyInfo) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	// seller block
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if company.Address != "" {
		pdf.CellFormat(0, 5, company.Address, "", 1, "C", false, 0, "")
	}
	if company.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+company.GSTIN, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "TAX INVOICE", "TB", 1, "C", false, 0, "")
	pdf.Ln(3)

	// invoice header
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+inv.Date, "", 1, "R", false, 0, "")
	billTo := inv.CustomerID
	if inv.CustomerName != nil {
		billTo = *inv.CustomerName
	}
	pdf.CellFormat(95, 6, "Bill To: "+billTo, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Due Date: "+inv.DueDate, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// item table
	widths := []float64{10, 75, 20, 25, 20, 15, 25}
	headers := []string{"#", "Description", "Qty", "Rate", "Disc %", "Tax %", "Amount"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for i, it := range inv.Items {
		discount := 0.0
		if it.Discount != nil {
			discount = *it.Discount
		}
		amount := 0.0
		if it.Amount != nil {
			amount = *it.Amount
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			it.Description,
			fmt.Sprintf("%.2f", it.Quantity),
			fmt.Sprintf("%.2f", it.UnitPrice),
			fmt.Sprintf("%.1f", discount),
			fmt.Sprintf("%.1f", it.TaxRate),
			fmt.Sprintf("%.2f", amount),
		}
		aligns := []string{"C", "L", "R", "R", "R", "R", "R"}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 6, c, "1", 0, aligns[j], false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	// totals block, right aligned
	currency := company.Currency
	if currency == "" {
		currency = "INR"
	}
	totalRow := func(label string, value float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%s %.2f", currency, value), "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal", inv.Subtotal, false)
	totalRow("Tax", inv.TaxAmount, false)
	totalRow("Total", inv.TotalAmount, true)
	if inv.AmountPaid != nil && *inv.AmountPaid > 0 {
		totalRow("Paid", *inv.AmountPaid, false)
	}
	if inv.BalanceDue != nil {
		totalRow("Balance Due", *inv.BalanceDue, true)
	}

	if inv.Notes != nil && *inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+*inv.Notes, "", "L", false)
	}
	if inv.Terms != nil && *inv.Terms != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(0, 4, "Terms: "+*inv.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
