package infra

// pdf.go — monthly inventory valuation report built with go-pdf/fpdf.
// One row per active lot holding stock: product, lot number, expiry,
// units on hand, unit cost and line value, with a grand total at the end.
// The output file is saved to storagePath/inventory_{YYYY_MM}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rambopet/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateInventoryReportPDF renders the valuation report for the given lots
// and returns the absolute path to the generated file.
func GenerateInventoryReportPDF(lots []model.Lot, clinicName, storagePath string, asOf time.Time) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("inventory_%s.pdf", asOf.Format("2006_01"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, clinicName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Inventory Valuation Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "As of "+asOf.Format("02 Jan 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ──────────────────────────────────────────────────────────
	colProduct := contentW * 0.30
	colLot := contentW * 0.16
	colExpiry := contentW * 0.14
	colUnits := contentW * 0.10
	colCost := contentW * 0.14
	colValue := contentW * 0.16

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(colProduct, 6, "Product", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colLot, 6, "Lot", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colExpiry, 6, "Expires", "B", 0, "C", false, 0, "")
		pdf.CellFormat(colUnits, 6, "Units", "B", 0, "R", false, 0, "")
		pdf.CellFormat(colCost, 6, "Unit Cost", "B", 0, "R", false, 0, "")
		pdf.CellFormat(colValue, 6, "Value", "B", 1, "R", false, 0, "")
	}
	drawHeader()

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	total := decimal.Zero
	for _, lot := range lots {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Helvetica", "", 8)
		}

		name := ""
		if lot.Product != nil {
			name = lot.Product.Name
		}
		if len(name) > 34 {
			name = name[:33] + "…"
		}

		cost := decimal.Zero
		if lot.PurchasePrice != nil {
			cost = *lot.PurchasePrice
		}
		value := cost.Mul(decimal.NewFromInt(int64(lot.CurrentStock)))
		total = total.Add(value)

		pdf.CellFormat(colProduct, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colLot, 5, lot.LotNumber, "", 0, "L", false, 0, "")
		pdf.CellFormat(colExpiry, 5, lot.ExpiresAt.Format("02/01/2006"), "", 0, "C", false, 0, "")
		pdf.CellFormat(colUnits, 5, fmt.Sprintf("%d", lot.CurrentStock), "", 0, "R", false, 0, "")
		pdf.CellFormat(colCost, 5, "$"+cost.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colValue, 5, "$"+value.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-colValue, 7, "TOTAL VALUATION:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colValue, 7, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
