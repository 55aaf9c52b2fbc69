package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Generator renders documents. Transliteration warnings are logged,
// never fatal.
type Generator struct {
	log *zap.Logger
}

func NewGenerator(log *zap.Logger) *Generator {
	return &Generator{log: log}
}

// Page geometry, millimeters on A4 (210 x 297).
const (
	pageWidth  = 210.0
	marginLeft = 15.0
	marginTop  = 15.0
	usableW    = pageWidth - 2*marginLeft
)

// Generate lays out a single-page document and returns the PDF bytes.
// Input is validated before any drawing starts.
func (g *Generator) Generate(doc Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	clean := func(s string) string {
		out, err := CleanText(s)
		if err != nil {
			g.log.Warn("document text transliteration", zap.String("number", doc.Number), zap.Error(err))
		}
		return out
	}

	p := fpdf.New("P", "mm", "A4", "")
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	// Header band
	p.SetFillColor(24, 48, 84)
	p.Rect(0, 0, pageWidth, 28, "F")
	p.SetTextColor(255, 255, 255)
	p.SetFont("Helvetica", "B", 18)
	p.SetXY(marginLeft, 8)
	p.CellFormat(100, 10, clean(doc.Company.Name), "", 0, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.SetXY(pageWidth-90, 6)
	p.MultiCell(75, 4.5, clean(doc.Company.Address+"\n"+doc.Company.Email+"\n"+doc.Company.Phone), "", "R", false)

	// Title + number + date
	p.SetTextColor(24, 48, 84)
	p.SetFont("Helvetica", "B", 22)
	p.SetXY(marginLeft, 36)
	p.CellFormat(usableW, 10, clean(doc.Title()+" "+doc.Number), "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(90, 90, 90)
	p.SetXY(marginLeft, 46)
	p.CellFormat(usableW, 6, "Date : "+doc.Date.Format("02/01/2006"), "", 1, "L", false, 0, "")

	// Customer block
	y := 58.0
	p.SetFont("Helvetica", "B", 11)
	p.SetTextColor(0, 0, 0)
	p.SetXY(marginLeft, y)
	p.CellFormat(90, 6, "Client", "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.SetXY(marginLeft, y+6)
	p.MultiCell(90, 5, clean(doc.Customer.Name+"\n"+doc.Customer.Address+"\n"+doc.Customer.Email+"\n"+doc.Customer.Phone), "", "L", false)

	// Vehicle block
	if doc.Vehicle != nil {
		v := doc.Vehicle
		p.SetFont("Helvetica", "B", 11)
		p.SetXY(pageWidth/2+5, y)
		p.CellFormat(80, 6, "Vehicule", "", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "", 10)
		p.SetXY(pageWidth/2+5, y+6)
		info := fmt.Sprintf("%s %s (%d)\nImmatriculation : %s\nKilometrage : %d km",
			v.Make, v.Model, v.Year, v.Registration, v.Mileage)
		p.MultiCell(80, 5, clean(info), "", "L", false)
	}

	// Line-item table
	y = 100.0
	const (
		colDesc  = 85.0
		colQty   = 18.0
		colPrice = 28.0
		colTax   = 20.0
		colTotal = 29.0
	)
	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(24, 48, 84)
	p.SetTextColor(255, 255, 255)
	p.SetXY(marginLeft, y)
	p.CellFormat(colDesc, 8, "Description", "", 0, "L", true, 0, "")
	p.CellFormat(colQty, 8, "Qte", "", 0, "C", true, 0, "")
	p.CellFormat(colPrice, 8, "Prix unit. HT", "", 0, "R", true, 0, "")
	p.CellFormat(colTax, 8, "TVA %", "", 0, "R", true, 0, "")
	p.CellFormat(colTotal, 8, "Total HT", "", 1, "R", true, 0, "")

	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(0, 0, 0)
	for i, it := range doc.Items {
		fill := i%2 == 1
		p.SetFillColor(238, 241, 246)
		p.SetX(marginLeft)
		p.CellFormat(colDesc, 7, clean(it.Description), "", 0, "L", fill, 0, "")
		p.CellFormat(colQty, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "C", fill, 0, "")
		p.CellFormat(colPrice, 7, money(it.UnitPrice), "", 0, "R", fill, 0, "")
		p.CellFormat(colTax, 7, fmt.Sprintf("%.1f", it.TaxRate), "", 0, "R", fill, 0, "")
		p.CellFormat(colTotal, 7, money(it.Total()), "", 1, "R", fill, 0, "")
	}

	// Totals
	ht, tva, ttc := Totals(doc.Items)
	y = p.GetY() + 6
	labelX := marginLeft + colDesc + colQty
	p.SetXY(labelX, y)
	p.CellFormat(colPrice+colTax, 7, "Total HT", "", 0, "R", false, 0, "")
	p.CellFormat(colTotal, 7, money(ht), "", 1, "R", false, 0, "")
	p.SetX(labelX)
	p.CellFormat(colPrice+colTax, 7, "TVA", "", 0, "R", false, 0, "")
	p.CellFormat(colTotal, 7, money(tva), "", 1, "R", false, 0, "")
	p.SetFont("Helvetica", "B", 11)
	p.SetX(labelX)
	p.CellFormat(colPrice+colTax, 8, "Total TTC", "T", 0, "R", false, 0, "")
	p.CellFormat(colTotal, 8, money(ttc), "T", 1, "R", false, 0, "")

	// Notes and terms
	y = p.GetY() + 10
	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(70, 70, 70)
	if doc.Notes != "" {
		p.SetXY(marginLeft, y)
		p.MultiCell(usableW, 4.5, clean("Remarques : "+doc.Notes), "", "L", false)
		y = p.GetY() + 3
	}
	if doc.Terms != "" {
		p.SetXY(marginLeft, y)
		p.MultiCell(usableW, 4.5, clean(doc.Terms), "", "L", false)
	}

	// Footer
	p.SetFont("Helvetica", "I", 8)
	p.SetTextColor(130, 130, 130)
	p.SetXY(marginLeft, 282)
	p.CellFormat(usableW, 5, clean(doc.Company.Name+" - document genere par MKB Pilot"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f EUR", v)
}
