// Package pdf renders fixed-layout quote and invoice documents for
// the dealership. Layout is single-page A4, absolute coordinates.
package pdf

import (
	"fmt"
	"strings"
	"time"
)

// Document types
const (
	TypeQuote   = "quote"
	TypeInvoice = "invoice"
)

type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"` // percent, e.g. 20 for 20%
}

func (it LineItem) Total() float64 {
	return float64(it.Quantity) * it.UnitPrice
}

func (it LineItem) TaxAmount() float64 {
	return it.Total() * it.TaxRate / 100
}

type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type VehicleInfo struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Registration string `json:"registration"`
	Mileage      int    `json:"mileage"`
}

type Document struct {
	Type     string       `json:"type"`
	Number   string       `json:"number"`
	Date     time.Time    `json:"date"`
	Company  Party        `json:"company"`
	Customer Party        `json:"customer"`
	Vehicle  *VehicleInfo `json:"vehicle,omitempty"`
	Items    []LineItem   `json:"items"`
	Notes    string       `json:"notes"`
	Terms    string       `json:"terms"`
}

// Validate fails fast on malformed input so no drawing starts on a
// document that cannot be completed.
func (d Document) Validate() error {
	if d.Type != TypeQuote && d.Type != TypeInvoice {
		return fmt.Errorf("unknown document type %q", d.Type)
	}
	if d.Number == "" {
		return fmt.Errorf("document number is required")
	}
	if d.Company.Name == "" {
		return fmt.Errorf("company name is required")
	}
	if d.Customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	for i, it := range d.Items {
		if it.Description == "" {
			return fmt.Errorf("item %d: description is required", i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if it.UnitPrice < 0 || it.TaxRate < 0 {
			return fmt.Errorf("item %d: negative amount", i+1)
		}
	}
	return nil
}

// Totals returns the untaxed total, tax amount and grand total.
func Totals(items []LineItem) (ht, tva, ttc float64) {
	for _, it := range items {
		ht += it.Total()
		tva += it.TaxAmount()
	}
	return ht, tva, ht + tva
}

// Title returns the printed document heading.
func (d Document) Title() string {
	if d.Type == TypeQuote {
		return "DEVIS"
	}
	return "FACTURE"
}

// transliterations maps accented Latin characters onto the ASCII
// equivalents the core PDF fonts can encode.
var transliterations = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A", 'Å': "A",
	'ç': "c", 'Ç': "C",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'ñ': "n", 'Ñ': "N",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U",
	'ý': "y", 'ÿ': "y", 'Ý': "Y",
	'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ß': "ss",
	'€': "EUR", '£': "GBP",
	'’': "'", '‘': "'", '“': "\"", '”': "\"",
	'–': "-", '—': "-", '…': "...",
	'°': " ", ' ': " ", // non-breaking space
}

// CleanText transliterates free text to the ASCII subset the page
// fonts encode. Characters with no mapping that are also outside
// printable ASCII are replaced with '?' and reported in the returned
// error; the cleaned string is usable either way.
func CleanText(s string) (string, error) {
	var b strings.Builder
	var bad []rune
	for _, r := range s {
		if mapped, ok := transliterations[r]; ok {
			b.WriteString(mapped)
			continue
		}
		if r == '\n' || r == '\t' || (r >= 0x20 && r <= 0x7e) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('?')
		bad = append(bad, r)
	}
	if len(bad) > 0 {
		return b.String(), fmt.Errorf("unmappable characters: %q", string(bad))
	}
	return b.String(), nil
}
