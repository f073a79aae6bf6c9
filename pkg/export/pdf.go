package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDF renders the dataset as a tabular PDF with an optional title.
func PDF(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Credential is one pupil's login card content.
type Credential struct {
	FullName     string
	Username     string
	Password     string
	WorkspaceURL string
}

// CredentialCards renders one login card per pupil, three to a page, for
// handing out in class.
func CredentialCards(title string, cards []Credential) ([]byte, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("no credentials to render")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for i, card := range cards {
		if i > 0 && i%3 == 0 {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		pdf.Rect(x, y, 180, 52, "D")
		pdf.SetXY(x+6, y+6)

		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, card.FullName, "", 1, "", false, 0, "")
		pdf.SetX(x + 6)
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, fmt.Sprintf("Login: %s", card.Username), "", 1, "", false, 0, "")
		pdf.SetX(x + 6)
		pdf.CellFormat(0, 8, fmt.Sprintf("Password: %s", card.Password), "", 1, "", false, 0, "")
		pdf.SetX(x + 6)
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, card.WorkspaceURL, "", 1, "", false, 0, "")

		pdf.SetXY(x, y+58)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render credential cards: %w", err)
	}
	return buf.Bytes(), nil
}
