package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// Report colors.
var (
	reportGold = RGB{240, 162, 2}
	reportNavy = RGB{32, 44, 89}
)

// RenderReport renders the private analyst report: an A4 document with the
// full free-text analysis split into paragraphs, the four-score grid, and
// the receipt lists restated for a gated audience.
func RenderReport(rev *domain.Review) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(50, 50, 50)
	doc.SetAutoPageBreak(true, 60)
	doc.AddPage()

	score := 0.0
	if rev.RatingScore != nil {
		score = *rev.RatingScore
	}
	analysis := rev.Analysis()

	// Header band
	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(reportNavy.R, reportNavy.G, reportNavy.B)
	doc.CellFormat(300, 22, "BODEGA RESEARCH", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(136, 136, 136)
	doc.CellFormat(0, 10, "REPORT DATE", "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(reportGold.R, reportGold.G, reportGold.B)
	doc.CellFormat(300, 14, "Web3 Due Diligence", "", 0, "L", false, 0, "")
	doc.SetTextColor(51, 51, 51)
	doc.CellFormat(0, 14, rev.CreatedAt.Format("January 2, 2006"), "", 1, "R", false, 0, "")
	doc.Ln(6)
	doc.SetDrawColor(reportGold.R, reportGold.G, reportGold.B)
	doc.SetLineWidth(2)
	y := doc.GetY()
	doc.Line(50, y, 545, y)
	doc.Ln(24)

	// Title
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(reportGold.R, reportGold.G, reportGold.B)
	doc.CellFormat(0, 12, "DUE DILIGENCE REPORT", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "B", 24)
	doc.SetTextColor(reportNavy.R, reportNavy.G, reportNavy.B)
	doc.CellFormat(0, 30, rev.ProjectName, "", 1, "C", false, 0, "")
	doc.Ln(6)
	doc.SetFont("Helvetica", "B", 14)
	doc.SetFillColor(reportNavy.R, reportNavy.G, reportNavy.B)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(0, 28, fmt.Sprintf("Overall Score: %.1f/10", score), "", 1, "C", true, 0, "")
	doc.Ln(18)

	if analysis != nil {
		scores := analysis.PublicReceipt.Scores
		reportScoreGrid(doc, scores)
		doc.Ln(18)

		reportSection(doc, "Executive Analysis")
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(51, 51, 51)
		for _, p := range splitParagraphs(analysis.PrivateReport) {
			doc.MultiCell(0, 16, p, "", "L", false)
			doc.Ln(8)
		}

		reportSection(doc, "Key Strengths")
		reportBullets(doc, "+", analysis.PublicReceipt.TheAlpha)

		reportSection(doc, "Areas of Concern")
		reportBullets(doc, "!", analysis.PublicReceipt.TheFriction)

		reportSection(doc, "Recommendations")
		for i, item := range analysis.PublicReceipt.Recommendations {
			doc.SetFont("Helvetica", "", 11)
			doc.SetTextColor(51, 51, 51)
			doc.CellFormat(20, 14, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
			doc.MultiCell(0, 14, item, "", "L", false)
			doc.Ln(4)
		}
	}

	// Footer on every page
	doc.SetFont("Helvetica", "", 8)
	doc.SetY(-45)
	doc.SetTextColor(136, 136, 136)
	doc.CellFormat(300, 12, fmt.Sprintf("(c) %d Bodega Research. All rights reserved.", time.Now().Year()), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 8)
	doc.SetTextColor(204, 0, 0)
	doc.CellFormat(0, 12, "CONFIDENTIAL", "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// reportSection prints a gold-underlined section title.
func reportSection(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(reportNavy.R, reportNavy.G, reportNavy.B)
	doc.CellFormat(0, 18, title, "", 1, "L", false, 0, "")
	doc.SetDrawColor(reportGold.R, reportGold.G, reportGold.B)
	doc.SetLineWidth(1)
	y := doc.GetY()
	doc.Line(50, y, 545, y)
	doc.Ln(12)
}

// reportScoreGrid prints the four per-category score cards side by side.
func reportScoreGrid(doc *fpdf.Fpdf, scores domain.ReceiptScores) {
	cards := []struct {
		label string
		value float64
	}{
		{"PRODUCT-MARKET FIT", scores.PMF},
		{"UI/UX QUALITY", scores.UI},
		{"SOCIAL SENTIMENT", scores.Sentiment},
		{"OVERALL", scores.Overall},
	}

	const cardW = 123.75 // (545-50)/4
	top := doc.GetY()
	doc.SetFillColor(248, 248, 248)
	doc.Rect(50, top, cardW*4, 56, "F")

	for i, card := range cards {
		x := 50 + cardW*float64(i)
		doc.SetXY(x, top+10)
		doc.SetFont("Helvetica", "", 8)
		doc.SetTextColor(102, 102, 102)
		doc.CellFormat(cardW, 10, card.label, "", 0, "C", false, 0, "")
		doc.SetXY(x, top+24)
		doc.SetFont("Helvetica", "B", 20)
		doc.SetTextColor(reportNavy.R, reportNavy.G, reportNavy.B)
		doc.CellFormat(cardW, 24, fmt.Sprintf("%.1f", card.value), "", 0, "C", false, 0, "")
	}
	doc.SetY(top + 56)
}

// reportBullets prints a glyph-bulleted list.
func reportBullets(doc *fpdf.Fpdf, glyph string, items []string) {
	for _, item := range items {
		doc.SetFont("Helvetica", "B", 11)
		doc.SetTextColor(reportGold.R, reportGold.G, reportGold.B)
		doc.CellFormat(20, 14, glyph, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(51, 51, 51)
		doc.MultiCell(0, 14, item, "", "L", false)
		doc.Ln(4)
	}
}
