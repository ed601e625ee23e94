package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// Receipt page geometry, in points. The page is deliberately narrow to read
// like a printed store receipt.
const (
	receiptPageW  = 300
	receiptPageH  = 840
	receiptMargin = 20
)

// RenderInfographic renders the public receipt PDF for a review. The first
// page carries identity, verdict, the three receipt lists, optional market
// intel, and the per-category breakdown; a second page is added only when
// the analyst's own take or market-trend data is present.
func RenderInfographic(rev *domain.Review, baseURL string) ([]byte, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: receiptPageW, Ht: receiptPageH},
	})
	doc.SetMargins(receiptMargin, receiptMargin, receiptMargin)
	doc.SetAutoPageBreak(true, receiptMargin)
	doc.AddPage()

	score := 0.0
	if rev.RatingScore != nil {
		score = *rev.RatingScore
	}
	verdict := ScoreVerdict(score)
	verdictColor := ScoreColor(score)
	notes := rev.Notes()
	analysis := rev.Analysis()

	// Header
	doc.SetFont("Courier", "B", 16)
	doc.SetTextColor(26, 26, 26)
	doc.CellFormat(0, 20, "BODEGA RESEARCH", "", 1, "C", false, 0, "")
	doc.SetFont("Courier", "", 8)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(0, 12, "*** WEB3 DUE DILIGENCE ***", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 12, domain.ReviewDate(rev.CreatedAt), "", 1, "C", false, 0, "")
	receiptDivider(doc)

	// Project name
	doc.SetFont("Courier", "B", 14)
	doc.SetTextColor(26, 26, 26)
	doc.MultiCell(0, 16, sanitizeUpper(rev.ProjectName), "", "C", false)
	doc.Ln(6)

	// Overall score box
	doc.SetFillColor(26, 26, 26)
	boxY := doc.GetY()
	doc.Rect(receiptMargin, boxY, receiptPageW-2*receiptMargin, 64, "F")
	doc.SetY(boxY + 8)
	doc.SetFont("Courier", "", 8)
	doc.SetTextColor(136, 136, 136)
	doc.CellFormat(0, 10, "OVERALL SCORE", "", 1, "C", false, 0, "")
	doc.SetFont("Courier", "B", 24)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(0, 26, fmt.Sprintf("%.1f/10", score), "", 1, "C", false, 0, "")
	doc.SetFont("Courier", "B", 10)
	doc.SetTextColor(verdictColor.R, verdictColor.G, verdictColor.B)
	doc.CellFormat(0, 12, verdict, "", 1, "C", false, 0, "")
	doc.SetY(boxY + 64 + 8)
	receiptDivider(doc)

	if analysis != nil {
		receipt := analysis.PublicReceipt
		receiptList(doc, "+ THE ALPHA", "+", colorGreen, receipt.TheAlpha)
		receiptDivider(doc)
		receiptList(doc, "! THE FRICTION", "!", colorCoral, receipt.TheFriction)
		receiptDivider(doc)
		receiptList(doc, "> RECOMMENDATIONS", ">", colorGold, receipt.Recommendations)
		receiptDivider(doc)

		intel := analysis.MarketIntelligence
		receiptHeading(doc, "$ MARKET INTEL")
		receiptKV(doc, "Sector:", intel.Sector)
		receiptKV(doc, "TAM:", intel.TAM)
		receiptKV(doc, "Growth:", intel.TAMGrowthRate)
		receiptKV(doc, "Maturity:", string(intel.MarketMaturity))
		receiptKV(doc, "Entry Barrier:", string(intel.EntryBarrier))
		if len(intel.KeyCompetitors) > 0 {
			n := len(intel.KeyCompetitors)
			if n > 3 {
				n = 3
			}
			receiptKV(doc, "Competitors:", strings.Join(intel.KeyCompetitors[:n], ", "))
		}
		receiptDivider(doc)

		// Item breakdown, like a real receipt
		receiptHeading(doc, "ITEM BREAKDOWN")
		receiptScoreBar(doc, "PMF", receipt.Scores.PMF)
		receiptScoreBar(doc, "UI/UX", receipt.Scores.UI)
		receiptScoreBar(doc, "VIBE", receipt.Scores.Sentiment)
		doc.Ln(4)
		doc.SetFont("Courier", "B", 12)
		doc.SetTextColor(26, 26, 26)
		doc.CellFormat(120, 16, "TOTAL", "", 0, "L", false, 0, "")
		doc.SetTextColor(verdictColor.R, verdictColor.G, verdictColor.B)
		doc.CellFormat(0, 16, fmt.Sprintf("%.1f/10", receipt.Scores.Overall), "", 1, "R", false, 0, "")
		receiptDivider(doc)
	}

	// Footer
	hasPage2 := notes.MyRecommendations != "" ||
		(analysis != nil && len(analysis.MarketIntelligence.MarketTrends) > 0)
	receiptFooter(doc, baseURL, score >= 8, hasPage2)

	// Page 2: analyst's take and market trends
	if hasPage2 {
		doc.AddPage()
		doc.SetFont("Courier", "B", 12)
		doc.SetTextColor(26, 26, 26)
		doc.CellFormat(0, 16, sanitizeUpper(rev.ProjectName), "", 1, "C", false, 0, "")
		doc.SetFont("Courier", "", 8)
		doc.SetTextColor(102, 102, 102)
		doc.CellFormat(0, 12, "DETAILED ANALYSIS", "", 1, "C", false, 0, "")
		receiptDivider(doc)

		if notes.MyRecommendations != "" {
			receiptHeading(doc, "* EASY'S TAKE")
			doc.SetFont("Courier", "", 8)
			doc.SetTextColor(51, 51, 51)
			doc.MultiCell(0, 11, notes.MyRecommendations, "", "L", false)
			receiptDivider(doc)
		}

		if analysis != nil && len(analysis.MarketIntelligence.MarketTrends) > 0 {
			receiptHeading(doc, "> MARKET TRENDS")
			doc.SetFont("Courier", "", 7)
			doc.SetTextColor(68, 68, 68)
			for _, trend := range analysis.MarketIntelligence.MarketTrends {
				doc.MultiCell(0, 10, "> "+trend, "", "L", false)
				doc.Ln(2)
			}
			receiptDivider(doc)
		}

		receiptFooter(doc, baseURL, false, false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// receiptDivider draws the dashed separator line used between sections.
func receiptDivider(doc *fpdf.Fpdf) {
	doc.Ln(6)
	doc.SetDrawColor(204, 204, 204)
	doc.SetLineWidth(1.5)
	doc.SetDashPattern([]float64{3, 3}, 0)
	y := doc.GetY()
	doc.Line(receiptMargin, y, receiptPageW-receiptMargin, y)
	doc.SetDashPattern([]float64{}, 0)
	doc.Ln(8)
}

// receiptHeading prints a small uppercase section header.
func receiptHeading(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Courier", "B", 9)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(0, 12, title, "", 1, "L", false, 0, "")
	doc.Ln(2)
}

// receiptList prints one of the three-entry receipt lists with its bullet
// glyph in the tier color.
func receiptList(doc *fpdf.Fpdf, title, bullet string, color RGB, items []string) {
	receiptHeading(doc, title)
	for _, item := range items {
		doc.SetFont("Courier", "B", 9)
		doc.SetTextColor(color.R, color.G, color.B)
		doc.CellFormat(12, 12, bullet, "", 0, "L", false, 0, "")
		doc.SetFont("Courier", "", 9)
		doc.SetTextColor(26, 26, 26)
		doc.MultiCell(0, 12, item, "", "L", false)
		doc.Ln(1)
	}
}

// receiptKV prints a label/value market-intel row.
func receiptKV(doc *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	doc.SetFont("Courier", "", 8)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(90, 11, label, "", 0, "L", false, 0, "")
	doc.SetFont("Courier", "B", 8)
	doc.SetTextColor(26, 26, 26)
	doc.MultiCell(0, 11, value, "", "R", false)
}

// receiptScoreBar draws one horizontal category bar with its value.
func receiptScoreBar(doc *fpdf.Fpdf, label string, score float64) {
	const trackW = 150.0
	color := ScoreColor(score)
	y := doc.GetY()

	doc.SetFont("Courier", "", 8)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(45, 12, label, "", 0, "L", false, 0, "")

	barX := receiptMargin + 50
	doc.SetFillColor(221, 221, 221)
	doc.Rect(float64(barX), y+2, trackW, 8, "F")
	doc.SetFillColor(color.R, color.G, color.B)
	doc.Rect(float64(barX), y+2, barWidth(score, trackW), 8, "F")

	doc.SetXY(float64(barX)+trackW+5, y)
	doc.SetFont("Courier", "B", 9)
	doc.SetTextColor(color.R, color.G, color.B)
	doc.CellFormat(0, 12, fmt.Sprintf("%.1f", score), "", 1, "R", false, 0, "")
	doc.Ln(2)
}

// receiptFooter prints the thank-you block, the optional verified stamp,
// and the continuation marker.
func receiptFooter(doc *fpdf.Fpdf, baseURL string, verified, continued bool) {
	stars := "********************************"
	doc.SetFont("Courier", "", 8)
	doc.SetTextColor(204, 204, 204)
	doc.CellFormat(0, 10, stars, "", 1, "C", false, 0, "")
	doc.SetTextColor(136, 136, 136)
	doc.CellFormat(0, 10, "THANK YOU FOR SHOPPING", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 10, "AT BODEGA RESEARCH", "", 1, "C", false, 0, "")
	if baseURL != "" {
		doc.CellFormat(0, 10, baseURL, "", 1, "C", false, 0, "")
	}
	doc.SetTextColor(204, 204, 204)
	doc.CellFormat(0, 10, stars, "", 1, "C", false, 0, "")

	if verified {
		doc.Ln(8)
		doc.SetDrawColor(34, 139, 34)
		doc.SetLineWidth(3)
		y := doc.GetY()
		doc.Rect(receiptMargin+40, y, receiptPageW-2*receiptMargin-80, 30, "D")
		doc.SetY(y + 8)
		doc.SetFont("Courier", "B", 12)
		doc.SetTextColor(34, 139, 34)
		doc.CellFormat(0, 14, "BODEGA VERIFIED", "", 1, "C", false, 0, "")
		doc.SetY(y + 34)
	}

	if continued {
		doc.Ln(6)
		doc.SetFont("Courier", "", 7)
		doc.SetTextColor(136, 136, 136)
		doc.CellFormat(0, 10, "... CONTINUED ON NEXT PAGE ...", "", 1, "C", false, 0, "")
	}
}
