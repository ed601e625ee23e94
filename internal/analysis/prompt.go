package analysis

import (
	"fmt"
	"strings"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// systemPrompt is the fixed instruction sent with every analysis request.
// It pins the three required output sections and their JSON shape; the
// parser in this package validates exactly that shape.
const systemPrompt = `You are a Senior Web3 Analyst at Bodega Research, a professional due diligence platform. Your job is to analyze raw analyst notes about Web3 projects and transform them into structured, actionable insights.

You will receive notes about a project organized into 4 categories:
1. Product-Market Fit (PMF)
2. UI/UX Quality
3. General App Assessment
4. Social Sentiment

Based on these notes, you must generate THREE outputs:

OUTPUT 1 - PUBLIC RECEIPT (for social sharing):
{
  "theAlpha": ["point 1", "point 2", "point 3"],
  "theFriction": ["point 1", "point 2", "point 3"],
  "recommendations": ["rec 1", "rec 2", "rec 3"],
  "scores": { "pmf": 7.5, "ui": 8.0, "sentiment": 6.5, "overall": 7.3 }
}
Each list must contain exactly 3 bullet points. Scores are from 1-10.

OUTPUT 2 - PRIVATE ANALYST REPORT:
A professional 500-word consulting document with an executive summary,
detailed analysis of each category, risk assessment, investment
considerations, and recommended next steps. Separate paragraphs with
blank lines.

OUTPUT 3 - MARKET INTELLIGENCE:
{
  "sector": "DeFi",
  "tam": "$50B",
  "tamGrowthRate": "25% YoY",
  "userGrowthPotential": "Low|Medium|High|Very High",
  "keyCompetitors": ["..."],
  "marketTrends": ["...", "...", "..."],
  "marketMaturity": "Emerging|Growing|Mature|Declining",
  "entryBarrier": "Low|Medium|High"
}

SCORING GUIDELINES:
- 9-10: Exceptional, best-in-class
- 7-8: Strong, above average
- 5-6: Average, room for improvement
- 3-4: Below average, significant concerns
- 1-2: Poor, major red flags

IMPORTANT: Return ONLY valid JSON in this exact format:
{
  "publicReceipt": { ... },
  "privateReport": "...",
  "marketIntelligence": { ... }
}

Be objective, data-driven, and honest. Don't sugarcoat issues but also acknowledge genuine strengths.`

// BuildUserPrompt embeds the project name and all four aisle texts verbatim.
// No escaping is applied: the consumer is a text-completion model, not a
// code interpreter. When market context is present the model is told to
// copy it through unmodified instead of re-deriving it.
func BuildUserPrompt(projectName string, notes domain.RawNotes) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this Web3 project: %s\n\n", projectName)
	fmt.Fprintf(&b, "AISLE 1 - PRODUCT-MARKET FIT:\n%s\n\n", notes.Aisle1PMF)
	fmt.Fprintf(&b, "AISLE 2 - UI/UX QUALITY:\n%s\n\n", notes.Aisle2UIUX)
	fmt.Fprintf(&b, "AISLE 3 - GENERAL APP ASSESSMENT:\n%s\n\n", notes.Aisle3General)
	fmt.Fprintf(&b, "AISLE 4 - SOCIAL SENTIMENT:\n%s\n\n", notes.Aisle4Sentiment)

	if mc := notes.MarketContext; mc != nil {
		b.WriteString("MARKET CONTEXT (provided by the analyst - copy these values through to marketIntelligence unmodified, do not re-derive them):\n")
		if mc.Sector != "" {
			fmt.Fprintf(&b, "Sector: %s\n", mc.Sector)
		}
		if mc.KeyCompetitors != "" {
			fmt.Fprintf(&b, "Key competitors: %s\n", mc.KeyCompetitors)
		}
		if mc.MarketMaturity != "" {
			fmt.Fprintf(&b, "Market maturity: %s\n", mc.MarketMaturity)
		}
		if mc.EntryBarrier != "" {
			fmt.Fprintf(&b, "Entry barrier: %s\n", mc.EntryBarrier)
		}
		b.WriteString("\n")
	}

	b.WriteString("Generate the Public Receipt, Private Report, and Market Intelligence based on these notes.")
	return b.String()
}
