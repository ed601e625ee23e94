// Analysis payload types.
//
// This file defines the JSON shape produced by the AI analysis step and the
// raw analyst input it is generated from. The same types are used for the
// persisted ai_data column, for response-shape validation of the model
// output, and for the PDF templates, so the schema is declared exactly once.
package domain

import (
	"strings"
	"time"
)

// ReceiptListLen is the fixed length of each public-receipt list
// (alpha points, friction points, recommendations).
const ReceiptListLen = 3

// RawNotes holds the analyst's raw input, organized into the four fixed
// "aisles" plus optional extras. The four aisle fields are required.
type RawNotes struct {
	Aisle1PMF         string         `json:"aisle1_pmf"`
	Aisle2UIUX        string         `json:"aisle2_uiux"`
	Aisle3General     string         `json:"aisle3_general"`
	Aisle4Sentiment   string         `json:"aisle4_sentiment"`
	MyRecommendations string         `json:"my_recommendations,omitempty"`
	MarketContext     *MarketContext `json:"market_context,omitempty"`
}

// EmptyAisle returns the JSON name of the first empty required aisle,
// or "" when all four are filled.
func (n RawNotes) EmptyAisle() string {
	switch {
	case strings.TrimSpace(n.Aisle1PMF) == "":
		return "aisle1_pmf"
	case strings.TrimSpace(n.Aisle2UIUX) == "":
		return "aisle2_uiux"
	case strings.TrimSpace(n.Aisle3General) == "":
		return "aisle3_general"
	case strings.TrimSpace(n.Aisle4Sentiment) == "":
		return "aisle4_sentiment"
	}
	return ""
}

// MarketContext is optional market framing supplied by the analyst.
// When present, the AI is instructed to copy these values through into
// the market-intelligence block rather than re-derive them.
type MarketContext struct {
	Sector         string         `json:"sector,omitempty"`
	KeyCompetitors string         `json:"key_competitors,omitempty"` // free text, comma separated
	MarketMaturity MarketMaturity `json:"market_maturity,omitempty"`
	EntryBarrier   EntryBarrier   `json:"entry_barrier,omitempty"`
}

// AIAnalysis is the validated, strongly typed analysis record returned by
// the completion service and persisted on the review.
type AIAnalysis struct {
	PublicReceipt      PublicReceipt      `json:"publicReceipt"`
	PrivateReport      string             `json:"privateReport"`
	MarketIntelligence MarketIntelligence `json:"marketIntelligence"`
}

// PublicReceipt is the short, shareable structured summary of an analysis.
// The three list fields each contain exactly ReceiptListLen entries.
type PublicReceipt struct {
	TheAlpha        []string      `json:"theAlpha"`
	TheFriction     []string      `json:"theFriction"`
	Recommendations []string      `json:"recommendations"`
	Scores          ReceiptScores `json:"scores"`
}

// ReceiptScores carries the per-category scores, conventionally in [1,10]
// with one decimal of precision. Overall is always recomputed server-side
// from the weighted aggregate; the model's own figure is discarded.
type ReceiptScores struct {
	PMF       float64 `json:"pmf"`
	UI        float64 `json:"ui"`
	Sentiment float64 `json:"sentiment"`
	Overall   float64 `json:"overall"`
}

// MarketIntelligence is the sector/TAM/competitor/trend sub-record
// attached to an analysis.
type MarketIntelligence struct {
	Sector              string          `json:"sector"`
	TAM                 string          `json:"tam"`
	TAMGrowthRate       string          `json:"tamGrowthRate"`
	UserGrowthPotential GrowthPotential `json:"userGrowthPotential"`
	KeyCompetitors      []string        `json:"keyCompetitors"`
	MarketTrends        []string        `json:"marketTrends"`
	MarketMaturity      MarketMaturity  `json:"marketMaturity"`
	EntryBarrier        EntryBarrier    `json:"entryBarrier"`
}

// ReviewDate formats a review timestamp the way the rendered documents
// display it.
func ReviewDate(t time.Time) string { return t.Format("Monday, January 2, 2006") }
