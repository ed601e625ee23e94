package analysis

import "math"

// Score weighting: product-market fit counts most, then UI, then sentiment.
const (
	weightPMF       = 0.4
	weightUI        = 0.3
	weightSentiment = 0.3
)

// OverallScore computes the single overall score from the three category
// scores using the fixed weighting 0.4*pmf + 0.3*ui + 0.3*sentiment,
// rounded to one decimal place (half away from zero on the scaled value).
//
// It is defined for any real inputs; scores are conventionally in [1,10].
// Out-of-range model output is passed through unclamped.
func OverallScore(pmf, ui, sentiment float64) float64 {
	overall := weightPMF*pmf + weightUI*ui + weightSentiment*sentiment
	return math.Round(overall*10) / 10
}
