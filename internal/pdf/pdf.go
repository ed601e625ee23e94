// Package pdf renders the two review artifacts: the receipt-style public
// infographic and the A4 private analyst report. Layout mirrors the site's
// "bodega receipt" look: monospace receipt on a narrow page, serif-free
// corporate report on A4.
package pdf

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind selects which artifact to render.
type Kind string

const (
	KindInfographic Kind = "infographic"
	KindReport      Kind = "report"
)

// Valid reports whether k names a renderable artifact.
func (k Kind) Valid() bool { return k == KindInfographic || k == KindReport }

// RGB is a plain 8-bit color triple.
type RGB struct{ R, G, B int }

// Verdict tiers by overall score.
var (
	colorGreen  = RGB{34, 197, 94}  // fresh
	colorGold   = RGB{240, 162, 2}  // decent
	colorOrange = RGB{241, 136, 5}  // stale
	colorCoral  = RGB{217, 93, 57}  // flop
)

// ScoreVerdict maps an overall score to its qualitative tier label.
func ScoreVerdict(score float64) string {
	switch {
	case score >= 8:
		return "FRESH"
	case score >= 6:
		return "DECENT"
	case score >= 4:
		return "STALE"
	default:
		return "FLOP"
	}
}

// ScoreColor maps an overall score to its tier color.
func ScoreColor(score float64) RGB {
	switch {
	case score >= 8:
		return colorGreen
	case score >= 6:
		return colorGold
	case score >= 4:
		return colorOrange
	default:
		return colorCoral
	}
}

// nonAlnumRE matches runs of characters outside [a-z0-9] after lowercasing.
var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName lowercases a project name and collapses every run of
// non-alphanumeric characters to a single hyphen.
func SanitizeName(projectName string) string {
	s := strings.ToLower(projectName)
	s = nonAlnumRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FileName derives a practically unique object name from the project name,
// the artifact kind, and a timestamp. No lookup is needed for uniqueness.
func FileName(projectName string, kind Kind, now time.Time) string {
	suffix := "report"
	if kind == KindInfographic {
		suffix = "receipt"
	}
	return fmt.Sprintf("%s-%s-%d.pdf", SanitizeName(projectName), suffix, now.UnixMilli())
}

// barWidth converts a score into a bar width within track, clamping the
// visual only; out-of-range scores still print their raw value.
func barWidth(score, track float64) float64 {
	frac := score / 10
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac * track
}

// sanitizeUpper uppercases display text for the receipt headers.
func sanitizeUpper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// splitParagraphs splits prose on blank lines, dropping empty fragments.
func splitParagraphs(s string) []string {
	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
