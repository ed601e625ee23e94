package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// fencedJSONRE matches a markdown-fenced JSON block; the first capture group
// is the payload. Models occasionally wrap their output this way despite
// being told not to.
var fencedJSONRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// maxDiagnosticLen caps how much of a bad payload ends up in error messages.
const maxDiagnosticLen = 200

// Parse validates and decodes the model's text output into a typed analysis
// record. The optional code fence is stripped first; the remainder must be a
// JSON object carrying all three sections with the right shapes.
//
// Shape requirements:
//   - top level: publicReceipt, privateReport, marketIntelligence all present
//   - publicReceipt: theAlpha, theFriction, recommendations must be arrays
//   - marketIntelligence: sector, tam, keyCompetitors must be present
//
// Any violation returns an error wrapping ErrParse with a truncated
// diagnostic of the payload.
func Parse(text string) (*domain.AIAnalysis, error) {
	payload := text
	if m := fencedJSONRE.FindStringSubmatch(text); m != nil {
		payload = m[1]
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, parseErr("invalid JSON", payload)
	}
	for _, key := range []string{"publicReceipt", "privateReport", "marketIntelligence"} {
		if _, ok := raw[key]; !ok {
			return nil, parseErr("missing "+key, payload)
		}
	}

	var receipt map[string]json.RawMessage
	if err := json.Unmarshal(raw["publicReceipt"], &receipt); err != nil {
		return nil, parseErr("publicReceipt is not an object", payload)
	}
	for _, key := range []string{"theAlpha", "theFriction", "recommendations"} {
		var list []json.RawMessage
		if err := json.Unmarshal(receipt[key], &list); err != nil {
			return nil, parseErr("publicReceipt."+key+" is not an array", payload)
		}
	}

	var intel map[string]json.RawMessage
	if err := json.Unmarshal(raw["marketIntelligence"], &intel); err != nil {
		return nil, parseErr("marketIntelligence is not an object", payload)
	}
	for _, key := range []string{"sector", "tam", "keyCompetitors"} {
		if _, ok := intel[key]; !ok {
			return nil, parseErr("marketIntelligence missing "+key, payload)
		}
	}

	var a domain.AIAnalysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, parseErr("schema mismatch: "+err.Error(), payload)
	}
	return &a, nil
}

// parseErr wraps ErrParse with a reason and a truncated payload sample.
func parseErr(reason, payload string) error {
	sample := strings.TrimSpace(payload)
	if len(sample) > maxDiagnosticLen {
		sample = sample[:maxDiagnosticLen] + "…"
	}
	return fmt.Errorf("%w: %s (payload: %q)", ErrParse, reason, sample)
}
