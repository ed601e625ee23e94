package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// Requestor packages analyst notes into a prompt, invokes the completion
// service once, and validates the response into a typed analysis record.
// The overall score is recomputed from the weighted aggregate before the
// record is returned; the model's own overall figure is discarded.
//
// The component is non-deterministic by construction (model output varies
// run to run), so tests substitute the Completer rather than asserting on
// generated content.
type Requestor struct {
	Completer Completer
}

// NewRequestor binds a Requestor to the given completion client.
func NewRequestor(c Completer) *Requestor {
	return &Requestor{Completer: c}
}

// Generate produces a validated analysis for the given project.
//
// Errors:
//   - ErrValidation when the project name or any required aisle is empty;
//     detected before any upstream call.
//   - ErrUpstream when the completion service fails or returns no text.
//   - ErrParse when the response cannot be decoded into the required shape.
func (r *Requestor) Generate(ctx context.Context, projectName string, notes domain.RawNotes) (*domain.AIAnalysis, error) {
	if strings.TrimSpace(projectName) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if field := notes.EmptyAisle(); field != "" {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrValidation, field)
	}

	text, err := r.Completer.Complete(ctx, systemPrompt, BuildUserPrompt(projectName, notes))
	if err != nil {
		return nil, err
	}

	a, err := Parse(text)
	if err != nil {
		return nil, err
	}

	s := &a.PublicReceipt.Scores
	s.Overall = OverallScore(s.PMF, s.UI, s.Sentiment)
	return a, nil
}
