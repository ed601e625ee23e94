// Package analysis turns raw analyst notes into a validated, strongly typed
// AI analysis record. This file centralizes the component's error values so
// callers can map them to HTTP results consistently.
package analysis

import "errors"

var (
	// ErrValidation is returned before any upstream call when the input is
	// incomplete (empty project name or a missing required aisle).
	ErrValidation = errors.New("invalid analysis input")

	// ErrUpstream is returned when the completion service is unreachable or
	// returns no text payload. A single upstream failure is terminal; the
	// component never retries.
	ErrUpstream = errors.New("completion service error")

	// ErrParse is returned when the model's output is not valid JSON or is
	// missing required sections. The wrapped message carries a truncated
	// diagnostic of the offending payload.
	ErrParse = errors.New("unparseable analysis response")

	// ErrMissingAPIKey is returned at client construction when no API key is
	// configured. Credentials are checked up front rather than at first use.
	ErrMissingAPIKey = errors.New("anthropic api key not configured")
)
