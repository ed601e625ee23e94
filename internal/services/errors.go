// Package services defines the business logic for reviews and leads.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Review-related errors.
var (
	// ErrReviewNotFound indicates that the requested review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrInvalidKind is returned when an artifact type is neither
	// "infographic" nor "report".
	ErrInvalidKind = errors.New("invalid artifact type")

	// ErrPersistence wraps database failures on the review insert path.
	ErrPersistence = errors.New("review persistence failed")

	// ErrRender is returned when PDF generation fails.
	ErrRender = errors.New("pdf rendering failed")

	// ErrUpload is returned when writing an artifact to object storage fails.
	ErrUpload = errors.New("artifact upload failed")

	// ErrSign is returned when a signed URL cannot be issued for a private
	// artifact that was already uploaded.
	ErrSign = errors.New("signed url issuance failed")
)

// Lead-related errors.
var (
	// ErrInvalidLead is returned when a lead submission fails validation
	// (missing name, malformed email, unknown contact method, or a missing
	// companion detail for the "other" contact method).
	ErrInvalidLead = errors.New("invalid lead submission")
)
