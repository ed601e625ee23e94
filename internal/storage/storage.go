// Package storage abstracts the object store that holds brand images and
// generated PDF artifacts. Two buckets are used: a publicly readable one
// for brand images and infographics, and a restricted one for private
// reports accessed exclusively through time-limited signed URLs.
package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

// ObjectStore is the contract the services layer needs from object storage.
// Implementations must be safe for concurrent use.
type ObjectStore interface {
	// Upload writes an object. Pass size -1 when unknown.
	Upload(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) error

	// Remove deletes an object. Removing a missing object is not an error.
	Remove(ctx context.Context, bucket, name string) error

	// PublicURL resolves a permanent URL for an object in a public bucket.
	PublicURL(bucket, name string) string

	// SignedURL creates a time-limited GET URL for an object in a
	// restricted bucket.
	SignedURL(ctx context.Context, bucket, name string, expiry time.Duration) (string, error)
}

// ObjectKey extracts the object name from a stored URL by stripping
// everything up to and including the "/<bucket>/" path segment, dropping any
// query string (signed URLs carry one). It returns "" when the URL does not
// reference the bucket, which callers treat as nothing to delete.
func ObjectKey(rawURL, bucket string) string {
	if rawURL == "" || bucket == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	marker := "/" + bucket + "/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return ""
	}
	return u.Path[idx+len(marker):]
}
