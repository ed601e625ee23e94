// Package services – ReviewService
//
// This file implements the ReviewService, which drives the full review
// pipeline: validating analyst notes, uploading the optional brand image,
// requesting the AI analysis, recomputing the weighted overall score, and
// persisting the finished review in a single write. It also renders and
// uploads the PDF artifacts on demand and removes storage objects when a
// review is deleted.
//
// Service-level errors (e.g., ErrReviewNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently. Errors from
// the analysis package (validation, upstream, parse) pass through unchanged
// for the same reason.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/analysis"
	"github.com/bodegaresearch/go-review-backend/internal/domain"
	"github.com/bodegaresearch/go-review-backend/internal/pdf"
	"github.com/bodegaresearch/go-review-backend/internal/repo"
	"github.com/bodegaresearch/go-review-backend/internal/storage"
)

// Analyzer is the AI contract required by ReviewService. It produces a
// validated analysis with the overall score already recomputed from the
// per-category scores.
type Analyzer interface {
	Generate(ctx context.Context, projectName string, notes domain.RawNotes) (*domain.AIAnalysis, error)
}

// ReviewRepo defines the repository contract required by ReviewService.
// Implementations are responsible for persistence of review aggregates.
type ReviewRepo interface {
	// CreateReview inserts a finished review in a single write.
	CreateReview(ctx context.Context, db *gorm.DB, projectName string, brandImageURL *string, notes domain.RawNotes, analysis domain.AIAnalysis, score float64) (*domain.Review, error)

	// ListReviews returns all reviews (non-paginated).
	ListReviews(ctx context.Context, db *gorm.DB) ([]domain.Review, error)

	// CountReviews returns the total number of reviews for pagination.
	CountReviews(ctx context.Context, db *gorm.DB) (int64, error)

	// ListReviewsPage returns a page of reviews.
	ListReviewsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Review, error)

	// GetReview fetches a review by ID.
	GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error)

	// UpdateArtifactURL stores a rendered artifact URL on the review.
	UpdateArtifactURL(ctx context.Context, db *gorm.DB, id, column, url string) error

	// DeleteReview permanently deletes a review row.
	DeleteReview(ctx context.Context, db *gorm.DB, id string) error
}

// ImageUpload carries an incoming brand image from the multipart form.
type ImageUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ReviewService provides review-level operations: the generate pipeline,
// artifact rendering, catalog reads, and deletion with storage cleanup.
type ReviewService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the review repository used by this service.
	Repo ReviewRepo
	// AI produces the structured analysis from the analyst notes.
	AI Analyzer
	// Store is the object store holding images and PDF artifacts.
	Store storage.ObjectStore

	// PublicBucket holds brand images and infographics (public read).
	PublicBucket string
	// PrivateBucket holds private reports (signed URLs only).
	PrivateBucket string
	// SignedURLTTL is the expiry for private report links.
	SignedURLTTL time.Duration
	// PublicBaseURL is printed in the infographic footer.
	PublicBaseURL string
	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewReviewService constructs a ReviewService with sane defaults.
func NewReviewService(db *gorm.DB, r ReviewRepo, ai Analyzer, store storage.ObjectStore, publicBucket, privateBucket string) *ReviewService {
	return &ReviewService{
		DB:            db,
		Repo:          r,
		AI:            ai,
		Store:         store,
		PublicBucket:  publicBucket,
		PrivateBucket: privateBucket,
		SignedURLTTL:  7 * 24 * time.Hour,
		Now:           time.Now,
	}
}

// Generate runs the full pipeline for one review: validate the input, upload
// the optional brand image (best effort), request the AI analysis, and
// persist the finished review. The persisted rating score always equals the
// recomputed overall from the analysis; the model's own figure is never
// stored.
//
// Validation runs first so an invalid submission never touches storage or
// the upstream model. The brand image upload is best effort: a storage
// failure is logged and the review proceeds without an image URL. An AI
// failure aborts the pipeline before any database write, so no half-built
// review rows exist.
func (s *ReviewService) Generate(ctx context.Context, projectName string, notes domain.RawNotes, image *ImageUpload) (*domain.Review, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil, fmt.Errorf("%w: project name is required", analysis.ErrValidation)
	}
	if field := notes.EmptyAisle(); field != "" {
		return nil, fmt.Errorf("%w: %s must not be empty", analysis.ErrValidation, field)
	}

	var brandImageURL *string
	if image != nil && s.Store != nil {
		if u, err := s.uploadBrandImage(ctx, image); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("project", projectName).Msg("brand image upload failed; continuing without image")
		} else {
			brandImageURL = &u
		}
	}

	result, err := s.AI.Generate(ctx, projectName, notes)
	if err != nil {
		return nil, err
	}

	rev, err := s.Repo.CreateReview(ctx, s.DB, projectName, brandImageURL, notes, *result, result.PublicReceipt.Scores.Overall)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Ctx(ctx).Info().
		Str("review_id", rev.ID).
		Float64("score", result.PublicReceipt.Scores.Overall).
		Msg("review generated")
	return rev, nil
}

// uploadBrandImage stores the image under a unique object name in the public
// bucket and returns its permanent URL.
func (s *ReviewService) uploadBrandImage(ctx context.Context, image *ImageUpload) (string, error) {
	ext := ""
	if i := strings.LastIndex(image.Name, "."); i >= 0 {
		ext = image.Name[i:]
	}
	name := fmt.Sprintf("brand-images/%d-%s%s", s.Now().UnixMilli(), uuid.NewString()[:8], ext)
	ct := image.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	if err := s.Store.Upload(ctx, s.PublicBucket, name, image.Reader, image.Size, ct); err != nil {
		return "", err
	}
	return s.Store.PublicURL(s.PublicBucket, name), nil
}

// RenderArtifact renders the requested PDF for a review, uploads it to the
// matching bucket, and returns its URL: permanent for infographics, signed
// for reports. The URL is also written back onto the review row; a write-back
// failure is logged but does not fail the call since the artifact already
// exists and the caller holds a working URL.
func (s *ReviewService) RenderArtifact(ctx context.Context, id string, kind pdf.Kind) (string, error) {
	if !kind.Valid() {
		return "", ErrInvalidKind
	}
	if s.Store == nil {
		return "", fmt.Errorf("%w: object storage not configured", ErrUpload)
	}
	rev, err := s.Repo.GetReview(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrReviewNotFound
		}
		return "", err
	}

	var (
		data   []byte
		bucket string
		column string
	)
	switch kind {
	case pdf.KindInfographic:
		data, err = pdf.RenderInfographic(rev, s.PublicBaseURL)
		bucket, column = s.PublicBucket, "infographic_url"
	case pdf.KindReport:
		data, err = pdf.RenderReport(rev)
		bucket, column = s.PrivateBucket, "report_url"
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	name := pdf.FileName(rev.ProjectName, kind, s.Now())
	if err := s.Store.Upload(ctx, bucket, name, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	var artifactURL string
	if kind == pdf.KindInfographic {
		artifactURL = s.Store.PublicURL(bucket, name)
	} else {
		artifactURL, err = s.Store.SignedURL(ctx, bucket, name, s.SignedURLTTL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSign, err)
		}
	}

	if err := s.Repo.UpdateArtifactURL(ctx, s.DB, id, column, artifactURL); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("review_id", id).
			Str("artifact", string(kind)).
			Msg("artifact url write-back failed")
	}
	log.Ctx(ctx).Info().
		Str("review_id", id).
		Str("artifact", string(kind)).
		Int("bytes", len(data)).
		Msg("artifact rendered")
	return artifactURL, nil
}

// List returns all reviews (non-paginated).
// Prefer ListPage for scalability on large datasets.
func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	return s.Repo.ListReviews(ctx, s.DB)
}

// ListPage returns a page of reviews (paginated).
// It applies defaults for invalid page/pageSize and returns total count.
func (s *ReviewService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountReviews(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Review{}, 0, nil
	}

	items, err := s.Repo.ListReviewsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// Get fetches a single review by ID, mapping missing rows to
// ErrReviewNotFound.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	rev, err := s.Repo.GetReview(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rev, nil
}

// Delete removes a review and, best effort, its storage objects: the brand
// image and infographic from the public bucket and the report from the
// private bucket. Storage failures are logged and never block the row
// deletion; a missing row returns ErrReviewNotFound.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	rev, err := s.Repo.GetReview(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if s.Store != nil {
		s.removeObject(ctx, s.PublicBucket, rev.BrandImageURL, "brand image")
		s.removeObject(ctx, s.PublicBucket, rev.InfographicURL, "infographic")
		s.removeObject(ctx, s.PrivateBucket, rev.ReportURL, "report")
	}

	if err := s.Repo.DeleteReview(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	log.Ctx(ctx).Info().Str("review_id", id).Msg("review deleted")
	return nil
}

// removeObject deletes one stored object referenced by a URL, ignoring blank
// URLs and URLs that do not point into the bucket.
func (s *ReviewService) removeObject(ctx context.Context, bucket string, rawURL *string, label string) {
	if rawURL == nil {
		return
	}
	key := storage.ObjectKey(*rawURL, bucket)
	if key == "" {
		return
	}
	if err := s.Store.Remove(ctx, bucket, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("bucket", bucket).
			Str("object", key).
			Msgf("%s cleanup failed", label)
	}
}

// Stats returns catalog aggregates used for conditional GET responses.
func (s *ReviewService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return repo.ReviewsStats(ctx, s.DB)
}
