// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a review is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.ReviewService) which enforces business rules and drives
// the AI, rendering, and storage side effects.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateReview inserts a new Review row with the notes, the validated AI
// payload, and the recomputed overall score all set in a single write. The
// review ID is a randomly generated UUID (string).
//
// On success, it returns the persisted Review. On failure, it returns a DB error.
func CreateReview(ctx context.Context, db *gorm.DB, projectName string, brandImageURL *string, notes domain.RawNotes, analysis domain.AIAnalysis, score float64) (*domain.Review, error) {
	ai := datatypes.NewJSONType(analysis)
	r := &domain.Review{
		ID:            uuid.NewString(),
		ProjectName:   projectName,
		BrandImageURL: brandImageURL,
		RawNotes:      datatypes.NewJSONType(notes),
		AIData:        &ai,
		RatingScore:   &score,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviews returns all reviews ordered by creation time descending
// (most recent first). It returns an empty slice when none exist.
func ListReviews(ctx context.Context, db *gorm.DB) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountReviews returns the total number of reviews.
// On DB error, it returns the error.
func CountReviews(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Review{}).
		Count(&total).Error
	return total, err
}

// ListReviewsPage returns a paginated slice of reviews, ordered by creation
// time descending. Use CountReviews to obtain the total for pagination
// metadata. On DB error, it returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListReviewsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetReview fetches a single review by its ID. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var r domain.Review
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateArtifactURL stores the rendered artifact URL on the review: column
// is "infographic_url" or "report_url". If no rows are affected (review
// missing), it returns ErrNotFound. On DB error, the raw error is returned.
func UpdateArtifactURL(ctx context.Context, db *gorm.DB, id, column, url string) error {
	res := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		Update(column, url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReview permanently deletes a review row by ID. If no rows are
// affected (review missing or already deleted), it returns ErrNotFound.
func DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
