// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Lead
// model. Leads are insert-only; there is no update or delete path.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// CreateLead inserts a new Lead row. The lead ID is a randomly generated
// UUID (string), and CreatedAt is set to UTC. The caller has already
// validated the payload; this function only persists it.
//
// On success, it returns the persisted Lead. On failure, it returns a DB error.
func CreateLead(ctx context.Context, db *gorm.DB, lead *domain.Lead) (*domain.Lead, error) {
	lead.ID = uuid.NewString()
	lead.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}
