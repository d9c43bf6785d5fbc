package postgres

import (
	"context"
	"fmt"
	"smartShop/domain"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{
		DB: db,
	}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.UserInteraction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	return nil
}

// FindRecentEvents returns the user's most recent interactions, newest
// first, with the product category joined in.
func (r *InteractionRepository) FindRecentEvents(ctx context.Context, userID string, limit int) ([]domain.InteractionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.InteractionEvent
	err := r.DB.WithContext(ctx).
		Model(&domain.UserInteraction{}).
		Select("user_interactions.product_id, products.category, user_interactions.action_type, user_interactions.timestamp AS observed_at").
		Joins("LEFT JOIN products ON products.id = user_interactions.product_id").
		Where("user_interactions.user_id = ?", userID).
		Order("user_interactions.timestamp DESC").
		Limit(limit).
		Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent interactions: %w", err)
	}

	return events, nil
}

// FindRecentProductIDs returns only the product ids of the user's most
// recent interactions, for viewed-product exclusion on cache hits.
func (r *InteractionRepository) FindRecentProductIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&domain.UserInteraction{}).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent interaction ids: %w", err)
	}

	return ids, nil
}
