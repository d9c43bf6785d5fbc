package interaction

import (
	"context"
	"errors"
	"fmt"
	"smartShop/domain"
	"smartShop/pkg/logger"
	"time"
)

var ErrInvalidActionType = errors.New("invalid action_type, must be: view, add_to_cart, or purchase")

var validActionTypes = map[string]bool{
	domain.ActionView:      true,
	domain.ActionAddToCart: true,
	domain.ActionPurchase:  true,
}

// InteractionRepository contract interface
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.UserInteraction) error
}

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type interactionService struct {
	interactionRepo InteractionRepository
	userRepo        UserRepository
}

func NewInteractionService(interactionRepo InteractionRepository, userRepo UserRepository) *interactionService {
	return &interactionService{
		interactionRepo: interactionRepo,
		userRepo:        userRepo,
	}
}

// RecordInteraction persists one interaction event. An unknown user id gets
// a user row created from the identity metadata first; if that creation
// fails the interaction is still recorded.
func (s *interactionService) RecordInteraction(
	ctx context.Context,
	userID string,
	productID string,
	actionType string,
	identity domain.UserIdentity,
) (*domain.UserInteraction, error) {

	if err := ctx.Err(); err != nil {
		logger.Error("context error when recording interaction")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	if productID == "" {
		return nil, errors.New("product_id is required")
	}
	if !validActionTypes[actionType] {
		logger.Error("invalid action type", "action_type", actionType)
		return nil, ErrInvalidActionType
	}

	s.ensureUser(ctx, userID, identity)

	interaction := &domain.UserInteraction{
		UserID:     userID,
		ProductID:  productID,
		ActionType: actionType,
		Timestamp:  time.Now(),
	}

	if err := s.interactionRepo.Create(ctx, interaction); err != nil {
		logger.Error("failed to record interaction", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	return interaction, nil
}

// ensureUser creates the user row when it does not exist yet. Creation
// failure is logged and swallowed: the interaction must not be rejected
// because of it.
func (s *interactionService) ensureUser(ctx context.Context, userID string, identity domain.UserIdentity) {
	if _, err := s.userRepo.FindByID(ctx, userID); err == nil {
		return
	}

	name := identity.Name
	if name == "" {
		name = identity.Email
	}
	if name == "" {
		name = "Unknown User"
	}

	user := &domain.User{
		ID:    userID,
		Name:  name,
		Email: identity.Email,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.Warn("failed to create user for interaction, continuing",
			"user_id", userID,
			"error", err,
		)
	}
}
