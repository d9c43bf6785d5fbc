package domain

import (
	"time"
)

const (
	ActionView      = "view"
	ActionAddToCart = "add_to_cart"
	ActionPurchase  = "purchase"
)

// CREATE TABLE public.user_interactions (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     UUID NOT NULL,
//     product_id  UUID NOT NULL,
//     action_type TEXT NOT NULL,
//     timestamp   TIMESTAMPTZ DEFAULT NOW()
// );

type UserInteraction struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	ProductID  string    `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	ActionType string    `gorm:"column:action_type;type:text;not null" json:"action_type"`
	Timestamp  time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (UserInteraction) TableName() string {
	return "user_interactions"
}

// InteractionEvent is one row of a user's recent history with the product
// category joined in. Fetched most-recent first; immutable once created.
type InteractionEvent struct {
	ProductID  string    `json:"product_id"`
	Category   string    `json:"category"`
	ActionType string    `json:"action_type"`
	ObservedAt time.Time `json:"observed_at"`
}
