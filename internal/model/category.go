package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a spending category with a budget limit.
// Titles are unique within the owning user's scope, not globally.
type Category struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Title     string          `json:"title" gorm:"size:56;not null;uniqueIndex:idx_categories_user_title"`
	Limit     decimal.Decimal `json:"limit" gorm:"type:decimal(20,2);not null"`
	UserID    uint            `json:"-" gorm:"not null;uniqueIndex:idx_categories_user_title;index"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}
