package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBill is the starting balance for a freshly registered user.
var DefaultBill = decimal.NewFromInt(10000)

// DefaultLocale is applied when a user does not choose one.
const DefaultLocale = "ru-RU"

// AvailableLocales lists the locales a user profile may switch between.
var AvailableLocales = []string{"ru-RU", "en-US"}

func init() {
	// Monetary fields (bill, amount, limit) go over the wire as JSON
	// numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents an authenticated user in the system.
type User struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string          `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	RefreshToken *string         `json:"-" gorm:"size:64"`           // At most one live session
	Name         string          `json:"name" gorm:"size:255;not null"`
	Bill         decimal.Decimal `json:"bill" gorm:"type:decimal(20,2);not null"`
	Locale       string          `json:"locale" gorm:"size:16;not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
