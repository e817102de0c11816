package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordType distinguishes money coming in from money going out.
type RecordType string

const (
	RecordTypeIncome  RecordType = "income"
	RecordTypeOutcome RecordType = "outcome"
)

// RecordTypes lists the accepted values for Record.Type.
var RecordTypes = []RecordType{RecordTypeIncome, RecordTypeOutcome}

// Record represents a single expense or income entry.
type Record struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Description string          `json:"description" gorm:"size:56"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Date        time.Time       `json:"date" gorm:"not null"`
	Type        RecordType      `json:"type" gorm:"type:varchar(16);not null"`
	CategoryID  uint            `json:"categoryId" gorm:"not null;index"`
	UserID      uint            `json:"-" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}
