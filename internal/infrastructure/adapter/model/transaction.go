package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents the database model for transactions. Rows are
// immutable once written: created through validated ingestion only, never
// updated, never deleted.
type Transaction struct {
	TransactionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp     time.Time `gorm:"not null"`
	Amount        float64   `gorm:"not null"`
	Currency      string    `gorm:"not null;size:3"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity      int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
