package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a global catalog entry shared across all users. NormalizedName
// is the sole deduplication key; the unique index is what keeps concurrent
// ingestions from creating duplicates.
type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `gorm:"uniqueIndex" json:"normalized_name"`
	Category       *string   `json:"category,omitempty"`
	Unit           string    `gorm:"default:UN" json:"unit"`

	Timestamp
}

// PriceEntry is one append-only price observation. Rows are never updated
// or deleted; history per (product, store) is intentionally retained.
type PriceEntry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID  uuid.UUID       `gorm:"index" json:"product_id"`
	StoreCnpj  string          `gorm:"index" json:"store_cnpj"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	RecordedAt time.Time       `gorm:"autoCreateTime" json:"recorded_at"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (PriceEntry) TableName() string {
	return "price_history"
}
