package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is created atomically together with its items and is never
// partially updated afterwards. (user_id, qr_code_data) is unique so the
// same code cannot be ingested twice for one user.
type Receipt struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"uniqueIndex:idx_receipts_user_qr" json:"user_id"`
	QRCodeData    string          `gorm:"column:qr_code_data;uniqueIndex:idx_receipts_user_qr" json:"qr_code_data"`
	StoreName     *string         `json:"store_name,omitempty"`
	StoreCnpj     *string         `json:"store_cnpj,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_amount"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	ReceiptNumber *string         `json:"receipt_number,omitempty"`
	XMLData       *string         `gorm:"column:xml_data;type:text" json:"-"`

	User  *User          `gorm:"foreignKey:UserID"`
	Items []*ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
	Timestamp
}

// ReceiptItem keeps the original document line, in document order via
// Position. Quantity is decimal because weighed goods are fractional.
type ReceiptItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID           uuid.UUID       `gorm:"index" json:"receipt_id"`
	ProductID           uuid.UUID       `gorm:"index" json:"product_id"`
	ProductNameOriginal string          `json:"product_name_original"`
	Quantity            decimal.Decimal `gorm:"type:decimal(12,3)" json:"quantity"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
	TotalPrice          decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_price"`
	Position            int             `json:"position"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Timestamp
}
