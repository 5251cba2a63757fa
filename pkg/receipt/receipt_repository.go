package receipt

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	ReceiptRepository interface {
		CreateReceiptWithItems(ctx context.Context, receipt *entities.Receipt, items []*entities.ReceiptItem) error
		ExistsByQRCode(ctx context.Context, userID string, qrCodeData string) (bool, error)
		GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error)
		GetReceiptItems(ctx context.Context, receiptID string) ([]*entities.ReceiptItem, error)
		GetReceipts(ctx context.Context, userID string, query domain.ListReceiptsQuery) ([]*entities.Receipt, int64, error)
		DeleteReceipt(ctx context.Context, id string) error
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// CreateReceiptWithItems inserts the receipt and every item inside one
// transaction. Any insert failure rolls the whole unit back, so a partial
// receipt is never visible to readers.
func (r *receiptRepository) CreateReceiptWithItems(ctx context.Context, receipt *entities.Receipt, items []*entities.ReceiptItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		for _, item := range items {
			item.ReceiptID = receipt.ID
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *receiptRepository) ExistsByQRCode(ctx context.Context, userID string, qrCodeData string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Receipt{}).
		Where("user_id = ? AND qr_code_data = ?", userID, qrCodeData).
		Count(&count).Error
	return count > 0, err
}

func (r *receiptRepository) GetReceiptByID(ctx context.Context, id string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetReceiptItems(ctx context.Context, receiptID string) ([]*entities.ReceiptItem, error) {
	var items []*entities.ReceiptItem
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("position asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *receiptRepository) GetReceipts(ctx context.Context, userID string, query domain.ListReceiptsQuery) ([]*entities.Receipt, int64, error) {
	var receipts []*entities.Receipt
	var count int64

	offset := (query.Page - 1) * query.Limit

	q := r.db.WithContext(ctx).Model(&entities.Receipt{}).Where("user_id = ?", userID)

	if query.StartDate != "" {
		if startDate, err := time.Parse("2006-01-02", query.StartDate); err == nil {
			q = q.Where("purchase_date >= ?", startDate)
		}
	}
	if query.EndDate != "" {
		if endDate, err := time.Parse("2006-01-02", query.EndDate); err == nil {
			q = q.Where("purchase_date <= ?", endDate)
		}
	}
	if query.StoreName != "" {
		q = q.Where("store_name LIKE ?", "%"+query.StoreName+"%")
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Offset(offset).Limit(query.Limit).Order("purchase_date desc").Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, count, nil
}

// Items go with the receipt: the FK cascades, and for engines where the
// constraint is not active the explicit delete keeps the behavior identical.
func (r *receiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).Delete(&entities.ReceiptItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Receipt{}).Error
	})
}
