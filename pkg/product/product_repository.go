package product

import (
	"NotaScan-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, product *entities.Product) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		GetProductByNormalizedName(ctx context.Context, normalizedName string) (*entities.Product, error)
		UpdateProduct(ctx context.Context, product *entities.Product) error
		DeleteProduct(ctx context.Context, id string) error
		GetProducts(ctx context.Context, search string, page, limit int) ([]*entities.Product, int64, error)
		CountReceiptItems(ctx context.Context, productID string) (int64, error)

		// Price history related
		CreatePriceEntry(ctx context.Context, entry *entities.PriceEntry) error
		GetPriceHistory(ctx context.Context, productID string, storeCnpj string, limit int) ([]*entities.PriceEntry, error)
		GetPriceEntries(ctx context.Context, productID string) ([]*entities.PriceEntry, error)
		GetStoreName(ctx context.Context, storeCnpj string) (*string, error)
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProductByNormalizedName(ctx context.Context, normalizedName string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("normalized_name = ?", normalizedName).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Product{}).Error
}

func (r *productRepository) GetProducts(ctx context.Context, search string, page, limit int) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Product{})
	if search != "" {
		query = query.Where("normalized_name LIKE ?", "%"+Normalize(search)+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *productRepository) CountReceiptItems(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.ReceiptItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) CreatePriceEntry(ctx context.Context, entry *entities.PriceEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *productRepository) GetPriceHistory(ctx context.Context, productID string, storeCnpj string, limit int) ([]*entities.PriceEntry, error) {
	var entries []*entities.PriceEntry

	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if storeCnpj != "" {
		query = query.Where("store_cnpj = ?", storeCnpj)
	}

	if err := query.Order("recorded_at desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPriceEntries returns every observation for a product in insertion
// order, oldest first, so same-timestamp ties resolve to the later insert.
func (r *productRepository) GetPriceEntries(ctx context.Context, productID string) ([]*entities.PriceEntry, error) {
	var entries []*entities.PriceEntry
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("recorded_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *productRepository) GetStoreName(ctx context.Context, storeCnpj string) (*string, error) {
	var receipt entities.Receipt
	err := r.db.WithContext(ctx).
		Where("store_cnpj = ?", storeCnpj).
		Limit(1).
		Find(&receipt).Error
	if err != nil {
		return nil, err
	}
	return receipt.StoreName, nil
}
