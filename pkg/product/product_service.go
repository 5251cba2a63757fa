package product

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/entities"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	ProductService interface {
		FindOrCreate(ctx context.Context, rawName string, unit string) (*entities.Product, error)
		RegisterPrice(ctx context.Context, productID uuid.UUID, storeCnpj string, price decimal.Decimal) error
		GetProduct(ctx context.Context, id string) (domain.ProductResponse, error)
		GetProducts(ctx context.Context, query domain.ListProductsQuery) ([]domain.ProductResponse, int64, error)
		UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) error
		DeleteProduct(ctx context.Context, id string) error
		GetPriceHistory(ctx context.Context, productID string, storeCnpj string, limit int) ([]domain.PriceEntryResponse, error)
		ComparePrices(ctx context.Context, productID string) ([]domain.PriceComparisonResponse, error)
	}

	productService struct {
		productRepository ProductRepository
	}
)

func NewProductService(productRepository ProductRepository) ProductService {
	return &productService{productRepository: productRepository}
}

// FindOrCreate resolves a raw line-item name to a stable catalog entry.
// An existing product is returned untouched: the first-seen display name
// and category are never overwritten by later encounters.
func (s *productService) FindOrCreate(ctx context.Context, rawName string, unit string) (*entities.Product, error) {
	normalizedName := Normalize(rawName)

	existing, err := s.productRepository.GetProductByNormalizedName(ctx, normalizedName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if unit == "" {
		unit = "UN"
	}
	category := Categorize(rawName)

	newProduct := &entities.Product{
		ID:             uuid.New(),
		Name:           rawName,
		NormalizedName: normalizedName,
		Category:       &category,
		Unit:           unit,
	}

	if err := s.productRepository.CreateProduct(ctx, newProduct); err != nil {
		// A concurrent ingestion may have inserted the same normalized name
		// first. The unique index is the authority, so re-read the winner
		// instead of surfacing the conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.productRepository.GetProductByNormalizedName(ctx, normalizedName)
		}
		return nil, err
	}

	return newProduct, nil
}

// RegisterPrice appends one observation to the price history. No dedup, no
// value validation: negative or zero prices from the source document are
// stored as-is.
func (s *productService) RegisterPrice(ctx context.Context, productID uuid.UUID, storeCnpj string, price decimal.Decimal) error {
	entry := &entities.PriceEntry{
		ID:        uuid.New(),
		ProductID: productID,
		StoreCnpj: storeCnpj,
		Price:     price,
	}
	if err := s.productRepository.CreatePriceEntry(ctx, entry); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (domain.ProductResponse, error) {
	p, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProductResponse{}, domain.ErrProductNotFound
		}
		return domain.ProductResponse{}, err
	}
	return toProductResponse(p), nil
}

func (s *productService) GetProducts(ctx context.Context, query domain.ListProductsQuery) ([]domain.ProductResponse, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 20
	}

	products, count, err := s.productRepository.GetProducts(ctx, query.Search, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p))
	}
	return response, count, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) error {
	p, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}

	if req.Name != "" {
		p.Name = req.Name
		p.NormalizedName = Normalize(req.Name)
	}
	if req.Category != "" {
		p.Category = &req.Category
	}
	if req.Unit != "" {
		p.Unit = req.Unit
	}

	return s.productRepository.UpdateProduct(ctx, p)
}

// DeleteProduct refuses to remove a product that is still referenced by
// receipt items anywhere in the system.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.productRepository.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}

	references, err := s.productRepository.CountReceiptItems(ctx, id)
	if err != nil {
		return err
	}
	if references > 0 {
		return domain.ErrProductInUse
	}

	return s.productRepository.DeleteProduct(ctx, id)
}

func (s *productService) GetPriceHistory(ctx context.Context, productID string, storeCnpj string, limit int) ([]domain.PriceEntryResponse, error) {
	if limit < 1 {
		limit = 30
	}

	entries, err := s.productRepository.GetPriceHistory(ctx, productID, storeCnpj, limit)
	if err != nil {
		return nil, err
	}

	response := make([]domain.PriceEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, domain.PriceEntryResponse{
			StoreCnpj:  entry.StoreCnpj,
			Price:      entry.Price,
			RecordedAt: entry.RecordedAt,
		})
	}
	return response, nil
}

// ComparePrices reduces the history to the latest observation per store,
// cheapest first. "Latest" is the most recent observation; same-timestamp
// ties resolve to the later insert.
func (s *productService) ComparePrices(ctx context.Context, productID string) ([]domain.PriceComparisonResponse, error) {
	entries, err := s.productRepository.GetPriceEntries(ctx, productID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]*entities.PriceEntry)
	for _, entry := range entries {
		latest[entry.StoreCnpj] = entry
	}

	response := make([]domain.PriceComparisonResponse, 0, len(latest))
	for storeCnpj, entry := range latest {
		storeName, err := s.productRepository.GetStoreName(ctx, storeCnpj)
		if err != nil {
			return nil, err
		}
		response = append(response, domain.PriceComparisonResponse{
			StoreCnpj:   storeCnpj,
			StoreName:   storeName,
			Price:       entry.Price,
			LastUpdated: entry.RecordedAt,
		})
	}

	sort.Slice(response, func(i, j int) bool {
		if response[i].Price.Equal(response[j].Price) {
			return response[i].StoreCnpj < response[j].StoreCnpj
		}
		return response[i].Price.LessThan(response[j].Price)
	})
	return response, nil
}

func toProductResponse(p *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		NormalizedName: p.NormalizedName,
		Category:       p.Category,
		Unit:           p.Unit,
	}
}
