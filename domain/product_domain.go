package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessNormalizeProduct = "product resolved successfully"
	MessageSuccessGetProducts      = "products retrieved successfully"
	MessageSuccessGetProduct       = "product retrieved successfully"
	MessageSuccessUpdateProduct    = "product updated successfully"
	MessageSuccessDeleteProduct    = "product deleted successfully"
	MessageSuccessGetPriceHistory  = "price history retrieved successfully"
	MessageSuccessComparePrices    = "price comparison retrieved successfully"

	MessageFailedNormalizeProduct = "failed to resolve product"
	MessageFailedGetProducts      = "failed to retrieve products"
	MessageFailedGetProduct       = "failed to retrieve product"
	MessageFailedUpdateProduct    = "failed to update product"
	MessageFailedDeleteProduct    = "failed to delete product"
	MessageFailedGetPriceHistory  = "failed to retrieve price history"
	MessageFailedComparePrices    = "failed to retrieve price comparison"

	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by receipt items")
)

type (
	NormalizeProductRequest struct {
		Name string `json:"name" validate:"required"`
		Unit string `json:"unit" validate:"omitempty"`
	}

	ProductResponse struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		NormalizedName string  `json:"normalized_name"`
		Category       *string `json:"category"`
		Unit           string  `json:"unit"`
	}

	NormalizeProductResponse struct {
		Product ProductResponse `json:"product"`
	}

	UpdateProductRequest struct {
		Name     string `json:"name" validate:"omitempty"`
		Category string `json:"category" validate:"omitempty"`
		Unit     string `json:"unit" validate:"omitempty"`
	}

	ListProductsQuery struct {
		Search string `query:"search"`
		Page   int    `query:"page"`
		Limit  int    `query:"limit"`
	}

	PriceEntryResponse struct {
		StoreCnpj  string          `json:"store_cnpj"`
		Price      decimal.Decimal `json:"price"`
		RecordedAt time.Time       `json:"recorded_at"`
	}

	PriceComparisonResponse struct {
		StoreCnpj   string          `json:"store_cnpj"`
		StoreName   *string         `json:"store_name"`
		Price       decimal.Decimal `json:"price"`
		LastUpdated time.Time       `json:"last_updated"`
	}
)
