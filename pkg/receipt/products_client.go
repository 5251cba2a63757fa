package receipt

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/entities"
	"NotaScan-Backend/internal/utils"
	"NotaScan-Backend/pkg/product"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type (
	// ProductsResolver finds or creates the catalog entry for a raw line
	// item. When a dedicated products service is configured it is asked
	// first; on any failure resolution degrades to the in-process catalog
	// instead of failing the ingestion.
	ProductsResolver interface {
		Resolve(ctx context.Context, name string, unit string) (*entities.Product, error)
	}

	productsResolver struct {
		catalog    product.ProductService
		client     *http.Client
		serviceURL string
	}
)

func NewProductsResolver(catalog product.ProductService) ProductsResolver {
	return &productsResolver{
		catalog:    catalog,
		client:     &http.Client{Timeout: 5 * time.Second},
		serviceURL: utils.GetConfig("PRODUCTS_SERVICE_URL"),
	}
}

func (r *productsResolver) Resolve(ctx context.Context, name string, unit string) (*entities.Product, error) {
	if r.serviceURL == "" {
		return r.catalog.FindOrCreate(ctx, name, unit)
	}

	resolved, err := r.resolveRemote(ctx, name, unit)
	if err != nil {
		log.Printf("products service unavailable, falling back to local catalog: %v", err)
		return r.catalog.FindOrCreate(ctx, name, unit)
	}
	return resolved, nil
}

func (r *productsResolver) resolveRemote(ctx context.Context, name string, unit string) (*entities.Product, error) {
	requestBody, err := json.Marshal(domain.NormalizeProductRequest{Name: name, Unit: unit})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.serviceURL+"/normalize", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("products service returned %s: %s", resp.Status, string(body))
	}

	var normalizeResp struct {
		Product domain.ProductResponse `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&normalizeResp); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(normalizeResp.Product.ID)
	if err != nil {
		return nil, fmt.Errorf("products service returned invalid product id %q", normalizeResp.Product.ID)
	}

	return &entities.Product{
		ID:             productID,
		Name:           normalizeResp.Product.Name,
		NormalizedName: normalizeResp.Product.NormalizedName,
		Category:       normalizeResp.Product.Category,
		Unit:           normalizeResp.Product.Unit,
	}, nil
}
