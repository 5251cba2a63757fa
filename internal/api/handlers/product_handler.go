package handlers

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/internal/api/presenters"
	"NotaScan-Backend/pkg/product"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ProductHandler interface {
		NormalizeProduct(c *fiber.Ctx) error
		GetProducts(c *fiber.Ctx) error
		GetProductDetails(c *fiber.Ctx) error
		UpdateProduct(c *fiber.Ctx) error
		DeleteProduct(c *fiber.Ctx) error
		GetPriceHistory(c *fiber.Ctx) error
		ComparePrices(c *fiber.Ctx) error
	}

	productHandler struct {
		productService product.ProductService
		validator      *validator.Validate
	}
)

func NewProductHandler(productService product.ProductService, validator *validator.Validate) ProductHandler {
	return &productHandler{
		productService: productService,
		validator:      validator,
	}
}

// NormalizeProduct is the find-or-create endpoint the receipt ingestion can
// delegate to when products run as a separate service.
func (h *productHandler) NormalizeProduct(c *fiber.Ctx) error {
	req := new(domain.NormalizeProductRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNormalizeProduct, err)
	}

	resolved, err := h.productService.FindOrCreate(c.Context(), req.Name, req.Unit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedNormalizeProduct, err)
	}

	return presenters.SuccessResponse(c, domain.NormalizeProductResponse{
		Product: domain.ProductResponse{
			ID:             resolved.ID.String(),
			Name:           resolved.Name,
			NormalizedName: resolved.NormalizedName,
			Category:       resolved.Category,
			Unit:           resolved.Unit,
		},
	}, fiber.StatusOK, domain.MessageSuccessNormalizeProduct)
}

func (h *productHandler) GetProducts(c *fiber.Ctx) error {
	query := domain.ListProductsQuery{
		Search: c.Query("search"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}

	products, count, err := h.productService.GetProducts(c.Context(), query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetProducts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"products": products,
		"pagination": fiber.Map{
			"page":  query.Page,
			"limit": query.Limit,
			"total": count,
		},
	}, fiber.StatusOK, domain.MessageSuccessGetProducts)
}

func (h *productHandler) GetProductDetails(c *fiber.Ctx) error {
	res, err := h.productService.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetProduct, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProduct)
}

func (h *productHandler) UpdateProduct(c *fiber.Ctx) error {
	req := new(domain.UpdateProductRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProduct, err)
	}

	if err := h.productService.UpdateProduct(c.Context(), c.Params("id"), *req); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateProduct, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateProduct, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateProduct)
}

func (h *productHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteProduct, err)
		case errors.Is(err, domain.ErrProductInUse):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedDeleteProduct, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteProduct, err)
		}
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteProduct)
}

func (h *productHandler) GetPriceHistory(c *fiber.Ctx) error {
	entries, err := h.productService.GetPriceHistory(
		c.Context(),
		c.Params("id"),
		c.Query("store_cnpj"),
		c.QueryInt("limit", 30),
	)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPriceHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"prices": entries}, fiber.StatusOK, domain.MessageSuccessGetPriceHistory)
}

func (h *productHandler) ComparePrices(c *fiber.Ctx) error {
	comparison, err := h.productService.ComparePrices(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedComparePrices, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"stores": comparison}, fiber.StatusOK, domain.MessageSuccessComparePrices)
}
