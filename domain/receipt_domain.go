package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessUploadReceipt  = "receipt processed successfully"
	MessageSuccessGetReceipts    = "receipts retrieved successfully"
	MessageSuccessGetReceipt     = "receipt retrieved successfully"
	MessageSuccessDeleteReceipt  = "receipt deleted successfully"

	MessageFailedUploadReceipt   = "failed to process receipt"
	MessageFailedDuplicate       = "receipt already uploaded"
	MessageFailedFetchDocument   = "could not fetch fiscal document"
	MessageFailedInvalidPayload  = "QR code could not be resolved to a fiscal document"
	MessageFailedParseDocument   = "invalid receipt data or QR code"
	MessageFailedGetReceipts     = "failed to retrieve receipts"
	MessageFailedGetReceipt      = "failed to retrieve receipt"
	MessageFailedDeleteReceipt   = "failed to delete receipt"
	MessageFailedReceiptNotFound = "receipt not found"

	// Ingestion error taxonomy. Handlers switch on these to pick the
	// status code; none of them is ever swallowed inside the pipeline.
	ErrInvalidInput       = errors.New("invalid ingestion input")
	ErrDuplicateReceipt   = errors.New("receipt already uploaded")
	ErrUnreachableSource  = errors.New("fiscal document source unreachable")
	ErrInvalidPayload     = errors.New("qr payload cannot be resolved to a document")
	ErrMalformedDocument  = errors.New("malformed fiscal document")
	ErrPersistenceFailed  = errors.New("receipt persistence failed")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrReceiptNotFound = errors.New("receipt not found")
)

type (
	UploadReceiptRequest struct {
		QRCodeData string `json:"qr_code_data" validate:"required,min=10,max=1000"`
	}

	ReceiptResponse struct {
		ID            string          `json:"id"`
		StoreName     *string         `json:"store_name"`
		StoreCnpj     *string         `json:"store_cnpj"`
		TotalAmount   decimal.Decimal `json:"total_amount"`
		PurchaseDate  time.Time       `json:"purchase_date"`
		ReceiptNumber *string         `json:"receipt_number,omitempty"`
		ItemCount     int             `json:"item_count"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	ReceiptItemResponse struct {
		ID          string          `json:"id"`
		ProductID   string          `json:"product_id"`
		ProductName string          `json:"product_name"`
		Quantity    decimal.Decimal `json:"quantity"`
		UnitPrice   decimal.Decimal `json:"unit_price"`
		TotalPrice  decimal.Decimal `json:"total_price"`
	}

	UploadReceiptResponse struct {
		Receipt ReceiptResponse       `json:"receipt"`
		Items   []ReceiptItemResponse `json:"items"`
	}

	ReceiptDetailsResponse struct {
		Receipt ReceiptResponse       `json:"receipt"`
		Items   []ReceiptItemResponse `json:"items"`
	}

	ListReceiptsQuery struct {
		Page      int    `query:"page"`
		Limit     int    `query:"limit"`
		StartDate string `query:"start_date"`
		EndDate   string `query:"end_date"`
		StoreName string `query:"store_name"`
	}
)
