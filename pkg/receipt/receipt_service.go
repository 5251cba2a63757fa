package receipt

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/entities"
	"NotaScan-Backend/internal/utils/mailing"
	"NotaScan-Backend/internal/utils/storage"
	"NotaScan-Backend/pkg/nfce"
	"NotaScan-Backend/pkg/product"
	"NotaScan-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ReceiptService interface {
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error)
		GetReceipts(ctx context.Context, userID string, query domain.ListReceiptsQuery) ([]domain.ReceiptResponse, int64, error)
		GetReceiptDetails(ctx context.Context, id string, userID string) (domain.ReceiptDetailsResponse, error)
		DeleteReceipt(ctx context.Context, id string, userID string) error
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		userRepository    user.UserRepository
		productService    product.ProductService
		products          ProductsResolver
		fetcher           nfce.DocumentFetcher
		s3                storage.AwsS3
	}
)

func NewReceiptService(
	receiptRepository ReceiptRepository,
	userRepository user.UserRepository,
	productService product.ProductService,
	products ProductsResolver,
	fetcher nfce.DocumentFetcher,
	s3 storage.AwsS3,
) ReceiptService {
	return &receiptService{
		receiptRepository: receiptRepository,
		userRepository:    userRepository,
		productService:    productService,
		products:          products,
		fetcher:           fetcher,
		s3:                s3,
	}
}

// UploadReceipt runs one ingestion end to end: duplicate pre-check, fetch,
// parse, per-item reconciliation and price recording, then one atomic
// persist. It returns only after the transaction commits or definitively
// fails; every failure carries one of the domain sentinel errors.
func (s *receiptService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error) {
	if strings.TrimSpace(req.QRCodeData) == "" {
		return domain.UploadReceiptResponse{}, domain.ErrInvalidInput
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UploadReceiptResponse{}, domain.ErrParseUUID
	}

	// Advisory pre-check: cheap rejection before any fetch/parse work. The
	// unique index on (user_id, qr_code_data) remains the authority.
	exists, err := s.receiptRepository.ExistsByQRCode(ctx, userID, req.QRCodeData)
	if err != nil {
		return domain.UploadReceiptResponse{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if exists {
		return domain.UploadReceiptResponse{}, domain.ErrDuplicateReceipt
	}

	rawXML, err := s.fetcher.Fetch(ctx, req.QRCodeData)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	parsed, err := nfce.Parse(rawXML)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	// Reconcile every item and record its price before persistence begins.
	// Product and price rows created here are shared state and are kept even
	// if a later stage fails; only the receipt itself is transactional.
	items := make([]*entities.ReceiptItem, 0, len(parsed.Items))
	for position, parsedItem := range parsed.Items {
		resolved, err := s.products.Resolve(ctx, parsedItem.Name, parsedItem.Unit)
		if err != nil {
			return domain.UploadReceiptResponse{}, err
		}

		if err := s.productService.RegisterPrice(ctx, resolved.ID, parsed.StoreCnpj, parsedItem.UnitPrice); err != nil {
			return domain.UploadReceiptResponse{}, err
		}

		items = append(items, &entities.ReceiptItem{
			ID:                  uuid.New(),
			ProductID:           resolved.ID,
			ProductNameOriginal: parsedItem.Name,
			Quantity:            parsedItem.Quantity,
			UnitPrice:           parsedItem.UnitPrice,
			TotalPrice:          parsedItem.TotalPrice,
			Position:            position,
		})
	}

	xmlData := string(rawXML)
	newReceipt := &entities.Receipt{
		ID:            uuid.New(),
		UserID:        userUUID,
		QRCodeData:    req.QRCodeData,
		StoreName:     optional(parsed.StoreName),
		StoreCnpj:     optional(parsed.StoreCnpj),
		TotalAmount:   parsed.TotalAmount,
		PurchaseDate:  parsed.PurchaseDate,
		ReceiptNumber: optional(parsed.ReceiptNumber),
		XMLData:       &xmlData,
	}

	if err := s.receiptRepository.CreateReceiptWithItems(ctx, newReceipt, items); err != nil {
		// A concurrent identical upload may have won the race past the
		// advisory check; the loser surfaces the duplicate, not a failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UploadReceiptResponse{}, domain.ErrDuplicateReceipt
		}
		return domain.UploadReceiptResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	// Post-commit side effects are best-effort: failures are logged and
	// never affect the committed transaction.
	go s.sendConfirmation(newReceipt, len(items))
	go s.archiveDocument(newReceipt.ID, rawXML)

	itemResponses := make([]domain.ReceiptItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, toItemResponse(item))
	}

	return domain.UploadReceiptResponse{
		Receipt: toReceiptResponse(newReceipt, len(items)),
		Items:   itemResponses,
	}, nil
}

func (s *receiptService) GetReceipts(ctx context.Context, userID string, query domain.ListReceiptsQuery) ([]domain.ReceiptResponse, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	receipts, count, err := s.receiptRepository.GetReceipts(ctx, userID, query)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		response = append(response, toReceiptResponse(r, 0))
	}
	return response, count, nil
}

func (s *receiptService) GetReceiptDetails(ctx context.Context, id string, userID string) (domain.ReceiptDetailsResponse, error) {
	r, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptDetailsResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptDetailsResponse{}, err
	}

	if r.UserID.String() != userID {
		return domain.ReceiptDetailsResponse{}, domain.ErrUserNotAllowed
	}

	items, err := s.receiptRepository.GetReceiptItems(ctx, id)
	if err != nil {
		return domain.ReceiptDetailsResponse{}, err
	}

	itemResponses := make([]domain.ReceiptItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, toItemResponse(item))
	}

	return domain.ReceiptDetailsResponse{
		Receipt: toReceiptResponse(r, len(items)),
		Items:   itemResponses,
	}, nil
}

func (s *receiptService) DeleteReceipt(ctx context.Context, id string, userID string) error {
	r, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReceiptNotFound
		}
		return err
	}

	if r.UserID.String() != userID {
		return domain.ErrUserNotAllowed
	}

	return s.receiptRepository.DeleteReceipt(ctx, id)
}

func (s *receiptService) sendConfirmation(r *entities.Receipt, itemCount int) {
	owner, err := s.userRepository.GetUserByID(context.Background(), r.UserID.String())
	if err != nil {
		log.Printf("receipt %s: could not load owner for confirmation mail: %v", r.ID, err)
		return
	}

	storeName := "the store"
	if r.StoreName != nil {
		storeName = *r.StoreName
	}
	body := fmt.Sprintf(
		"<p>Your receipt from <b>%s</b> was processed: %d items, total R$ %s.</p>",
		storeName, itemCount, r.TotalAmount.StringFixed(2),
	)

	if err := mailing.SendMail(owner.Email, "Receipt processed", body); err != nil {
		log.Printf("receipt %s: confirmation mail failed: %v", r.ID, err)
	}
}

func (s *receiptService) archiveDocument(receiptID uuid.UUID, rawXML []byte) {
	if s.s3 == nil {
		return
	}
	objectKey := fmt.Sprintf("receipt-xml/%s.xml", receiptID)
	if _, err := s.s3.UploadBytes(objectKey, rawXML, "application/xml"); err != nil {
		log.Printf("receipt %s: xml archive failed: %v", receiptID, err)
	}
}

func toReceiptResponse(r *entities.Receipt, itemCount int) domain.ReceiptResponse {
	return domain.ReceiptResponse{
		ID:            r.ID.String(),
		StoreName:     r.StoreName,
		StoreCnpj:     r.StoreCnpj,
		TotalAmount:   r.TotalAmount,
		PurchaseDate:  r.PurchaseDate,
		ReceiptNumber: r.ReceiptNumber,
		ItemCount:     itemCount,
		CreatedAt:     r.CreatedAt,
	}
}

func toItemResponse(item *entities.ReceiptItem) domain.ReceiptItemResponse {
	return domain.ReceiptItemResponse{
		ID:          item.ID.String(),
		ProductID:   item.ProductID.String(),
		ProductName: item.ProductNameOriginal,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
