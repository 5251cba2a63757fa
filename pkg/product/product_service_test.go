package product

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Product{},
		&entities.Receipt{},
		&entities.ReceiptItem{},
		&entities.PriceEntry{},
	))
	return db
}

func TestFindOrCreateDeduplicatesNameVariants(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(NewProductRepository(db))
	ctx := context.Background()

	first, err := service.FindOrCreate(ctx, "AÇÚCAR CRISTAL 1 KILO", "UN")
	require.NoError(t, err)

	second, err := service.FindOrCreate(ctx, "Acucar  Cristal 1 kg", "KG")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// First-seen display name and category survive later encounters.
	assert.Equal(t, "AÇÚCAR CRISTAL 1 KILO", second.Name)
	assert.Equal(t, "acucar cristal 1 kg", second.NormalizedName)

	var count int64
	require.NoError(t, db.Model(&entities.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateAssignsCategoryAndUnit(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(NewProductRepository(db))

	created, err := service.FindOrCreate(context.Background(), "FEIJÃO CARIOCA", "")
	require.NoError(t, err)

	require.NotNil(t, created.Category)
	assert.Equal(t, "Grãos e Cereais", *created.Category)
	assert.Equal(t, "UN", created.Unit)
}

// racingRepository inserts a competing row right before the delegated
// create, so the create genuinely hits the unique index the way a
// concurrent ingestion would.
type racingRepository struct {
	ProductRepository
	db     *gorm.DB
	winner *entities.Product
	raced  bool
}

func (r *racingRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	if !r.raced {
		r.raced = true
		if err := r.db.Create(r.winner).Error; err != nil {
			return err
		}
	}
	return r.ProductRepository.CreateProduct(ctx, product)
}

func TestFindOrCreateRecoversFromConcurrentInsert(t *testing.T) {
	db := setupTestDB(t)
	winner := &entities.Product{
		ID:             uuid.New(),
		Name:           "LEITE INTEGRAL 1 LITRO",
		NormalizedName: "leite integral 1 l",
		Unit:           "UN",
	}
	repository := &racingRepository{
		ProductRepository: NewProductRepository(db),
		db:                db,
		winner:            winner,
	}
	service := NewProductService(repository)

	resolved, err := service.FindOrCreate(context.Background(), "Leite Integral 1 L", "UN")
	require.NoError(t, err)

	// The loser of the race adopts the winner's row instead of failing.
	assert.Equal(t, winner.ID, resolved.ID)
	assert.Equal(t, winner.Name, resolved.Name)

	var count int64
	require.NoError(t, db.Model(&entities.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterPriceAppendsHistory(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(NewProductRepository(db))
	ctx := context.Background()

	created, err := service.FindOrCreate(ctx, "CAFE TORRADO 500 G", "UN")
	require.NoError(t, err)

	require.NoError(t, service.RegisterPrice(ctx, created.ID, "11222333000144", decimal.RequireFromString("18.90")))
	require.NoError(t, service.RegisterPrice(ctx, created.ID, "11222333000144", decimal.RequireFromString("17.50")))
	require.NoError(t, service.RegisterPrice(ctx, created.ID, "55666777000188", decimal.RequireFromString("19.10")))

	history, err := service.GetPriceHistory(ctx, created.ID.String(), "11222333000144", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Price.Equal(decimal.RequireFromString("17.50")), "newest observation comes first")

	all, err := service.GetPriceHistory(ctx, created.ID.String(), "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestComparePricesLatestPerStoreCheapestFirst(t *testing.T) {
	db := setupTestDB(t)
	repository := NewProductRepository(db)
	service := NewProductService(repository)
	ctx := context.Background()

	created, err := service.FindOrCreate(ctx, "ARROZ BRANCO 5 KG", "UN")
	require.NoError(t, err)

	storeName := "Mercado Central"
	require.NoError(t, db.Create(&entities.Receipt{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		QRCodeData:  "store-name-source",
		StoreName:   &storeName,
		StoreCnpj:   strPtr("11222333000144"),
		TotalAmount: decimal.RequireFromString("25.90"),
	}).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []*entities.PriceEntry{
		{ID: uuid.New(), ProductID: created.ID, StoreCnpj: "11222333000144", Price: decimal.RequireFromString("25.90"), RecordedAt: base},
		{ID: uuid.New(), ProductID: created.ID, StoreCnpj: "11222333000144", Price: decimal.RequireFromString("27.40"), RecordedAt: base.Add(48 * time.Hour)},
		{ID: uuid.New(), ProductID: created.ID, StoreCnpj: "55666777000188", Price: decimal.RequireFromString("26.10"), RecordedAt: base.Add(24 * time.Hour)},
	}
	for _, entry := range entries {
		require.NoError(t, repository.CreatePriceEntry(ctx, entry))
	}

	comparison, err := service.ComparePrices(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, comparison, 2)

	// Only the latest observation per store counts, then cheapest first.
	assert.Equal(t, "55666777000188", comparison[0].StoreCnpj)
	assert.True(t, comparison[0].Price.Equal(decimal.RequireFromString("26.10")))
	assert.Equal(t, "11222333000144", comparison[1].StoreCnpj)
	assert.True(t, comparison[1].Price.Equal(decimal.RequireFromString("27.40")))
	require.NotNil(t, comparison[1].StoreName)
	assert.Equal(t, "Mercado Central", *comparison[1].StoreName)
}

func TestUpdateProductRenameRebuildsNormalizedName(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(NewProductRepository(db))
	ctx := context.Background()

	created, err := service.FindOrCreate(ctx, "MACARRAO ESPAGUETE", "UN")
	require.NoError(t, err)

	require.NoError(t, service.UpdateProduct(ctx, created.ID.String(), domain.UpdateProductRequest{
		Name: "MACARRÃO ESPAGUETE 500 GRAMAS",
	}))

	updated, err := service.GetProduct(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "macarrao espaguete 500 g", updated.NormalizedName)
}

func TestDeleteProductRefusesWhenReferenced(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(NewProductRepository(db))
	ctx := context.Background()

	created, err := service.FindOrCreate(ctx, "TOMATE ITALIANO", "KG")
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.ReceiptItem{
		ID:                  uuid.New(),
		ReceiptID:           uuid.New(),
		ProductID:           created.ID,
		ProductNameOriginal: "TOMATE ITALIANO",
		Quantity:            decimal.RequireFromString("0.750"),
		UnitPrice:           decimal.RequireFromString("8.90"),
		TotalPrice:          decimal.RequireFromString("6.68"),
	}).Error)

	err = service.DeleteProduct(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrProductInUse)
}

func TestDeleteProductRemovesUnreferenced(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(NewProductRepository(db))
	ctx := context.Background()

	created, err := service.FindOrCreate(ctx, "GUARDANAPO DE PAPEL", "PCT")
	require.NoError(t, err)

	require.NoError(t, service.DeleteProduct(ctx, created.ID.String()))

	_, err = service.GetProduct(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func strPtr(s string) *string {
	return &s
}
