package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryListCache struct {
	lists       map[string][]models.Product
	version     int
	invalidated int
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{lists: make(map[string][]models.Product)}
}

func (c *memoryListCache) key(f dto.ProductFilter) string {
	k := fmt.Sprintf("v%d:*", c.version)
	if f.Category != nil {
		k = fmt.Sprintf("v%d:%s", c.version, *f.Category)
	}
	if f.Featured != nil && *f.Featured {
		k += ":featured"
	}
	return k
}

func (c *memoryListCache) GetList(_ context.Context, f dto.ProductFilter) ([]models.Product, string, bool) {
	key := c.key(f)
	p, ok := c.lists[key]
	return p, key, ok
}

func (c *memoryListCache) SetList(_ context.Context, key string, products []models.Product) {
	c.lists[key] = products
}

func (c *memoryListCache) Invalidate(context.Context) {
	c.invalidated++
	c.version++
}

func ptr[T any](v T) *T { return &v }

func TestCatalogListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil)
	ctx := context.Background()

	createProduct(t, db, "Oxford", "men", "485", true)
	createProduct(t, db, "Loafer", "men", "425", false)
	createProduct(t, db, "Sandal", "women", "345", true)

	all, err := svc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	men, err := svc.List(ctx, dto.ProductFilter{Category: ptr("men")})
	require.NoError(t, err)
	assert.Len(t, men, 2)

	featuredMen, err := svc.List(ctx, dto.ProductFilter{Category: ptr("men"), Featured: ptr(true)})
	require.NoError(t, err)
	require.Len(t, featuredMen, 1)
	assert.Equal(t, "Oxford", featuredMen[0].Name)

	none, err := svc.List(ctx, dto.ProductFilter{Category: ptr("kids")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCatalogCreateDefaultsStock(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t), nil)

	product, err := svc.Create(context.Background(), &dto.CreateProductRequest{
		Name:     "Chelsea Boot",
		Price:    decimal.RequireFromString("545.00"),
		Category: "men",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, product.Stock)
	assert.NotEqual(t, uuid.Nil, product.ID)

	_, err = svc.Create(context.Background(), &dto.CreateProductRequest{
		Name:     "Broken",
		Price:    decimal.NewFromInt(-1),
		Category: "men",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogUpdateMergesProvidedFields(t *testing.T) {
	db := testutil.NewDB(t)
	cache := newMemoryListCache()
	svc := NewCatalogService(db, cache)
	ctx := context.Background()
	product := createProduct(t, db, "Oxford", "men", "485", true)

	updated, err := svc.Update(ctx, product.ID, &dto.UpdateProductRequest{
		Price:    ptr(decimal.RequireFromString("499.50")),
		Featured: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Oxford", updated.Name)
	assert.Equal(t, "men", updated.Category)
	assert.Equal(t, "499.50", updated.Price.StringFixed(2))
	assert.False(t, updated.Featured)
	assert.Equal(t, 1, cache.invalidated)

	_, err = svc.Update(ctx, product.ID, &dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	_, err = svc.Update(ctx, uuid.New(), &dto.UpdateProductRequest{Name: ptr("Ghost")})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(db, nil)
	ctx := context.Background()
	product := createProduct(t, db, "Oxford", "men", "485", true)

	require.NoError(t, svc.Delete(ctx, product.ID))

	_, err := svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, product.ID), ErrProductNotFound)
}

func TestCatalogListUsesCache(t *testing.T) {
	db := testutil.NewDB(t)
	cache := newMemoryListCache()
	svc := NewCatalogService(db, cache)
	ctx := context.Background()

	createProduct(t, db, "Oxford", "men", "485", true)
	first, err := svc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Written behind the service's back, so only a cache miss would see it.
	createProduct(t, db, "Loafer", "men", "425", false)
	cached, err := svc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	_, err = svc.Create(ctx, &dto.CreateProductRequest{Name: "Boot", Price: decimal.NewFromInt(10), Category: "men"})
	require.NoError(t, err)
	fresh, err := svc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}
