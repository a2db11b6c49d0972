package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxProductList = 100
	defaultStock   = 100
)

// ProductListCache is satisfied by cache.CatalogCache.
type ProductListCache interface {
	GetList(ctx context.Context, filter dto.ProductFilter) (products []models.Product, key string, ok bool)
	SetList(ctx context.Context, key string, products []models.Product)
	Invalidate(ctx context.Context)
}

type CatalogService struct {
	db    *gorm.DB
	cache ProductListCache
}

// NewCatalogService builds the catalog. cache may be nil.
func NewCatalogService(db *gorm.DB, cache ProductListCache) *CatalogService {
	return &CatalogService{db: db, cache: cache}
}

func (s *CatalogService) List(ctx context.Context, filter dto.ProductFilter) ([]models.Product, error) {
	var cacheKey string
	if s.cache != nil {
		products, key, ok := s.cache.GetList(ctx, filter)
		if ok {
			return products, nil
		}
		cacheKey = key
	}

	q := s.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}

	products := make([]models.Product, 0)
	if err := q.Order("created_at DESC").Limit(maxProductList).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cache != nil {
		s.cache.SetList(ctx, cacheKey, products)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	stock := defaultStock
	if req.Stock != nil {
		stock = *req.Stock
	}

	product := models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Images:      stringSlice(req.Images),
		Sizes:       stringSlice(req.Sizes),
		Colors:      stringSlice(req.Colors),
		Brand:       req.Brand,
		Stock:       stock,
		Featured:    req.Featured,
	}
	if err := validateProduct(&product); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate(ctx)
	return &product, nil
}

// Update merges only the fields present in req.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	updates, err := productUpdates(req)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	s.invalidate(ctx)

	return s.Get(ctx, id)
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func productUpdates(req *dto.UpdateProductRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, invalid("price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, invalid("category must not be empty")
		}
		updates["category"] = category
	}
	if req.Images != nil {
		updates["images"] = stringSlice(*req.Images)
	}
	if req.Sizes != nil {
		updates["sizes"] = stringSlice(*req.Sizes)
	}
	if req.Colors != nil {
		updates["colors"] = stringSlice(*req.Colors)
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, invalid("stock must not be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	return updates, nil
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return invalid("name is required")
	case p.Category == "":
		return invalid("category is required")
	case p.Price.IsNegative():
		return invalid("price must not be negative")
	case p.Stock < 0:
		return invalid("stock must not be negative")
	}
	return nil
}

func stringSlice(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
