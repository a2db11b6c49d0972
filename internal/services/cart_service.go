package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartService owns the per-user cart. Writers take a row lock on the cart
// for the read-modify-write of its item list, so concurrent add/update calls
// for one user apply one after another.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Get returns the populated cart, creating an empty one on first access.
func (s *CartService) Get(ctx context.Context, user *models.User) (*dto.CartResponse, error) {
	cart, err := ensureCart(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *CartService) Add(ctx context.Context, user *models.User, req *dto.CartItemRequest) error {
	item, err := parseCartItem(req)
	if err != nil {
		return err
	}
	if item.Quantity < 1 {
		return invalid("quantity must be at least 1")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", item.ProductID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return ErrProductNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureCart(ctx, tx, user.ID); err != nil {
			return err
		}
		cart, err := lockCart(tx, user.ID)
		if err != nil {
			return err
		}
		return saveItems(tx, cart, mergeItem(cart.Items, item))
	})
}

// Update sets the quantity of the matching line, removing it when quantity
// is zero or less. A missing line is a successful no-op, and so is a
// malformed product_id, which cannot match any line.
func (s *CartService) Update(ctx context.Context, user *models.User, req *dto.CartItemRequest) error {
	item, parseErr := parseCartItem(req)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}
		if parseErr != nil {
			return nil
		}

		items, changed := setItemQuantity(cart.Items, item)
		if !changed {
			return nil
		}
		return saveItems(tx, cart, items)
	})
}

// Clear empties the cart without creating one.
func (s *CartService) Clear(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Model(&models.Cart{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{
			"items":      datatypes.JSONSlice[models.CartItem]{},
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *CartService) populate(ctx context.Context, cart *models.Cart) (*dto.CartResponse, error) {
	resp := &dto.CartResponse{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]dto.PopulatedCartItem, 0, len(cart.Items)),
		Subtotal:  decimal.Zero,
		UpdatedAt: cart.UpdatedAt,
	}

	products, err := productsByID(ctx, s.db, cart.Items)
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		if !item.Valid() {
			slog.Warn("dropping malformed cart item", "cart_id", cart.ID.String(), "product_id", item.ProductID.String(), "quantity", item.Quantity)
			continue
		}
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		resp.Items = append(resp.Items, dto.PopulatedCartItem{CartItem: item, Product: product})
		resp.Subtotal = resp.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return resp, nil
}

// ensureCart creates the user's cart if absent and returns the stored row.
// Concurrent first accesses converge on the same cart via the unique user_id.
func ensureCart(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	fresh := models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  datatypes.JSONSlice[models.CartItem]{},
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&fresh).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	var cart models.Cart
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

func lockCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func saveItems(tx *gorm.DB, cart *models.Cart, items []models.CartItem) error {
	err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"items":      datatypes.JSONSlice[models.CartItem](items),
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// productsByID loads the current products referenced by items in one query.
func productsByID(ctx context.Context, db *gorm.DB, items []models.CartItem) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product)
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID != uuid.Nil {
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func parseCartItem(req *dto.CartItemRequest) (models.CartItem, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return models.CartItem{}, invalid("a valid product_id is required")
	}
	return models.CartItem{
		ProductID: productID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	}, nil
}

// mergeItem increments the matching line or appends a new one.
func mergeItem(items []models.CartItem, add models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if out[i].Matches(add.ProductID, add.Size, add.Color) {
			out[i].Quantity += add.Quantity
			return out
		}
	}
	return append(out, add)
}

// setItemQuantity applies an absolute quantity to the matching line.
func setItemQuantity(items []models.CartItem, set models.CartItem) ([]models.CartItem, bool) {
	for i, item := range items {
		if !item.Matches(set.ProductID, set.Size, set.Color) {
			continue
		}
		out := make([]models.CartItem, 0, len(items))
		out = append(out, items[:i]...)
		if set.Quantity > 0 {
			item.Quantity = set.Quantity
			out = append(out, item)
		}
		out = append(out, items[i+1:]...)
		return out, true
	}
	return items, false
}
