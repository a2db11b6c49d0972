package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

const (
	maxUserOrders  = 50
	maxAdminOrders = 100
)

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) ListForUser(ctx context.Context, user *models.User) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(maxUserOrders).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(maxAdminOrders).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ExportAll writes every order as an xlsx workbook, newest first.
func (s *OrderService) ExportAll(ctx context.Context, w io.Writer) error {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	emails, err := s.ownerEmails(ctx, orders)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"ID", "UserID", "Email", "Items", "Quantity", "Total", "Status", "PaymentSessionID", "CreatedAt"} {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID.String())
		row.AddCell().SetValue(o.UserID.String())
		row.AddCell().SetValue(emails[o.UserID])
		row.AddCell().SetValue(itemSummary(o.Items))
		row.AddCell().SetValue(totalQuantity(o.Items))
		row.AddCell().SetValue(o.Total.StringFixed(2))
		row.AddCell().SetValue(o.Status)
		row.AddCell().SetValue(o.PaymentSessionID)
		row.AddCell().SetValue(o.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *OrderService) ownerEmails(ctx context.Context, orders []models.Order) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	if len(orders) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		if _, ok := seen[o.UserID]; !ok {
			seen[o.UserID] = struct{}{}
			ids = append(ids, o.UserID)
		}
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load order owners: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Email
	}
	return out, nil
}

// itemSummary renders items as "product x qty (size/color)" separated by "; ".
func itemSummary(items []models.CartItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d (%s/%s)", item.ProductID, item.Quantity, item.Size, item.Color))
	}
	return strings.Join(parts, "; ")
}

func totalQuantity(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
