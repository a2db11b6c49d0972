package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	db := s.db.WithContext(ctx)
	stats := &dto.StatsResponse{TotalRevenue: decimal.Zero}

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total), 0)").Row().Scan(&revenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}
	return stats, nil
}
