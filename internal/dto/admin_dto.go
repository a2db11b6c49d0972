package dto

import "github.com/shopspring/decimal"

type StatsResponse struct {
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalUsers    int64           `json:"total_users"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}
