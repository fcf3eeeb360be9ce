package domain

import "github.com/shopspring/decimal"

// DashboardStats is the body of GET /api/admin/stats.
type DashboardStats struct {
	TotalRequests    int `json:"total_requests"`
	PendingRequests  int `json:"pending_requests"`
	TotalClients     int `json:"total_clients"`
	TotalProducts    int `json:"total_products"`
	LowStockProducts int `json:"low_stock_products"`

	Counts struct {
		TotalOrders   int `json:"total_orders"`
		PendingOrders int `json:"pending_orders"`
	} `json:"counts"`

	Financials struct {
		TotalRevenue decimal.Decimal `json:"total_revenue"`
	} `json:"financials"`
}
