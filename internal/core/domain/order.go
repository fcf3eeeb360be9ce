package domain

import "github.com/shopspring/decimal"

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID   ID              `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is a product order placed by a client.
type Order struct {
	ID              ID              `json:"id"`
	OrderNumber     string          `json:"order_number"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email,omitempty"`
	ClientPhone     string          `json:"client_phone,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	Items           []OrderItem     `json:"items,omitempty"`
	ItemsCount      int             `json:"items_count"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       *Timestamp      `json:"created_at,omitempty"`
}

// OrderList is the body of GET /api/admin/orders.
type OrderList struct {
	Orders []Order `json:"orders"`
	Page
}

// Invoice is the body of GET /api/admin/orders/{id}/invoice.
type Invoice struct {
	InvoiceURL string `json:"invoice_url"`
}
