package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

type AdminService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	Users(ctx context.Context) ([]domain.User, error)
}

// ListFilter is the common paging/date filter of the finance and order lists.
type ListFilter struct {
	Status    string
	Category  string
	Type      string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

type OrderService interface {
	List(ctx context.Context, filter ListFilter) (*domain.OrderList, error)
	UpdateStatus(ctx context.Context, id domain.ID, status, notes string) error
	UpdatePaymentStatus(ctx context.Context, id domain.ID, status string) error
	Invoice(ctx context.Context, id domain.ID) (*domain.Invoice, error)
}

// ExpenseInput is the multipart body for expense create/update.
type ExpenseInput struct {
	Category    string `validate:"required"`
	Amount      decimal.Decimal
	Description string `validate:"required"`
	Status      string `validate:"omitempty,oneof=pending approved rejected paid"`
	Receipt     *FormFile
	ReceiptURL  string
}

type ExpenseService interface {
	List(ctx context.Context, filter ListFilter) (*domain.ExpenseList, error)
	Create(ctx context.Context, input ExpenseInput) (*domain.Expense, error)
	Update(ctx context.Context, id domain.ID, input ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, id domain.ID) error
}

type TransactionService interface {
	List(ctx context.Context, filter ListFilter) (*domain.TransactionList, error)
	RevenueSummary(ctx context.Context, period string) (*domain.RevenueSummary, error)
}
