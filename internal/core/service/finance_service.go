package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

func listQuery(f ports.ListFilter) url.Values {
	q := pagingQuery(f.Page, f.Limit)
	setIfNotEmpty(q, "status", f.Status)
	setIfNotEmpty(q, "category", f.Category)
	setIfNotEmpty(q, "type", f.Type)
	setIfNotEmpty(q, "start_date", f.StartDate)
	setIfNotEmpty(q, "end_date", f.EndDate)
	return q
}

// OrderService manages product orders from the admin side.
type OrderService struct {
	gateway ports.Gateway
	log     zerolog.Logger
}

var _ ports.OrderService = (*OrderService)(nil)

func NewOrderService(gateway ports.Gateway, log zerolog.Logger) *OrderService {
	return &OrderService{gateway: gateway, log: log.With().Str("component", "orders").Logger()}
}

func (s *OrderService) List(ctx context.Context, filter ports.ListFilter) (*domain.OrderList, error) {
	var out domain.OrderList
	if err := getJSON(ctx, s.gateway, "/api/admin/orders", listQuery(filter), &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &out, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id domain.ID, status, notes string) error {
	if status == "" {
		return fmt.Errorf("update order %s: %w: status is required", id, domain.ErrInvalidInput)
	}
	body := map[string]string{"status": status, "completion_notes": notes}
	if err := sendJSON(ctx, s.gateway, http.MethodPut, orderPath(id, "status"), body, nil); err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	s.log.Info().Str("order_id", id.String()).Str("status", status).Msg("order status updated")
	return nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id domain.ID, status string) error {
	if status == "" {
		return fmt.Errorf("update payment %s: %w: payment status is required", id, domain.ErrInvalidInput)
	}
	body := map[string]string{"payment_status": status}
	if err := sendJSON(ctx, s.gateway, http.MethodPut, orderPath(id, "payment"), body, nil); err != nil {
		return fmt.Errorf("update payment %s: %w", id, err)
	}
	return nil
}

func (s *OrderService) Invoice(ctx context.Context, id domain.ID) (*domain.Invoice, error) {
	var out domain.Invoice
	if err := getJSON(ctx, s.gateway, orderPath(id, "invoice"), nil, &out); err != nil {
		return nil, fmt.Errorf("invoice for order %s: %w", id, err)
	}
	return &out, nil
}

func orderPath(id domain.ID, action string) string {
	return "/api/admin/orders/" + url.PathEscape(id.String()) + "/" + action
}

// ExpenseService manages expenses; create and update are multipart so a
// receipt image can ride along.
type ExpenseService struct {
	gateway  ports.Gateway
	validate *inputValidator
}

var _ ports.ExpenseService = (*ExpenseService)(nil)

func NewExpenseService(gateway ports.Gateway) *ExpenseService {
	return &ExpenseService{gateway: gateway, validate: newInputValidator()}
}

func (s *ExpenseService) List(ctx context.Context, filter ports.ListFilter) (*domain.ExpenseList, error) {
	var out domain.ExpenseList
	if err := getJSON(ctx, s.gateway, "/api/expenses", listQuery(filter), &out); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return &out, nil
}

func (s *ExpenseService) Create(ctx context.Context, input ports.ExpenseInput) (*domain.Expense, error) {
	form, err := s.expenseForm(input)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	var out domain.Expense
	if err := sendForm(ctx, s.gateway, http.MethodPost, "/api/expenses", form, &out); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return &out, nil
}

func (s *ExpenseService) Update(ctx context.Context, id domain.ID, input ports.ExpenseInput) (*domain.Expense, error) {
	form, err := s.expenseForm(input)
	if err != nil {
		return nil, fmt.Errorf("update expense %s: %w", id, err)
	}
	var out domain.Expense
	if err := sendForm(ctx, s.gateway, http.MethodPut, "/api/expenses/"+url.PathEscape(id.String()), form, &out); err != nil {
		return nil, fmt.Errorf("update expense %s: %w", id, err)
	}
	return &out, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id domain.ID) error {
	if _, err := s.gateway.Send(ctx, ports.Request{Method: http.MethodDelete, Path: "/api/expenses/" + url.PathEscape(id.String())}); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

func (s *ExpenseService) expenseForm(input ports.ExpenseInput) (*ports.MultipartForm, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidInput)
	}
	status := input.Status
	if status == "" {
		status = "pending"
	}

	form := &ports.MultipartForm{}
	form.Add("category", input.Category)
	form.Add("amount", input.Amount.String())
	form.Add("description", input.Description)
	form.Add("status", status)
	switch {
	case input.Receipt != nil:
		f := *input.Receipt
		f.Field = "receipt_image"
		form.Files = append(form.Files, f)
	case input.ReceiptURL != "":
		form.Add("receipt_image", input.ReceiptURL)
	}
	return form, nil
}

type TransactionService struct {
	gateway ports.Gateway
}

var _ ports.TransactionService = (*TransactionService)(nil)

func NewTransactionService(gateway ports.Gateway) *TransactionService {
	return &TransactionService{gateway: gateway}
}

func (s *TransactionService) List(ctx context.Context, filter ports.ListFilter) (*domain.TransactionList, error) {
	var out domain.TransactionList
	if err := getJSON(ctx, s.gateway, "/api/transactions", listQuery(filter), &out); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &out, nil
}

// RevenueSummary aggregates revenue for period; empty period means "month".
func (s *TransactionService) RevenueSummary(ctx context.Context, period string) (*domain.RevenueSummary, error) {
	if period == "" {
		period = "month"
	}
	q := url.Values{}
	q.Set("period", period)

	var out domain.RevenueSummary
	if err := getJSON(ctx, s.gateway, "/api/transactions/summary", q, &out); err != nil {
		return nil, fmt.Errorf("revenue summary: %w", err)
	}
	return &out, nil
}
