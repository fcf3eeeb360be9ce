package domain

import "github.com/shopspring/decimal"

// Expense is a business expense, optionally with a receipt image.
type Expense struct {
	ID            ID              `json:"id"`
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	ReceiptImage  string          `json:"receipt_image,omitempty"`
	CreatedAt     *Timestamp      `json:"created_at,omitempty"`
}

// ExpenseList is the body of GET /api/expenses.
type ExpenseList struct {
	Expenses []Expense `json:"expenses"`
	Page
}

// Transaction is a revenue or expense movement.
type Transaction struct {
	ID          ID              `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   *Timestamp      `json:"created_at,omitempty"`
}

// TransactionList is the body of GET /api/transactions.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Page
}

// RevenueSummary aggregates revenue for a period (day, week, month, year).
type RevenueSummary struct {
	Period        string          `json:"period"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}
