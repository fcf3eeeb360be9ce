package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

// adminOnly runs the root setup and then the admin gate for a command group.
func (r *runner) adminOnly(cmd *cobra.Command, args []string) error {
	if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
		return err
	}
	return r.requireAdmin(cmd.Context())
}

func (r *runner) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "expenses",
		Short:             "Business expenses (admin)",
		PersistentPreRunE: r.adminOnly,
	}

	var filter ports.ListFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, err := r.app.Expenses.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return r.table(expenses, "ID\tNUMBER\tCATEGORY\tAMOUNT\tSTATUS\tDESCRIPTION\tCREATED", func(w io.Writer) {
				for _, e := range expenses.Expenses {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						e.ID, e.ExpenseNumber, e.Category, e.Amount.StringFixed(2), e.Status, e.Description, formatTime(e.CreatedAt))
				}
			})
		},
	}
	listFilterFlags(list, &filter)
	list.Flags().StringVar(&filter.Category, "category", "", "filter by category")

	var (
		input   ports.ExpenseInput
		amount  string
		receipt string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Record an expense with an optional receipt image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("%w: amount %q: %v", domain.ErrInvalidInput, amount, err)
			}
			input.Amount = a

			if receipt != "" {
				files, closeAll, err := openFormFiles("receipt_image", []string{receipt})
				if err != nil {
					return err
				}
				defer closeAll()
				input.Receipt = &files[0]
			}

			created, err := r.app.Expenses.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			r.done("Recorded expense %s", created.ExpenseNumber)
			return nil
		},
	}
	cf := create.Flags()
	cf.StringVar(&input.Category, "category", "", "expense category")
	cf.StringVar(&amount, "amount", "", "amount")
	cf.StringVar(&input.Description, "description", "", "what it was for")
	cf.StringVar(&input.Status, "status", "", "pending, approved, rejected or paid")
	cf.StringVar(&receipt, "receipt", "", "receipt image file")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.app.Expenses.Delete(cmd.Context(), id); err != nil {
				return err
			}
			r.done("Deleted expense %s", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func (r *runner) transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "transactions",
		Short:             "Revenue and expense movements (admin)",
		PersistentPreRunE: r.adminOnly,
	}

	var filter ports.ListFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := r.app.Transactions.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return r.table(txs, "ID\tTYPE\tAMOUNT\tREFERENCE\tDESCRIPTION\tCREATED", func(w io.Writer) {
				for _, t := range txs.Transactions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						t.ID, t.Type, t.Amount.StringFixed(2), t.Reference, t.Description, formatTime(t.CreatedAt))
				}
			})
		},
	}
	listFilterFlags(list, &filter)
	list.Flags().StringVar(&filter.Type, "type", "", "revenue or expense")

	var period string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Revenue summary for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := r.app.Transactions.RevenueSummary(cmd.Context(), period)
			if err != nil {
				return err
			}
			return r.table(s, "PERIOD\tREVENUE\tEXPENSES\tNET", func(w io.Writer) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Period,
					s.TotalRevenue.StringFixed(2), s.TotalExpenses.StringFixed(2), s.NetProfit.StringFixed(2))
			})
		},
	}
	summary.Flags().StringVar(&period, "period", "month", "day, week, month or year")

	cmd.AddCommand(list, summary)
	return cmd
}
