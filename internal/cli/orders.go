package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/ports"
)

func listFilterFlags(cmd *cobra.Command, f *ports.ListFilter) {
	fs := cmd.Flags()
	fs.StringVar(&f.Status, "status", "", "filter by status")
	fs.StringVar(&f.StartDate, "from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.EndDate, "to", "", "end date (YYYY-MM-DD)")
	fs.IntVar(&f.Page, "page", 1, "page number")
	fs.IntVar(&f.Limit, "limit", 20, "page size")
}

func (r *runner) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "orders",
		Short:             "Product orders (admin)",
		PersistentPreRunE: r.adminOnly,
	}

	var filter ports.ListFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := r.app.Orders.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return r.table(orders, "ID\tNUMBER\tCLIENT\tITEMS\tTOTAL\tSTATUS\tPAYMENT\tCREATED", func(w io.Writer) {
				for _, o := range orders.Orders {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
						o.ID, o.OrderNumber, o.ClientName, o.ItemsCount, o.TotalAmount.StringFixed(2),
						o.Status, o.PaymentStatus, formatTime(o.CreatedAt))
				}
			})
		},
	}
	listFilterFlags(list, &filter)

	var notes string
	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an order's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.app.Orders.UpdateStatus(cmd.Context(), id, args[1], notes); err != nil {
				return err
			}
			r.done("Order %s is now %s", id, args[1])
			return nil
		},
	}
	status.Flags().StringVar(&notes, "notes", "", "completion notes")

	payment := &cobra.Command{
		Use:   "payment <id> <status>",
		Short: "Change an order's payment status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.app.Orders.UpdatePaymentStatus(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			r.done("Order %s payment is now %s", id, args[1])
			return nil
		},
	}

	invoice := &cobra.Command{
		Use:   "invoice <id>",
		Short: "Print the invoice URL of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inv, err := r.app.Orders.Invoice(cmd.Context(), id)
			if err != nil {
				return err
			}
			r.done("%s", inv.InvoiceURL)
			return nil
		},
	}

	cmd.AddCommand(list, status, payment, invoice)
	return cmd
}
