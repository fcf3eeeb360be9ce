package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

func (r *runner) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Local shopping cart",
	}

	var qty int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := r.app.Products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			entries, err := r.app.Cart.Add(cmd.Context(), *product, qty)
			if err != nil {
				return err
			}
			return r.showCart(entries)
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "quantity")

	update := &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set a quantity; zero or less removes the entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: quantity %q", domain.ErrInvalidInput, args[1])
			}
			entries, err := r.app.Cart.UpdateQuantity(cmd.Context(), id, n)
			if err != nil {
				return err
			}
			return r.showCart(entries)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entries, err := r.app.Cart.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.showCart(entries)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Cart.Clear(cmd.Context()); err != nil {
				return err
			}
			r.done("Cart cleared")
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := r.app.Cart.Entries(cmd.Context())
			if err != nil {
				return err
			}
			return r.showCart(entries)
		},
	}

	cmd.AddCommand(add, update, remove, clearCmd, show)
	return cmd
}

func (r *runner) showCart(entries []domain.CartEntry) error {
	cart := domain.NewCart(entries)
	return r.table(entries, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL", func(w io.Writer) {
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				e.ID, e.Name, e.Price.StringFixed(2), e.Quantity, e.Subtotal().StringFixed(2))
		}
		fmt.Fprintf(w, "\t\t\t%d\t%s\n", cart.Count(), cart.Total().StringFixed(2))
	})
}
