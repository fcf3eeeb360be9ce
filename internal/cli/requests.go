package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

func (r *runner) requestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Service requests",
	}
	cmd.AddCommand(
		r.requestsListCmd(),
		r.requestsCreateCmd(),
		r.requestsStatusCmd(),
		r.requestsReceiptCmd(),
	)
	return cmd
}

func (r *runner) requestsListCmd() *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service requests (all for admins, --mine for your own)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				reqs []domain.ServiceRequest
				err  error
			)
			if mine {
				if _, err := r.requireLogin(ctx); err != nil {
					return err
				}
				reqs, err = r.app.Requests.ListMine(ctx)
			} else {
				if err := r.requireAdmin(ctx); err != nil {
					return err
				}
				reqs, err = r.app.Requests.ListAll(ctx)
			}
			if err != nil {
				return err
			}
			return r.table(reqs, "ID\tNUMBER\tSERVICE\tSTATUS\tCLIENT\tADDRESS\tCREATED", func(w io.Writer) {
				for _, q := range reqs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						q.ID, q.RequestNumber, q.ServiceType, q.Status, q.ClientName, q.Address, formatTime(q.CreatedAt))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only your own requests")
	return cmd
}

func (r *runner) requestsCreateCmd() *cobra.Command {
	var input ports.CreateRequestInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a service request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			created, err := r.app.Requests.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			r.done("Created request %s", created.RequestNumber)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&input.ServiceType, "service-type", "", "inspection, refill, installation, ...")
	f.StringVar(&input.ExtinguisherType, "extinguisher-type", "", "extinguisher type")
	f.StringVar(&input.Description, "description", "", "details")
	f.StringVar(&input.Address, "address", "", "service address")
	return cmd
}

func (r *runner) requestsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <pending|in_progress|completed|cancelled>",
		Short: "Change a request's status (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			status := domain.RequestStatus(args[1])
			if err := r.app.Requests.UpdateStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			r.done("Request %s is now %s", id, status)
			return nil
		},
	}
}

func (r *runner) requestsReceiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <id>",
		Short: "Print the receipt URL of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			receipt, err := r.app.Requests.Receipt(cmd.Context(), id)
			if err != nil {
				return err
			}
			if r.flags.json {
				return r.printJSON(receipt)
			}
			r.done("%s", receipt.ReceiptURL)
			return nil
		},
	}
}
