package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (r *runner) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Read and acknowledge notifications",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List notifications",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				list, err := r.app.Notifications.List(cmd.Context())
				if err != nil {
					return err
				}
				return r.table(list, "ID\tREAD\tTYPE\tTITLE\tMESSAGE\tCREATED", func(w io.Writer) {
					for _, n := range list.Notifications {
						fmt.Fprintf(w, "%s\t%t\t%s\t%s\t%s\t%s\n",
							n.ID, n.IsRead, n.Type, n.Title, n.Message, formatTime(n.CreatedAt))
					}
				})
			},
		},
		&cobra.Command{
			Use:   "unread",
			Short: "Print the unread count",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := r.app.Notifications.UnreadCount(cmd.Context())
				if err != nil {
					return err
				}
				r.done("%d", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark one notification read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := r.app.Notifications.MarkRead(cmd.Context(), id); err != nil {
					return err
				}
				r.done("Marked %s read", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every unread notification read",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := r.app.Notifications.MarkAllRead(cmd.Context())
				if err != nil {
					if n > 0 {
						fmt.Fprintf(r.errOut, "marked %d before failing\n", n)
					}
					return err
				}
				r.done("Marked %d notifications read", n)
				return nil
			},
		},
	)
	return cmd
}
