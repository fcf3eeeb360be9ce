package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

func (r *runner) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				email = prompt(in, r.errOut, "Email: ")
			}
			if password == "" {
				password = os.Getenv("MORDEN_PASSWORD")
			}
			if password == "" {
				password = prompt(in, r.errOut, "Password: ")
			}

			sess, err := r.app.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			r.done("Logged in as %s (%s)", sess.User.Email, sess.User.Role)
			if !sess.ExpiresAt.IsZero() {
				r.done("Token expires %s", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or MORDEN_PASSWORD)")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			r.done("Logged out")
			return nil
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := r.requireLogin(cmd.Context())
			if err != nil {
				return err
			}
			if remote {
				if user, err = r.app.Auth.Me(cmd.Context()); err != nil {
					return err
				}
			}
			return r.table(user, "ID\tNAME\tEMAIL\tROLE", func(w io.Writer) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.ID, user.FullName, user.Email, user.Role)
			})
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the backend instead of the stored session")
	return cmd
}

func (r *runner) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			users, err := r.app.Admin.Users(cmd.Context())
			if err != nil {
				return err
			}
			return r.table(users, "ID\tNAME\tEMAIL\tROLE\tPHONE\tACTIVE\tJOINED", func(w io.Writer) {
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
						u.ID, u.FullName, u.Email, u.Role, u.Phone, u.IsActive, formatTime(u.CreatedAt))
				}
			})
		},
	}
}

func (r *runner) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			s, err := r.app.Admin.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return r.table(s, "METRIC\tVALUE", func(w io.Writer) {
				fmt.Fprintf(w, "total requests\t%d\n", s.TotalRequests)
				fmt.Fprintf(w, "pending requests\t%d\n", s.PendingRequests)
				fmt.Fprintf(w, "clients\t%d\n", s.TotalClients)
				fmt.Fprintf(w, "products\t%d\n", s.TotalProducts)
				fmt.Fprintf(w, "low stock products\t%d\n", s.LowStockProducts)
				fmt.Fprintf(w, "orders\t%d\n", s.Counts.TotalOrders)
				fmt.Fprintf(w, "pending orders\t%d\n", s.Counts.PendingOrders)
				fmt.Fprintf(w, "revenue\t%s\n", s.Financials.TotalRevenue.StringFixed(2))
			})
		},
	}
}

func prompt(in *bufio.Reader, w io.Writer, label string) string {
	fmt.Fprint(w, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// parseID rejects blank ids before they reach a URL.
func parseID(s string) (domain.ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty id", domain.ErrInvalidInput)
	}
	return domain.ID(s), nil
}
