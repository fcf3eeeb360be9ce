// Package cli is the terminal front end of the admin console.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/infrastructure/config"
	"github.com/mordensafety/admin-console/pkg/logger"
)

type globalFlags struct {
	apiURL   string
	profile  string
	logLevel string
	store    string
	json     bool
}

// runner carries state shared by every subcommand. app is built in the root
// PersistentPreRunE and closed by Execute once the command returns.
type runner struct {
	flags  globalFlags
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	app    *App
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "morden",
		Short:         "Morden Safety admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd)
		},
	}
	root.SetOut(r.out)
	root.SetErr(r.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&r.flags.apiURL, "api-url", "", "backend base URL (overrides MORDEN_API_URL)")
	pf.StringVar(&r.flags.profile, "profile", "", "storage profile (overrides MORDEN_PROFILE)")
	pf.StringVar(&r.flags.logLevel, "log-level", "", "log level (overrides MORDEN_LOG_LEVEL)")
	pf.StringVar(&r.flags.store, "store", "", "session store: sqlite, redis, mongo or memory (overrides MORDEN_STORE)")
	pf.BoolVar(&r.flags.json, "json", false, "print raw JSON instead of tables")

	root.AddCommand(
		r.loginCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.statsCmd(),
		r.usersCmd(),
		r.productsCmd(),
		r.uploadCmd(),
		r.requestsCmd(),
		r.notificationsCmd(),
		r.ordersCmd(),
		r.expensesCmd(),
		r.transactionsCmd(),
		r.cartCmd(),
		r.watchCmd(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	r := &runner{out: out, errOut: errOut}
	root := r.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if r.app != nil {
		if cerr := r.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(errOut, "error:", Render(err))
		return 1
	}
	return 0
}

func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if r.flags.apiURL != "" {
		cfg.APIURL = r.flags.apiURL
	}
	if r.flags.profile != "" {
		cfg.Profile = r.flags.profile
	}
	if r.flags.logLevel != "" {
		cfg.LogLevel = r.flags.logLevel
	}
	if r.flags.store != "" {
		cfg.Store.Backend = r.flags.store
	}
	r.cfg = cfg

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Output:  r.errOut,
		Profile: cfg.Profile,
	})

	app, err := NewApp(cmd.Context(), cfg, &terminalNavigator{w: r.errOut}, log)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// requireAdmin is the client-side gate for admin-only commands.
func (r *runner) requireAdmin(ctx context.Context) error {
	_, err := r.app.Auth.RequireRole(ctx, domain.RoleAdmin)
	return err
}

func (r *runner) requireLogin(ctx context.Context) (*domain.User, error) {
	return r.app.Auth.RequireRole(ctx)
}

func (r *runner) printJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table prints rows under header, unless --json was given, in which case raw
// is encoded instead.
func (r *runner) table(raw any, header string, rows func(w io.Writer)) error {
	if r.flags.json {
		return r.printJSON(raw)
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func (r *runner) done(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// progress prints upload progress on errOut.
func (r *runner) progress(label string) func(int) {
	return func(pct int) {
		fmt.Fprintf(r.errOut, "\r%s %3d%%", label, pct)
		if pct >= 100 {
			fmt.Fprintln(r.errOut)
		}
	}
}

func formatTime(ts *domain.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}
