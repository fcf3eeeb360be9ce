package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mordensafety/admin-console/internal/core/domain"
	watchhttp "github.com/mordensafety/admin-console/internal/infrastructure/http"
	"github.com/mordensafety/admin-console/internal/infrastructure/http/handlers"
	"github.com/mordensafety/admin-console/internal/infrastructure/queue"
	"github.com/mordensafety/admin-console/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func (r *runner) watchCmd() *cobra.Command {
	var (
		listen   string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll notifications and report unread count changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := r.requireLogin(ctx); err != nil {
				return err
			}
			if interval <= 0 {
				interval = r.cfg.PollInterval
			}
			if listen == "" {
				listen = r.cfg.WatchAddr
			}

			poller := queue.NewPoller(r.app.Notifications, interval, logger.Component("watch"))
			updates := poller.Subscribe()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return poller.Run(ctx) })
			g.Go(func() error {
				for n := range updates {
					fmt.Fprintf(r.out, "%s unread notifications: %d\n", time.Now().Format("15:04:05"), n)
				}
				return nil
			})
			if listen != "" {
				g.Go(func() error { return r.serveWatch(ctx, listen, poller) })
			}

			err := g.Wait()
			if errors.Is(err, domain.ErrSessionExpired) {
				return err
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve /health, /health/ready and /metrics on this address (or MORDEN_WATCH_ADDR)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default MORDEN_POLL_INTERVAL)")
	return cmd
}

func (r *runner) serveWatch(ctx context.Context, addr string, unread handlers.UnreadSource) error {
	e := watchhttp.NewRouter(watchhttp.Deps{
		Checks: map[string]handlers.Check{
			"store":   handlers.StoreCheck(r.app.Store()),
			"backend": handlers.BackendCheck(r.app.Gateway),
		},
		Unread: unread,
		Log:    logger.Component("watch-http"),
	})

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(r.errOut, "serving health and metrics on %s\n", addr)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
