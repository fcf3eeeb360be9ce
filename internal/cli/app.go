package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/ports"
	"github.com/mordensafety/admin-console/internal/core/service"
	"github.com/mordensafety/admin-console/internal/infrastructure/config"
	"github.com/mordensafety/admin-console/internal/infrastructure/db"
	"github.com/mordensafety/admin-console/internal/infrastructure/gateway"
)

// userAgent is sent with every backend request.
const userAgent = "morden-console/1"

// App wires the core services to the configured infrastructure. One App
// lives for one command invocation.
type App struct {
	cfg   *config.Config
	log   zerolog.Logger
	store ports.KeyValueStore

	Gateway       ports.Gateway
	Sessions      ports.SessionManager
	Auth          ports.AuthService
	Products      ports.ProductService
	Uploads       ports.UploadService
	Requests      ports.RequestService
	Notifications ports.NotificationService
	Admin         ports.AdminService
	Orders        ports.OrderService
	Expenses      ports.ExpenseService
	Transactions  ports.TransactionService
	Cart          ports.CartLedger
}

// NewApp opens the store and builds the gateway pipeline. nav is told when a
// 401 ends the session.
func NewApp(ctx context.Context, cfg *config.Config, nav ports.Navigator, log zerolog.Logger) (*App, error) {
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return newApp(cfg, store, nav, log)
}

func newApp(cfg *config.Config, store ports.KeyValueStore, nav ports.Navigator, log zerolog.Logger) (*App, error) {
	sessions := service.NewSessionService(store, log)

	gw, err := gateway.NewAuthenticated(gateway.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: userAgent,
	}, sessions, nav, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		cfg:           cfg,
		log:           log,
		store:         store,
		Gateway:       gw,
		Sessions:      sessions,
		Auth:          service.NewAuthService(gw, sessions, log),
		Products:      service.NewProductService(gw, log),
		Uploads:       service.NewUploadService(gw),
		Requests:      service.NewRequestService(gw, log),
		Notifications: service.NewNotificationService(gw, log),
		Admin:         service.NewAdminService(gw),
		Orders:        service.NewOrderService(gw, log),
		Expenses:      service.NewExpenseService(gw),
		Transactions:  service.NewTransactionService(gw),
		Cart:          service.NewCartService(store, log),
	}, nil
}

func (a *App) Store() ports.KeyValueStore {
	return a.store
}

func (a *App) Close() error {
	return a.store.Close()
}

// terminalNavigator replaces the dashboard's redirect to /login with a hint
// printed once per invocation.
type terminalNavigator struct {
	w     io.Writer
	shown bool
}

func (n *terminalNavigator) ToLogin(context.Context) {
	if n.shown {
		return
	}
	n.shown = true
	fmt.Fprintln(n.w, loginHint)
}
