package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yndnr/rentdesk-go/internal/cli/config"
	"github.com/yndnr/rentdesk-go/internal/cli/connection"
	"github.com/yndnr/rentdesk-go/internal/cli/route"
	"github.com/yndnr/rentdesk-go/internal/cli/service"
	"github.com/yndnr/rentdesk-go/internal/cli/session"
	"github.com/yndnr/rentdesk-go/internal/infra/shutdown"
	"github.com/yndnr/rentdesk-go/internal/infra/tlsroots"
	"github.com/yndnr/rentdesk-go/internal/telemetry/logger"
	"github.com/yndnr/rentdesk-go/internal/telemetry/metric"
)

// runtimeKey is the cli.App metadata key holding the *Runtime.
const runtimeKey = "runtime"

// Runtime is the object graph shared by all commands of one process: the
// API client, the session store bound to it, the router and guard, and
// the page loaders.
type Runtime struct {
	Config  *config.CLIConfig
	Logger  logger.Logger
	Metrics *metric.Registry
	Client  *connection.HTTPClient
	Store   *session.Store
	Router  *route.Router
	Guard   *route.Guard
	Pages   *service.Pages

	shutdown *shutdown.Handler

	mu          sync.Mutex
	interactive bool
	next        route.Location
}

// NewRuntime wires the client, session store and router described by cfg
// and rehydrates the session.
func NewRuntime(ctx context.Context, cfg *config.CLIConfig, log logger.Logger) (*Runtime, error) {
	if log == nil {
		log = logger.Default()
	}

	rt := &Runtime{
		Config:   cfg,
		Logger:   log,
		Metrics:  metric.NewRegistry(),
		shutdown: shutdown.NewHandler(5 * time.Second),
	}

	storage, err := rt.openStorage()
	if err != nil {
		rt.Close()
		return nil, err
	}

	opts := []connection.Option{
		connection.WithTimeout(cfg.API.Timeout),
		connection.WithRateLimit(cfg.API.RateLimit),
		connection.WithLogger(log),
		connection.WithMetrics(rt.Metrics),
	}
	if tlsOpts := cfg.API.TLS(); !tlsOpts.IsZero() {
		tlsCfg, err := tlsroots.ClientConfig(tlsOpts)
		if err != nil {
			rt.Close()
			return nil, err
		}
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}

	// The client reads the credential from the store on every request and
	// the store learns about 401s from the client.
	rt.Client = connection.NewHTTPClient(cfg.API.URL,
		connection.TokenFunc(func() string { return rt.Store.Token() }), opts...)
	rt.Store = session.NewStore(storage,
		session.WithAuthenticator(service.NewAuth(rt.Client)),
		session.WithLogger(log),
		session.WithMetrics(rt.Metrics),
	)
	unbind := rt.Store.Bind(rt.Client)
	rt.shutdown.OnClose(func() error { unbind(); return nil })

	rt.Router = route.NewRouter(log)
	unfollow := rt.Router.Follow(rt.Store)
	rt.shutdown.OnClose(func() error { unfollow(); return nil })
	rt.Guard = route.NewGuard(rt.Store, rt.Router)
	rt.Pages = service.NewPages(rt.Client)

	if err := rt.Store.Rehydrate(ctx); err != nil {
		log.Warn("failed to read stored session", "error", err)
	}
	return rt, nil
}

// openStorage opens the configured session storage, sealed when a secret
// is set.
func (rt *Runtime) openStorage() (session.Storage, error) {
	cfg := rt.Config
	var storage session.Storage

	switch cfg.Session.Store {
	case config.StoreMemory:
		storage = session.NewMemoryStorage()
	case config.StoreBadger:
		db, err := session.OpenBadgerStorage(cfg.SessionPath(), rt.Logger.Slog())
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		rt.shutdown.OnClose(db.Close)
		storage = db
	default:
		storage = session.NewFileStorage(cfg.SessionPath())
	}

	if cfg.Session.Secret != "" {
		return session.NewSealedStorage(storage, cfg.Session.Secret)
	}
	return storage, nil
}

// WatchSession follows sign-in and sign-out done by other processes. Only
// the file store can be watched; other stores are left alone.
func (rt *Runtime) WatchSession() error {
	if rt.Config.Session.Store != config.StoreFile {
		return nil
	}
	stop, err := rt.Store.Watch(rt.Config.SessionPath())
	if err != nil {
		return err
	}
	rt.shutdown.OnClose(stop)
	return nil
}

// OnClose registers fn to run when the runtime closes.
func (rt *Runtime) OnClose(fn func(context.Context) error) {
	rt.shutdown.OnShutdown(fn)
}

// Close releases the store and any other resources.
func (rt *Runtime) Close() error {
	return rt.shutdown.Shutdown()
}

// setInteractive marks the runtime as owned by the shell, which keeps it
// open across commands.
func (rt *Runtime) setInteractive(v bool) {
	rt.mu.Lock()
	rt.interactive = v
	rt.mu.Unlock()
}

func (rt *Runtime) isInteractive() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.interactive
}

// setNext queues a view for the shell to render after the current command.
func (rt *Runtime) setNext(loc route.Location) {
	rt.mu.Lock()
	rt.next = loc
	rt.mu.Unlock()
}

// takeNext returns and clears the queued view.
func (rt *Runtime) takeNext() route.Location {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	loc := rt.next
	rt.next = route.Location{}
	return loc
}
