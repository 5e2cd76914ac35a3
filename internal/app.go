package internal

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wallshift/internal/controllers"
	"wallshift/internal/models"
	"wallshift/internal/providers"
	"wallshift/internal/rotation"
	"wallshift/internal/sources"
	"wallshift/internal/statefile"
	"wallshift/internal/structures"
)

// App binds the assembled components to the CLI commands. One-shot
// commands (tick, fetch, status, reset) run a single operation and exit;
// daemon keeps an in-process scheduler and an optional metrics endpoint
// running until a termination signal.
type App struct {
	conf      *structures.Config
	logger    providers.Logger
	engine    rotation.EngineInterface
	registry  *sources.Registry
	limiter   rotation.RateLimiterInterface
	ledger    rotation.LedgerInterface
	store     statefile.StoreInterface
	pool      rotation.PoolListerInterface
	scheduler rotation.SchedulerInterface
	health    *controllers.HealthController
	silent    providers.SilentLogInterface
}

func NewApp(
	conf *structures.Config,
	logger providers.Logger,
	engine rotation.EngineInterface,
	registry *sources.Registry,
	limiter rotation.RateLimiterInterface,
	ledger rotation.LedgerInterface,
	store statefile.StoreInterface,
	pool rotation.PoolListerInterface,
	scheduler rotation.SchedulerInterface,
	health *controllers.HealthController,
	silent providers.SilentLogInterface,
) *App {
	return &App{
		conf:      conf,
		logger:    logger,
		engine:    engine,
		registry:  registry,
		limiter:   limiter,
		ledger:    ledger,
		store:     store,
		pool:      pool,
		scheduler: scheduler,
		health:    health,
		silent:    silent,
	}
}

// Close flushes and releases the log sinks.
func (a *App) Close() {
	a.silent.Close()
	a.logger.Close()
}

func (a *App) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "", "tick":
		return a.runTick(ctx)
	case "fetch":
		return a.runFetch(ctx, args)
	case "daemon":
		return a.runDaemon(ctx)
	case "status":
		return a.runStatus()
	case "reset":
		return a.runReset()
	default:
		return fmt.Errorf("unknown command %q (expected tick, fetch, daemon, status or reset)", command)
	}
}

// runTick executes one rotation step. The silent path never fails the
// invocation: whatever happened is logged and the process exits zero, so
// an external scheduler never sees a popup-worthy error.
func (a *App) runTick(ctx context.Context) error {
	outcome := a.engine.RunRotationTick(ctx)
	if outcome.Err != nil {
		a.logger.Errorf(providers.TypeRotate, "Rotation tick ended with error: %s", outcome.Err)
		return nil
	}
	a.logger.Infof(providers.TypeRotate, "Rotation tick finished: %s", outcome.Status)
	return nil
}

// runFetch is the interactive path: errors surface to the invoker with an
// actionable hint instead of being absorbed.
func (a *App) runFetch(ctx context.Context, args []string) error {
	fs := newFetchFlags(a.conf.Sources.Active)
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := a.registry.Get(fs.source)
	if err != nil {
		return err
	}

	q := sources.Query{Text: fs.query, Sorting: fs.sorting, Page: fs.page}
	if q.Text == "" {
		q.Text = src.RandomTemplate()
	}

	report, err := a.engine.RunFetchCycle(ctx, src, q, fs.count)
	if err != nil {
		return describeFetchError(err)
	}

	for _, item := range report.Items {
		switch item.Status {
		case models.ItemDownloaded:
			fmt.Printf("downloaded  %s  %s\n", item.RemoteID, item.Path)
		case models.ItemDuplicate:
			fmt.Printf("duplicate   %s  %s\n", item.RemoteID, item.Title)
		case models.ItemFailed:
			fmt.Printf("failed      %s  %s\n", item.RemoteID, item.Err)
		}
	}
	fmt.Printf("%d of %d candidates downloaded from %s\n",
		report.Downloaded(), len(report.Items), report.Source)
	return nil
}

type fetchFlags struct {
	fs      *flag.FlagSet
	source  string
	query   string
	sorting string
	page    int
	count   int
}

func newFetchFlags(defaultSource string) *fetchFlags {
	f := &fetchFlags{fs: flag.NewFlagSet("fetch", flag.ContinueOnError)}
	f.fs.StringVar(&f.source, "source", defaultSource, "source to fetch from")
	f.fs.StringVar(&f.query, "query", "", "search query (empty picks a curated template)")
	f.fs.StringVar(&f.sorting, "sorting", "", "result sorting, for sources that support it")
	f.fs.IntVar(&f.page, "page", 0, "result page, for sources that support it")
	f.fs.IntVar(&f.count, "count", 5, "number of candidates to request")
	return f
}

func (f *fetchFlags) Parse(args []string) error {
	return f.fs.Parse(args)
}

func describeFetchError(err error) error {
	var fe *sources.FetchError
	if errors.As(err, &fe) {
		if hint := fe.Hint(); hint != "" {
			return fmt.Errorf("%w\n%s", err, hint)
		}
	}
	var ce *rotation.CooldownError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w\nwait for the window to reset or switch sources", err)
	}
	return err
}

// runDaemon rotates immediately, then on every interval, until SIGINT or
// SIGTERM. When metrics are enabled a small HTTP server exposes /health
// and /metrics for the duration.
func (a *App) runDaemon(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s in daemon mode", a.conf.AppName)

	if err := a.runTick(ctx); err != nil {
		return err
	}
	a.scheduler.Init()

	var server *http.Server
	serverErr := make(chan error, 1)
	if a.conf.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", a.health.Health)
		mux.Handle("/metrics", promhttp.Handler())

		server = &http.Server{
			Addr:         a.conf.Metrics.Host + ":" + strconv.Itoa(a.conf.Metrics.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErr <- err
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Context cancelled")
	}

	a.scheduler.Stop()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	if err := a.store.Save(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}

func (a *App) runStatus() error {
	files, err := a.pool.List()
	if err != nil {
		return err
	}

	st := a.store.State()
	fmt.Printf("%s\n", a.conf.AppName)
	fmt.Printf("  active source : %s\n", a.conf.Sources.Active)
	fmt.Printf("  pool          : %d images in %s\n", len(files), a.pool.Dir())
	fmt.Printf("  cursor        : %d\n", st.Rotation.Cursor)
	if st.Rotation.LastChange != nil {
		fmt.Printf("  last change   : %s\n", st.Rotation.LastChange.Format(time.RFC3339))
	} else {
		fmt.Printf("  last change   : never\n")
	}
	fmt.Printf("  next ordinal  : %04d\n", st.Sequence.NextOrdinal)

	for _, tag := range models.KnownSources {
		used, allowed, reset, limited := a.limiter.Usage(tag)
		if !limited {
			fmt.Printf("  %-10s    : %d known images, no request limit\n", tag, a.ledger.Size(tag))
			continue
		}
		fmt.Printf("  %-10s    : %d known images, %d/%d requests used, window resets in %s\n",
			tag, a.ledger.Size(tag), used, allowed, reset.Round(time.Second))
	}
	return nil
}

// runReset discards all persisted state. Downloaded wallpapers stay on
// disk; the next tick re-records them through reconciliation-free rotation
// from cursor zero.
func (a *App) runReset() error {
	if err := a.store.Reset(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeState, "State reset to defaults at %s", a.store.Path())
	fmt.Printf("state reset, file: %s\n", a.store.Path())
	return nil
}
