package main

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/colseries/pkg/config"
	"github.com/ajitpratap0/colseries/pkg/docstore"
	"github.com/ajitpratap0/colseries/pkg/frame"
	"github.com/ajitpratap0/colseries/pkg/logger"
	"github.com/ajitpratap0/colseries/pkg/metrics"
	"github.com/ajitpratap0/colseries/pkg/observability"
)

const envPrefix = "COLSERIES"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	log     *zap.Logger
	out     io.Writer
	store   docstore.Store
	closers []func(context.Context) error
}

func newApp(out io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &app{v: v, out: out}
}

// bindFlags registers the persistent flags and binds them to config keys so
// that COLSERIES_STORE_DRIVER and --store both reach store.driver.
func (a *app) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "Path to a YAML configuration file")
	f.String("store", config.DriverFile, "Document store driver (memory, file, mongodb)")
	f.String("data-dir", ".colseries", "Directory used by the file store")
	f.String("mongo-uri", "", "MongoDB connection URI")
	f.String("database", "colseries", "MongoDB database")
	f.String("collection", "frames", "MongoDB collection")
	f.Int("workers", 0, "Fields encoded or decoded concurrently (0 = one per CPU)")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.Bool("metrics", false, "Serve Prometheus metrics while the command runs")
	f.String("metrics-addr", ":9090", "Metrics listen address")
	f.Bool("trace", false, "Export OpenTelemetry spans to stderr")

	for key, flag := range map[string]string{
		"config":                       "config",
		"store.driver":                 "store",
		"store.path":                   "data-dir",
		"store.uri":                    "mongo-uri",
		"store.database":               "database",
		"store.collection":             "collection",
		"codec.workers":                "workers",
		"logging.level":                "log-level",
		"observability.enable_metrics": "metrics",
		"observability.metrics_addr":   "metrics-addr",
		"observability.enable_tracing": "trace",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}
}

// loadConfig layers the config file, then environment and flags, over the
// defaults. Without a config file the CLI stores documents on disk.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	cfg.Store.Driver = a.v.GetString("store.driver")
	cfg.Store.Path = a.v.GetString("store.path")
	cfg.Logging.Level = a.v.GetString("logging.level")

	if path := a.v.GetString("config"); path != "" {
		if err := config.LoadInto(path, cfg); err != nil {
			return nil, err
		}
	}

	overrideString := func(key string, dst *string) {
		if a.v.IsSet(key) {
			*dst = a.v.GetString(key)
		}
	}
	overrideString("store.driver", &cfg.Store.Driver)
	overrideString("store.path", &cfg.Store.Path)
	overrideString("store.uri", &cfg.Store.URI)
	overrideString("store.database", &cfg.Store.Database)
	overrideString("store.collection", &cfg.Store.Collection)
	overrideString("logging.level", &cfg.Logging.Level)
	overrideString("observability.metrics_addr", &cfg.Observability.MetricsAddr)
	if a.v.IsSet("codec.workers") {
		cfg.Codec.Workers = a.v.GetInt("codec.workers")
	}
	if a.v.IsSet("observability.enable_metrics") {
		cfg.Observability.EnableMetrics = a.v.GetBool("observability.enable_metrics")
	}
	if a.v.IsSet("observability.enable_tracing") {
		cfg.Observability.EnableTracing = a.v.GetBool("observability.enable_tracing")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup runs before every subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	a.log = logger.Get().With(zap.String("instance", cfg.Name), zap.String("command", cmd.Name()))

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceName = cfg.Name
		tc.ServiceVersion = version
		tc.SamplingRate = cfg.Observability.SampleRate
		tc.Writer = cmd.ErrOrStderr()
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, shutdown)
	}

	if cfg.Observability.EnableMetrics {
		a.serveMetrics(cfg.Observability.MetricsAddr)
	}
	return nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.log.Info("serving metrics", zap.String("addr", addr))
	a.closers = append(a.closers, srv.Shutdown)
}

// openStore connects the configured store on first use.
func (a *app) openStore(ctx context.Context) (docstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := docstore.Open(ctx, a.cfg.Store, a.log)
	if err != nil {
		return nil, err
	}
	a.store = s
	a.closers = append(a.closers, s.Close)
	return s, nil
}

func (a *app) frameOptions() []frame.Option {
	return []frame.Option{
		frame.WithWorkers(a.cfg.Codec.GetWorkers()),
		frame.WithLogger(a.log),
	}
}

// teardown releases everything setup and openStore acquired, newest first.
func (a *app) teardown(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.store = nil
	_ = logger.Sync()
	return stderrors.Join(errs...)
}
