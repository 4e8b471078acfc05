package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"plugin"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/ulog/config"
	"github.com/philipp01105/ulog/core"
	"github.com/philipp01105/ulog/internal/demoplugin"
	"github.com/philipp01105/ulog/logger"
	"github.com/philipp01105/ulog/metrics"
)

// Header prefixes every line the host writes
const Header = "APP     :"

// pluginSymbol is looked up in shared objects passed with --plugin. It
// must be a func() demoplugin.Runner.
const pluginSymbol = "NewPlugin"

type options struct {
	configFile  string
	plugins     []string
	workers     int
	records     int
	metricsAddr string
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	v := viper.New()
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "ulogdemo",
		Short:         "Exercise the ulog logger from a host and its plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v, opts)
		},
	}

	if err := setupFlags(cmd, v, opts); err != nil {
		panic(err)
	}
	return cmd
}

// setupFlags defines the flags and binds the logger ones into viper so
// flags override the config file and the environment.
func setupFlags(cmd *cobra.Command, v *viper.Viper, opts *options) error {
	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "Configuration file (yaml, toml or json); watched for changes")
	f.StringSliceVar(&opts.plugins, "plugin", nil, "Go plugin exporting "+pluginSymbol+" to load and run")
	f.IntVar(&opts.workers, "workers", 4, "Goroutines used by the concurrent stress phase")
	f.IntVar(&opts.records, "records", 100, "Records each worker writes; 0 skips the stress phase")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	f.String("console-level", "verbose", "Minimum severity written to the console")
	f.String("file-level", "verbose", "Minimum severity written to the file")
	f.Bool("file", false, "Enable file logging")
	f.String("file-name", "", "Log file name (default log_<date>_<time>.txt)")
	f.String("colors", "auto", "Console colors: auto, always or never")
	f.Bool("include-date", true, "Include the date in timestamps")
	f.String("flush-policy", "error_and_above", "File flush policy: always, error_and_above or never")
	f.Int("capacity", 4096, "Record buffer capacity in bytes")

	bindings := map[string]string{
		config.KeyConsoleLevel: "console-level",
		config.KeyFileLevel:    "file-level",
		config.KeyFileEnabled:  "file",
		config.KeyFileName:     "file-name",
		config.KeyColors:       "colors",
		config.KeyIncludeDate:  "include-date",
		config.KeyFlushPolicy:  "flush-policy",
		config.KeyCapacity:     "capacity",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, v *viper.Viper, opts *options) (err error) {
	ld := config.NewLoader(v)
	if opts.configFile != "" {
		if err := ld.ReadFile(opts.configFile); err != nil {
			return err
		}
	}
	settings, err := ld.Settings()
	if err != nil {
		return err
	}

	l := settings.Builder().WithConsole(cmd.OutOrStdout()).Build()
	config.Apply(l, settings)
	if err := logger.Install(l); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, logger.Deinit())
	}()

	if opts.configFile != "" {
		ld.Watch(logger.Default(), func(err error) {
			logger.Error(Header, "config reload failed:", err)
		})
	}

	if opts.metricsAddr != "" {
		stop, err := serveMetrics(opts.metricsAddr, logger.Default())
		if err != nil {
			return err
		}
		defer stop()
	}

	for _, sev := range core.Severities {
		logger.Print(sev, func(r logger.Record) {
			r.Str(Header).Str(sev.String()).Str("message from main app")
		})
	}

	runners := []demoplugin.Runner{demoplugin.New("builtin plugin")}
	for _, path := range opts.plugins {
		r, err := loadPlugin(path)
		if err != nil {
			logger.Error(Header, "failed to load plugin", path, err)
			continue
		}
		runners = append(runners, r)
	}
	for _, r := range runners {
		logger.Inject(r)
		r.Run()
	}

	// Foreign APIs write through the same sinks
	slog.New(logger.NewSlogHandler(logger.Default())).Info(Header+" via slog", "plugins", len(runners))
	zl := logger.NewZapLogger(logger.Default())
	zl.Info(Header+" via zap", zap.Int("plugins", len(runners)))

	if opts.records > 0 {
		if err := stress(opts.workers, opts.records); err != nil {
			return err
		}
		s := logger.Default().Stats()
		logger.Log(core.Info, logger.Text(Header), logger.Text("console lines"), logger.Uint64(s.ConsoleLines),
			logger.Text("file lines"), logger.Uint64(s.FileLines), logger.Text("truncated"), logger.Uint64(s.Truncated))
	}
	return nil
}

// loadPlugin opens a Go plugin and creates its Runner
func loadPlugin(path string) (demoplugin.Runner, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}
	sym, err := p.Lookup(pluginSymbol)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", pluginSymbol, err)
	}
	newPlugin, ok := sym.(func() demoplugin.Runner)
	if !ok {
		return nil, fmt.Errorf("%s has type %T, want func() demoplugin.Runner", pluginSymbol, sym)
	}
	return newPlugin(), nil
}

// stress writes records from several goroutines, each through its own
// acquired reference.
func stress(workers, records int) error {
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			l := logger.Acquire()
			defer l.Release()
			for i := 0; i < records; i++ {
				l.Begin(core.Debug).Str(Header).Str("worker").Int(w).Str("record").Int(i).Emit()
			}
			return nil
		})
	}
	return g.Wait()
}

// serveMetrics exports the logger statistics until the returned stop
// function is called.
func serveMetrics(addr string, source metrics.StatsSource) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector(source, "")); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(Header, "metrics server:", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}
