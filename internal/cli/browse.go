package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/keilerkonzept/catalog-browser/internal/browser"
	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/config"
	"github.com/keilerkonzept/catalog-browser/internal/logging"
	"github.com/keilerkonzept/catalog-browser/internal/metrics"
	"github.com/keilerkonzept/catalog-browser/internal/watch"
)

func newBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		Long: `Browse shows one card per entry next to a histogram of the period range.

Keys change the sort order, cycle the medium, era and category filters, toggle
the low difficulty filter and move the period bounds. Press ? for all keys.

With --watch the data file is reloaded whenever it changes on disk; the
current selection is kept and re-clamped to the new data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd)
		},
	}

	d := config.Default()

	f := cmd.Flags()
	f.Int("range-step", d.RangeStep, "years moved per period key press")
	f.Int("top-k", d.TopK, "values listed per facet in the tally pane")
	f.Bool("watch", d.Watch, "reload the data file when it changes")
	f.Duration("watch-debounce", d.WatchDebounce, "quiet period before a reload")
	f.Bool("alt-screen", d.AltScreen, "use the terminal alternate screen buffer")
	f.Int("view-split", d.ViewSplit, "split the view at this % of the screen width [20,80]")
	f.Bool("stats", d.Stats, "show derivation stats")
	f.Int("stats-window", d.StatsWindow, "number of recent latency samples kept")
	f.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

func runBrowse(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := config.FromContext(ctx)
	logger, closer, err := logging.SetupInteractive(cfg)
	if err != nil {
		return usageError(err)
	}
	defer func() { _ = closer.Close() }()
	ctx = logging.NewContext(ctx, logger)

	c, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}

	recorder := metrics.New(cfg.StatsWindow)
	d, err := newDeriver(cfg, c, catalog.WithObserver(recorder.ObserveDerive))
	if err != nil {
		return err
	}

	m := browser.New(d, recorder, browser.Options{
		Sort:      sortKey(cfg),
		RangeStep: cfg.RangeStep,
		TopK:      cfg.TopK,
		ViewSplit: cfg.ViewSplit,
		Stats:     cfg.Stats,
		AltScreen: cfg.AltScreen,
	})
	p := browser.Program(ctx, m)

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, recorder, logger)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Watch {
		if cfg.Data == "" {
			logger.Warn("nothing to watch: browsing the bundled dataset")
		} else {
			reload := func(events int) {
				logger.Info("reloading data file", slog.String("path", cfg.Data), slog.Int("events", events))
				next, err := openCatalog(ctx, cfg, logger)
				if err != nil {
					logger.Error("reload failed", slog.String("error", err.Error()))
					p.Send(browser.Error(err))
					return
				}
				p.Send(browser.ReloadMsg{Catalog: next})
			}
			go func() {
				opts := watch.Options{Path: cfg.Data, Debounce: cfg.WatchDebounce, Logger: logger}
				if err := watch.Watch(ctx, opts, reload); err != nil {
					logger.Error("watching data file", slog.String("error", err.Error()))
					p.Send(browser.Error(err))
				}
			}()
		}
	}

	_, err = p.Run()
	return err
}

func serveMetrics(addr string, recorder *metrics.Recorder, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener", slog.String("error", err.Error()))
		}
	}()

	return srv
}
