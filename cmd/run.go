package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/config"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/geo"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/history"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/metrics"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/store"
)

var (
	runKeywords []string
	runLocation string
	runRadius   int
	runOutput   string
	runWorkers  int
	runLimit    int
	runXLSX     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search, enrich, score and persist leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyRunFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		location, err := geo.NormalizeLocation(cfg.Search.Location)
		if err != nil {
			return eris.Wrap(err, "run: location")
		}

		if cfg.Metrics.Addr != "" {
			srv, err := metrics.Listen(cfg.Metrics.Addr)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Shutdown(context.Background()); err != nil {
					zap.L().Warn("metrics shutdown failed", zap.Error(err))
				}
			}()
		}

		hist, err := history.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "run: open history")
		}
		defer hist.Close() //nolint:errcheck

		gw := newGateway(cfg)
		p := &leadPipeline{
			source:   gw,
			details:  gw,
			analyzer: newAnalyzer(cfg),
			store:    store.New(cfg.Output.Path),
			history:  hist,
			workers:  cfg.Enrich.Workers,
			xlsxPath: cfg.Output.XLSXPath,
		}

		res, err := p.Run(ctx, runOptions{
			Location: location,
			Radius:   cfg.Search.Radius,
			Keywords: cfg.Search.Keywords,
			Limit:    runLimit,
		})
		if err != nil {
			return eris.Wrap(err, "run")
		}

		stats := gw.Stats()
		zap.L().Info("upstream usage",
			zap.Int64("search_requests", stats.SearchRequests),
			zap.Int64("search_failures", stats.SearchFailures),
			zap.Int64("detail_requests", stats.DetailRequests),
			zap.Int64("detail_failures", stats.DetailFailures),
			zap.Int64("token_waits", stats.TokenWaits),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Stats)
	},
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("keyword") {
		c.Search.Keywords = runKeywords
	}
	if flags.Changed("location") {
		c.Search.Location = runLocation
	}
	if flags.Changed("radius") {
		c.Search.Radius = runRadius
	}
	if flags.Changed("output") {
		c.Output.Path = runOutput
	}
	if flags.Changed("workers") {
		c.Enrich.Workers = runWorkers
	}
	if flags.Changed("xlsx") {
		c.Output.XLSXPath = runXLSX
	}
}

func init() {
	runCmd.Flags().StringArrayVar(&runKeywords, "keyword", nil, "search keyword (repeatable; overrides search.keywords)")
	runCmd.Flags().StringVar(&runLocation, "location", "", "search center as \"lat,lng\"")
	runCmd.Flags().IntVar(&runRadius, "radius", 0, "search radius in meters")
	runCmd.Flags().StringVar(&runOutput, "output", "", "lead CSV path")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "concurrent website fetches")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "max candidates to enrich (0 = all)")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "also export the merged leads to this XLSX path")
	rootCmd.AddCommand(runCmd)
}
