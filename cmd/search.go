package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/geo"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List candidate businesses without enriching them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyRunFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		location, err := geo.NormalizeLocation(cfg.Search.Location)
		if err != nil {
			return eris.Wrap(err, "search: location")
		}

		candidates := newGateway(cfg).Search(ctx, location, cfg.Search.Radius, cfg.Search.Keywords)
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "search")
		}
		if searchLimit > 0 && len(candidates) > searchLimit {
			candidates = candidates[:searchLimit]
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	},
}

func init() {
	searchCmd.Flags().StringArrayVar(&runKeywords, "keyword", nil, "search keyword (repeatable; overrides search.keywords)")
	searchCmd.Flags().StringVar(&runLocation, "location", "", "search center as \"lat,lng\"")
	searchCmd.Flags().IntVar(&runRadius, "radius", 0, "search radius in meters")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max candidates to print (0 = all)")
	rootCmd.AddCommand(searchCmd)
}
