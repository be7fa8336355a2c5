package main

import (
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/extract"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/scorer"
)

// siteReport is the output of the analyze command.
type siteReport struct {
	URL      string                `json:"url"`
	Analysis model.WebsiteAnalysis `json:"analysis"`
	Score    int                   `json:"lead_score"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Fetch one website and print its signals and score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a := newAnalyzer(cfg).Analyze(ctx, args[0])
		return writeSiteReport(os.Stdout, args[0], a)
	},
}

// writeSiteReport scores a as a business with only a website known.
func writeSiteReport(w io.Writer, url string, a model.WebsiteAnalysis) error {
	b := model.EnrichedBusiness{Website: url}
	report := siteReport{
		URL:      extract.NormalizeURL(url),
		Analysis: a,
		Score:    scorer.Score(scorer.SignalsFor(b, a)),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
