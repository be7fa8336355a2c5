package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/store"
)

var exportXLSX string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert the persisted lead CSV to XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := exportXLSX
		if path == "" {
			path = cfg.Output.XLSXPath
		}
		if path == "" {
			return eris.New("export: --xlsx is required")
		}

		rows, err := store.New(cfg.Output.Path).Load(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.WriteXLSX(path, rows); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d leads to %s\n", len(rows), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "destination XLSX path (defaults to output.xlsx_path)")
	rootCmd.AddCommand(exportCmd)
}
