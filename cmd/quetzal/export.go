package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/castmind/quetzal/internal/config"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to CSV or XLSX",
		Long: `Export stored transactions in the spreadsheet import schema. Dates are
written as spreadsheet serial numbers. Exports containing foreign-currency
transactions gain Original Value and Original Currency columns.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "csv", "output format (csv, xlsx)")
	cmd.Flags().StringP("output", "o", "", "output file (default: derived name in the configured output dir)")
	cmd.Flags().StringP("account", "a", "", "export a single account by its label")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, cleanup := initEngineNoOCR(cfg, store)
	defer cleanup()

	format, _ := cmd.Flags().GetString("format")
	account, _ := cmd.Flags().GetString("account")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = filepath.Join(cfg.Export.OutputDir, defaultExportName(account, format))
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer func() { _ = f.Close() }()

	n, err := eng.Export(cmd.Context(), f, format, account)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d transactions to %s\n", n, output)
	return nil
}

// defaultExportName derives a file name like all_transactions_2025-10-31.csv
// or industrial_gtq_2025-10-31.xlsx.
func defaultExportName(account, format string) string {
	stem := "all_transactions"
	if account != "" {
		stem = strings.ToLower(account)
		stem = strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				return r
			default:
				return '_'
			}
		}, stem)
		stem = strings.Trim(stem, "_")
	}
	return fmt.Sprintf("%s_%s.%s", stem, time.Now().Format("2006-01-02"), format)
}
