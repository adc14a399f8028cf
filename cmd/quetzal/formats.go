package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/extract"
)

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported statement formats",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			registry := extract.NewRegistry(cfg.Extraction)
			for _, f := range registry.Supported() {
				fmt.Printf("%-30s -> %s\n", f.String(), cfg.Extraction.Label(f))
			}
			return nil
		},
	}
}
