package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/engine"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Categorize and normalize stored transactions",
		Long: `Run the classification passes over every stored transaction: the
category pass assigns categories by confidence-ranked patterns, skipping
manually categorized transactions; the merchant pass normalizes merchant
names unconditionally.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanupStore, err := classifierEngine()
			if err != nil {
				return err
			}
			defer cleanupStore()

			result, err := eng.ClassifyAll(cmd.Context())
			if err != nil {
				return err
			}
			printClassifyResult(result)
			return nil
		},
	}
}

func recategorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Re-run classification over stored transactions",
		Long: `Re-run the classification passes, picking up pattern changes since the
last run. With --force, automatically assigned categories are cleared
first so retired patterns stop contributing. Manual categories are never
touched either way.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanupStore, err := classifierEngine()
			if err != nil {
				return err
			}
			defer cleanupStore()

			force, _ := cmd.Flags().GetBool("force")
			result, err := eng.Recategorize(cmd.Context(), force)
			if err != nil {
				return err
			}
			if force {
				fmt.Printf("Cleared %d automatic categories\n", result.Cleared)
			}
			printClassifyResult(result)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "clear automatic categories before reclassifying")
	return cmd
}

func setCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-category <transaction-id> <category>",
		Short: "Manually categorize one transaction",
		Long: `Assign a category by hand. Manual assignments are latched: no automatic
classification pass will ever change them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := initStorage(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetManualCategory(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Transaction %s categorized as %s\n", args[0], args[1])
			return nil
		},
	}
}

// classifierEngine builds an engine without OCR; classification never
// touches PDFs.
func classifierEngine() (*engine.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	eng, cleanup := initEngineNoOCR(cfg, store)
	return eng, func() {
		cleanup()
		_ = store.Close()
	}, nil
}

func printClassifyResult(result *engine.ClassifyResult) {
	fmt.Printf("Classified %d transactions: %d categorized, %d merchants normalized\n",
		result.Total, result.Categorized, result.Normalized)
}
