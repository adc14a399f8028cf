package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/engine"
	"github.com/castmind/quetzal/internal/extract"
	"github.com/castmind/quetzal/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|glob>...",
		Short: "Import bank statements",
		Long: `Import PDF and CSV bank statements into the local database.

Each file's format is detected from its name and content. Transactions are
deduplicated by content hash, so re-importing a statement is harmless.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("secondary", false, "statements belong to the secondary account holder")
	cmd.Flags().Bool("dry-run", false, "extract and report without saving anything")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	secondary, _ := cmd.Flags().GetBool("secondary")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var engineStore engine.Store = store
	if dryRun {
		engineStore = dryRunStore{store}
	}
	eng, cleanup := initEngine(cfg, engineStore)
	defer cleanup()

	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no statement files matched")
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Importing statements"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	opts := extract.Options{SecondaryHolder: secondary}
	var (
		failures  []error
		extracted int
		imported  int
	)
	for _, file := range files {
		result, err := eng.ProcessDocument(ctx, file, opts)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", filepath.Base(file), err))
		} else {
			extracted += result.Extracted
			imported += result.Imported
			printImportResult(result, dryRun)
		}
		_ = bar.Add(1)
	}

	if dryRun {
		fmt.Printf("Dry run: %d transactions extracted from %d file(s), nothing saved\n",
			extracted, len(files)-len(failures))
	} else {
		fmt.Printf("Imported %d new transactions (%d extracted) from %d file(s)\n",
			imported, extracted, len(files)-len(failures))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d file(s) failed: %w", len(failures), errors.Join(failures...))
	}
	return nil
}

func printImportResult(result *engine.ImportResult, dryRun bool) {
	verb := "imported"
	if dryRun {
		verb = "would import"
	}
	fmt.Printf("  %s: %s, %d extracted, %s %d\n",
		filepath.Base(result.Path), result.Format.String(), result.Extracted, verb, result.Imported)
}

// expandArgs resolves glob patterns that the shell did not expand.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %w", arg, err)
			}
			files = append(files, matches...)
			continue
		}
		files = append(files, arg)
	}
	return files, nil
}

// dryRunStore makes saves report success without touching the database.
type dryRunStore struct {
	engine.Store
}

func (dryRunStore) SaveTransactions(_ context.Context, txns []model.Transaction) (int, error) {
	return len(txns), nil
}
