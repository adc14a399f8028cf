package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castmind/quetzal/internal/model"
)

// seedPattern pairs a category rule with its merchant counterpart.
type seedPattern struct {
	text      string
	category  string
	merchant  string
	matchType model.MatchType
}

// defaultPatterns cover the merchants that dominate local statements.
var defaultPatterns = []seedPattern{
	{text: "supermercado la torre", category: "Groceries", merchant: "La Torre", matchType: model.MatchContains},
	{text: "paiz", category: "Groceries", merchant: "Paiz", matchType: model.MatchContains},
	{text: "walmart", category: "Groceries", merchant: "Walmart", matchType: model.MatchContains},
	{text: "uber", category: "Transport", merchant: "Uber", matchType: model.MatchStartsWith},
	{text: "netflix", category: "Entertainment", merchant: "Netflix", matchType: model.MatchContains},
	{text: "spotify", category: "Entertainment", merchant: "Spotify", matchType: model.MatchContains},
	{text: "claro", category: "Utilities", merchant: "Claro", matchType: model.MatchContains},
	{text: "eegsa", category: "Utilities", merchant: "EEGSA", matchType: model.MatchContains},
	{text: "empagua", category: "Utilities", merchant: "Empagua", matchType: model.MatchContains},
	{text: "deposito nomina", category: "Income", merchant: "", matchType: model.MatchContains},
	{text: "pago banca virtual", category: "Transfers", merchant: "", matchType: model.MatchContains},
	{text: `amazon(\s+mktplace)?`, category: "Shopping", merchant: "Amazon", matchType: model.MatchRegex},
}

const seedConfidence = 0.8

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage classification patterns",
	}
	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsAddCmd())
	cmd.AddCommand(patternsDeactivateCmd())
	cmd.AddCommand(patternsSeedCmd())
	return cmd
}

func patternsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active patterns in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			merchant, _ := cmd.Flags().GetBool("merchant")
			var patterns []model.Pattern
			if merchant {
				patterns, err = store.GetActiveMerchantPatterns(cmd.Context())
			} else {
				patterns, err = store.GetActiveCategoryPatterns(cmd.Context())
			}
			if err != nil {
				return err
			}

			for _, p := range patterns {
				fmt.Printf("%4d  %.2f  %-12s %-30q -> %s\n",
					p.ID, p.Confidence, p.MatchType, p.Text, p.Target)
			}
			return nil
		},
	}
	cmd.Flags().Bool("merchant", false, "list merchant patterns instead of category patterns")
	return cmd
}

func patternsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text> <target>",
		Short: "Add a classification pattern",
		Long: `Add a pattern matching transaction descriptions. Match types: exact,
contains, starts_with, ends_with, regex. Higher-confidence patterns are
evaluated first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			matchType, _ := cmd.Flags().GetString("match-type")
			confidence, _ := cmd.Flags().GetFloat64("confidence")
			merchant, _ := cmd.Flags().GetBool("merchant")

			pattern := &model.Pattern{
				Text:       args[0],
				Target:     args[1],
				MatchType:  model.MatchType(matchType),
				Confidence: confidence,
				IsActive:   true,
			}

			var id int64
			if merchant {
				id, err = store.CreateMerchantPattern(cmd.Context(), pattern)
			} else {
				id, err = store.CreateCategoryPattern(cmd.Context(), pattern)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Created pattern %d: %q -> %s\n", id, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().String("match-type", string(model.MatchContains), "match type")
	cmd.Flags().Float64("confidence", 0.8, "evaluation priority, 0 to 1")
	cmd.Flags().Bool("merchant", false, "create a merchant pattern instead of a category pattern")
	return cmd
}

func patternsDeactivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid pattern id %q", args[0])
			}

			merchant, _ := cmd.Flags().GetBool("merchant")
			if merchant {
				err = store.DeactivateMerchantPattern(cmd.Context(), id)
			} else {
				err = store.DeactivateCategoryPattern(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Deactivated pattern %d\n", id)
			return nil
		},
	}
	cmd.Flags().Bool("merchant", false, "deactivate a merchant pattern instead of a category pattern")
	return cmd
}

func patternsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default pattern set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			created, err := seedPatterns(cmd.Context(), store)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d patterns\n", created)
			return nil
		},
	}
}

type patternStore interface {
	CreateCategoryPattern(ctx context.Context, p *model.Pattern) (int64, error)
	CreateMerchantPattern(ctx context.Context, p *model.Pattern) (int64, error)
}

func seedPatterns(ctx context.Context, store patternStore) (int, error) {
	created := 0
	for _, seed := range defaultPatterns {
		if _, err := store.CreateCategoryPattern(ctx, &model.Pattern{
			Text:       seed.text,
			Target:     seed.category,
			MatchType:  seed.matchType,
			Confidence: seedConfidence,
			IsActive:   true,
		}); err != nil {
			return created, err
		}
		created++

		if seed.merchant == "" {
			continue
		}
		if _, err := store.CreateMerchantPattern(ctx, &model.Pattern{
			Text:       seed.text,
			Target:     seed.merchant,
			MatchType:  seed.matchType,
			Confidence: seedConfidence,
			IsActive:   true,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
