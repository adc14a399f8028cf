package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/model"
	"github.com/castmind/quetzal/internal/storage"
)

// defaultCategories is the starter set for a fresh database.
var defaultCategories = []model.Category{
	{Name: "Groceries", Color: "#4caf50", IsActive: true},
	{Name: "Restaurants", Color: "#ff9800", IsActive: true},
	{Name: "Transport", Color: "#2196f3", IsActive: true},
	{Name: "Utilities", Color: "#9c27b0", IsActive: true},
	{Name: "Entertainment", Color: "#e91e63", IsActive: true},
	{Name: "Health", Color: "#f44336", IsActive: true},
	{Name: "Shopping", Color: "#795548", IsActive: true},
	{Name: "Travel", Color: "#00bcd4", IsActive: true},
	{Name: "Education", Color: "#3f51b5", IsActive: true},
	{Name: "Income", Color: "#8bc34a", IsActive: true},
	{Name: "Transfers", Color: "#607d8b", IsActive: true},
	{Name: "Fees", Color: "#9e9e9e", IsActive: true},
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesSeedCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			categories, err := store.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Println("No categories; run 'quetzal categories seed' to create the defaults")
				return nil
			}
			for _, c := range categories {
				fmt.Printf("%4d  %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			color, _ := cmd.Flags().GetString("color")
			id, err := store.CreateCategory(cmd.Context(), &model.Category{
				Name:     args[0],
				Color:    color,
				IsActive: true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created category %s (id %d)\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().String("color", "", "display color, e.g. #4caf50")
	return cmd
}

func categoriesSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default category set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			created := 0
			for _, c := range defaultCategories {
				c := c
				if _, err := store.CreateCategory(cmd.Context(), &c); err != nil {
					if errors.Is(err, common.ErrDuplicateEntry) {
						continue
					}
					return err
				}
				created++
			}
			fmt.Printf("Seeded %d categories (%d already present)\n",
				created, len(defaultCategories)-created)
			return nil
		},
	}
}

func openStore() (*storage.SQLiteStorage, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
