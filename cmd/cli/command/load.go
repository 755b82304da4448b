package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type loaderFunc func(ctx context.Context, db seed.DB, path string) (int64, error)

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients [path]",
	Short: "Bulk load ingredients from a JSON fixture",
	Long: `Load [{"name": ..., "measurement_unit": ...}] records into the ingredients table.
The path defaults to INGREDIENTS_PATH. Nothing is loaded when the table already has rows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoader(cmd.Context(), "ingredients", fixturePath(args, cfg.IngredientsPath), seed.LoadIngredients)
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "load-tags [path]",
	Short: "Bulk load tags from a JSON fixture",
	Long: `Load [{"name": ..., "slug": ...}] records into the tags table.
The path defaults to TAGS_PATH. Nothing is loaded when the table already has rows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoader(cmd.Context(), "tags", fixturePath(args, cfg.TagsPath), seed.LoadTags)
	},
}

func fixturePath(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

func runLoader(ctx context.Context, what, path string, load loaderFunc) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	n, err := load(ctx, pool, path)
	switch {
	case errors.Is(err, seed.ErrAlreadyLoaded):
		fmt.Printf("⚠ %s are already loaded, skipping\n", what)
		return nil
	case errors.Is(err, seed.ErrFileNotFound):
		return fmt.Errorf("%s fixture %q not found", what, path)
	case err != nil:
		return fmt.Errorf("load %s: %w", what, err)
	}

	fmt.Printf("✓ Loaded %d %s from %s\n", n, what, path)
	return nil
}

func init() {
	rootCmd.AddCommand(loadIngredientsCmd)
	rootCmd.AddCommand(loadTagsCmd)
}
