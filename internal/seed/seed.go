// Package seed bulk-loads reference data (ingredients, tags) from JSON fixtures.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"foodgram/internal/logging"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
)

var (
	ErrFileNotFound  = errors.New("fixture file not found")
	ErrAlreadyLoaded = errors.New("table already has rows")
)

// DB is the subset of *pgxpool.Pool the loader needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

type IngredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type TagRecord struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LoadIngredients inserts every distinct (name, measurement_unit) pair from path.
// It refuses to run when the ingredients table is not empty.
func LoadIngredients(ctx context.Context, db DB, path string) (int64, error) {
	var records []IngredientRecord
	if err := readFixture(path, &records); err != nil {
		return 0, err
	}
	if err := ensureEmpty(ctx, db, "ingredients"); err != nil {
		return 0, err
	}

	rows := make([][]any, 0, len(records))
	seen := make(map[[2]string]struct{}, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		unit := strings.TrimSpace(rec.MeasurementUnit)
		if name == "" || unit == "" {
			continue
		}
		key := [2]string{name, unit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, []any{name, unit})
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{"ingredients"}, []string{"name", "measurement_unit"}, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy ingredients: %w", err)
	}
	log := logging.With("seed")
	log.Info().Int64("count", n).Str("path", path).Msg("Ingredients loaded")
	return n, nil
}

// LoadTags inserts tags from path, skipping repeated names or slugs.
func LoadTags(ctx context.Context, db DB, path string) (int64, error) {
	var records []TagRecord
	if err := readFixture(path, &records); err != nil {
		return 0, err
	}
	if err := ensureEmpty(ctx, db, "tags"); err != nil {
		return 0, err
	}

	rows := make([][]any, 0, len(records))
	names := make(map[string]struct{}, len(records))
	slugs := make(map[string]struct{}, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		slug := strings.TrimSpace(rec.Slug)
		if name == "" || slug == "" {
			continue
		}
		if _, dup := names[name]; dup {
			continue
		}
		if _, dup := slugs[slug]; dup {
			continue
		}
		names[name] = struct{}{}
		slugs[slug] = struct{}{}
		rows = append(rows, []any{name, slug})
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{"tags"}, []string{"name", "slug"}, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy tags: %w", err)
	}
	log := logging.With("seed")
	log.Info().Int64("count", n).Str("path", path).Msg("Tags loaded")
	return n, nil
}

func readFixture(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func ensureEmpty(ctx context.Context, db DB, table string) error {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", pgx.Identifier{table}.Sanitize())
	if err := db.QueryRow(ctx, query).Scan(&exists); err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, table)
	}
	return nil
}
