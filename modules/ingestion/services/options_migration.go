package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/deskflow-io/deskflow/pkg/composables"
)

// OptionsMigrationService is a one-shot job that explodes the legacy
// semi-structured "options" column on ticket_categories into normalized
// category_options rows. It is external to steady-state ingestion and
// idempotent: a claim table keyed by category id guards against re-runs,
// so the job can be executed any number of times.
type OptionsMigrationService struct {
	log *logrus.Logger
}

func NewOptionsMigrationService(log *logrus.Logger) *OptionsMigrationService {
	return &OptionsMigrationService{log: log}
}

type OptionsMigrationResult struct {
	Migrated int
	Skipped  int
	Options  int
}

const (
	legacyCategoriesQuery = `
		SELECT c.id, c.options
		FROM ticket_categories c
		WHERE c.options IS NOT NULL AND c.options <> ''
		ORDER BY c.id`

	claimCategoryQuery = `
		INSERT INTO category_option_migrations (category_id)
		VALUES ($1)
		ON CONFLICT (category_id) DO NOTHING`

	insertOptionQuery = `
		INSERT INTO category_options (category_id, value, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (category_id, value) DO NOTHING`
)

// Run migrates every not-yet-claimed category. Each category is its own
// transaction; a failure on one category leaves the others committed.
func (s *OptionsMigrationService) Run(ctx context.Context) (*OptionsMigrationResult, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, legacyCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type legacyCategory struct {
		id      int64
		options string
	}
	var categories []legacyCategory
	for rows.Next() {
		var c legacyCategory
		if err := rows.Scan(&c.id, &c.options); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	result := &OptionsMigrationResult{}
	for _, c := range categories {
		migrated, count, err := s.migrateCategory(ctx, c.id, c.options)
		if err != nil {
			s.log.WithError(err).WithField("category_id", c.id).
				Warn("category options migration failed, continuing")
			continue
		}
		if migrated {
			result.Migrated++
			result.Options += count
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func (s *OptionsMigrationService) migrateCategory(ctx context.Context, categoryID int64, legacy string) (bool, int, error) {
	options := splitLegacyOptions(legacy)

	var migrated bool
	var inserted int
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(txCtx, claimCategoryQuery, categoryID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Already claimed by an earlier run.
			return nil
		}
		migrated = true
		for i, option := range options {
			tag, err := tx.Exec(txCtx, insertOptionQuery, categoryID, option, i)
			if err != nil {
				return err
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	return migrated, inserted, err
}

// splitLegacyOptions accepts either a JSON string array or a comma
// separated list, normalizing each entry and dropping blanks and
// duplicates while preserving order.
func splitLegacyOptions(legacy string) []string {
	var parts []string
	var asJSON []string
	if err := json.Unmarshal([]byte(legacy), &asJSON); err == nil {
		parts = asJSON
	} else {
		parts = strings.Split(legacy, ",")
	}

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		v := Normalize(part)
		if !v.IsPresent() {
			continue
		}
		if _, dup := seen[v.String()]; dup {
			continue
		}
		seen[v.String()] = struct{}{}
		out = append(out, v.String())
	}
	return out
}
