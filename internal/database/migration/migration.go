package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cmsapi/internal/model"
)

type migrationStep struct {
	Name string
	SQL  string
}

func documentTable(name string) migrationStep {
	return migrationStep{
		Name: "create_table_" + name,
		SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id         TEXT        PRIMARY KEY,
  body       JSONB       NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`, name),
	}
}

func uniqueField(table, field string) migrationStep {
	return migrationStep{
		Name: fmt.Sprintf("create_unique_index_%s_%s", table, field),
		SQL:  fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS ux_%s_%s ON %s ((body ->> '%s'));`, table, field, table, field),
	}
}

var steps = []migrationStep{
	documentTable(model.CollectionPosts),
	documentTable(model.CollectionFiles),
	documentTable(model.CollectionCategories),
	documentTable(model.CollectionTags),
	documentTable(model.CollectionUsers),
	documentTable(model.CollectionProfiles),
	uniqueField(model.CollectionPosts, "slug"),
	uniqueField(model.CollectionCategories, "slug"),
	uniqueField(model.CollectionTags, "slug"),
	uniqueField(model.CollectionProfiles, "user"),
	{
		Name: "create_index_posts_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at);`,
	},
}

// EnsureMigrated checks if the 'posts' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.posts') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", zap.String("reason", "schema already exists"), zap.Duration("duration", time.Since(start)))
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("step_duration", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step", zap.String("migration_step", step.Name), zap.Duration("step_duration", time.Since(stepStart)))
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}
