// Package migrations embeds the per-service goose migrations and applies
// them at startup.
package migrations

import (
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed product/*.sql order/*.sql payment/*.sql
var fs embed.FS

// Up applies the migrations for one service schema. dir is the service
// subdirectory: "product", "order" or "payment".
func Up(dsn, dir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	// Services may share one database, so each directory gets its own
	// version table; a shared table would skip the second service's set.
	goose.SetTableName("goose_db_version_" + dir)
	goose.SetBaseFS(fs)
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply %s migrations: %w", dir, err)
	}
	return nil
}
