package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/L1nMay/scanresults/internal/logger"
)

// RunMigrations executes every .sql file in dir. Files must be idempotent,
// they run on every start.
func RunMigrations(db *sql.DB, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		if filepath.Ext(f.Name()) != ".sql" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(b)); err != nil {
			return err
		}
		logger.Debugf("migration %s applied", f.Name())
	}
	return nil
}
