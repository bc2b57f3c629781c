package ubiquo

import (
	"io/fs"

	"github.com/wilhelser/ubiquo/internal/database"
)

// GetMigrationsFS returns the embedded PostgreSQL migrations.
func GetMigrationsFS() fs.FS {
	return database.Migrations()
}
