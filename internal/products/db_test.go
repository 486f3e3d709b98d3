package products

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB builds an in-memory database with the columns the product
// repository reads and writes. Postgres-only column defaults from the
// real migration are left out; tests assign ids explicitly.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
		CREATE TABLE products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			model TEXT NOT NULL,
			years TEXT NOT NULL,
			price NUMERIC NOT NULL,
			weight_kg REAL NOT NULL DEFAULT 0,
			length_cm REAL NOT NULL DEFAULT 0,
			height_cm REAL NOT NULL DEFAULT 0,
			width_cm REAL NOT NULL DEFAULT 0,
			image_url_1 TEXT,
			image_url_2 TEXT,
			image_url_3 TEXT,
			sound_stock_url TEXT,
			sound_idle_url TEXT,
			sound_rev_url TEXT,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error)

	t.Cleanup(func() {
		_ = conn.Exec(`DROP TABLE products`).Error
	})
	return conn
}
