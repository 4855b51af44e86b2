package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izakaya-order/migrations"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"002_sales.sql":       {Data: []byte("SELECT 1;")},
		"001_init.sql":        {Data: []byte("SELECT 1;")},
		"README.md":           {Data: []byte("notes")},
		"010_later.sql":       {Data: []byte("SELECT 1;")},
		"archive/000_old.sql": {Data: []byte("SELECT 1;")},
	}

	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_sales.sql", "010_later.sql"}, files)
}

func TestMigrationFiles_Empty(t *testing.T) {
	files, err := migrationFiles(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMigrationFiles_Embedded(t *testing.T) {
	files, err := migrationFiles(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, files, "001_init.sql")
}
