package migrations

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// openMemoryDB opens a private in-memory database. The pool is pinned to a
// single connection because every new :memory: connection is a fresh database.
func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "ncruces driver should open :memory: database")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestMigrate(t *testing.T, db *sql.DB) *migrate.Migrate {
	t.Helper()
	driver, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	source, err := iofs.New(MigrationsFS(), ".")
	require.NoError(t, err, "iofs should load embedded SQL files")

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	require.NoError(t, err)
	return m
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`SELECT COUNT(*) > 0 FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func columnNames(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns[name] = true
	}
	require.NoError(t, rows.Err())
	return columns
}

func indexNames(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?`, table)
	require.NoError(t, err)
	defer rows.Close()

	indexes := make(map[string]bool)
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		indexes[name] = true
	}
	require.NoError(t, rows.Err())
	return indexes
}

func TestRunMigrations_FreshDB(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, RunMigrations(db), "RunMigrations should succeed on fresh database")

	require.True(t, tableExists(t, db, "tasks"))
	require.True(t, tableExists(t, db, "task_tags"))

	version, dirty, err := SchemaVersion(db)
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
	require.False(t, dirty)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, RunMigrations(db), "first migration run should succeed")
	require.NoError(t, RunMigrations(db), "second migration run should not error")
	require.True(t, tableExists(t, db, "tasks"))
}

func TestSchemaVersion_Unmigrated(t *testing.T) {
	db := openMemoryDB(t)

	version, dirty, err := SchemaVersion(db)
	require.NoError(t, err)
	require.Zero(t, version)
	require.False(t, dirty)
}

func TestMigrations_Schema(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, RunMigrations(db))

	tests := []struct {
		table   string
		columns []string
		indexes []string
	}{
		{
			table:   "tasks",
			columns: []string{"id", "guid", "name", "description", "start_at", "deadline_at", "done", "created_at", "updated_at"},
			indexes: []string{"idx_tasks_deadline", "idx_tasks_done_deadline"},
		},
		{
			table:   "task_tags",
			columns: []string{"task_id", "tag", "position"},
			indexes: []string{"idx_task_tags_tag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			columns := columnNames(t, db, tt.table)
			for _, col := range tt.columns {
				require.True(t, columns[col], "column %s should exist", col)
			}
			require.Len(t, columns, len(tt.columns))

			indexes := indexNames(t, db, tt.table)
			for _, idx := range tt.indexes {
				require.True(t, indexes[idx], "index %s should exist", idx)
			}
		})
	}
}

func TestMigrations_DownStepwise(t *testing.T) {
	db := openMemoryDB(t)
	m := newTestMigrate(t, db)

	require.NoError(t, m.Up())
	require.True(t, tableExists(t, db, "task_tags"))

	require.NoError(t, m.Steps(-1), "rolling back task_tags should succeed")
	require.False(t, tableExists(t, db, "task_tags"))
	require.True(t, tableExists(t, db, "tasks"), "tasks survives the first step down")

	require.NoError(t, m.Down())
	require.False(t, tableExists(t, db, "tasks"))
	require.Empty(t, indexNames(t, db, "tasks"), "all indexes should be dropped")
}

func TestMigrationsFS_Embedded(t *testing.T) {
	entries, err := embeddedMigrationsFS.ReadDir(".")
	require.NoError(t, err, "should read embedded directory")

	fileNames := make(map[string]bool)
	for _, entry := range entries {
		fileNames[entry.Name()] = true
	}

	for _, name := range []string{
		"000001_create_tasks.up.sql",
		"000001_create_tasks.down.sql",
		"000002_create_task_tags.up.sql",
		"000002_create_task_tags.down.sql",
	} {
		require.True(t, fileNames[name], "%s should be embedded", name)
	}

	upContent, err := embeddedMigrationsFS.ReadFile("000001_create_tasks.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(upContent), "CREATE TABLE tasks")

	downContent, err := embeddedMigrationsFS.ReadFile("000002_create_task_tags.down.sql")
	require.NoError(t, err)
	require.Contains(t, string(downContent), "DROP TABLE")
}

func TestWithInstance_NilConfig(t *testing.T) {
	db := openMemoryDB(t)

	_, err := WithInstance(db, nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestNCrucesSqlite_LockIsExclusive(t *testing.T) {
	db := openMemoryDB(t)
	driver, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	require.NoError(t, driver.Lock())
	require.Error(t, driver.Lock(), "second lock should fail while held")
	require.NoError(t, driver.Unlock())
	require.Error(t, driver.Unlock(), "unlocking twice should fail")
}

func TestNCrucesSqlite_SetVersion(t *testing.T) {
	db := openMemoryDB(t)
	driver, err := WithInstance(db, &Config{MigrationsTable: "custom_versions"})
	require.NoError(t, err)
	require.True(t, tableExists(t, db, "custom_versions"))

	version, dirty, err := driver.Version()
	require.NoError(t, err)
	require.Equal(t, -1, version, "no version recorded yet")
	require.False(t, dirty)

	require.NoError(t, driver.SetVersion(3, true))
	version, dirty, err = driver.Version()
	require.NoError(t, err)
	require.Equal(t, 3, version)
	require.True(t, dirty)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM custom_versions`).Scan(&rows))
	require.Equal(t, 1, rows, "SetVersion replaces rather than appends")
}

func TestMigrateIdempotent(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, newTestMigrate(t, db).Up(), "first migration run should succeed")

	// A second migrator simulates an app restart.
	err := newTestMigrate(t, db).Up()
	require.True(t, errors.Is(err, migrate.ErrNoChange), "got: %v", err)
}

func TestSchema_Constraints(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, RunMigrations(db))

	const insertTask = `
		INSERT INTO tasks (guid, name, start_at, deadline_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := db.Exec(insertTask, "guid-1", "report", nil, 1715781600000, 1715781600000, 1715781600000)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	_, err = db.Exec(insertTask, "guid-1", "dup", nil, 1715781600000, 1715781600000, 1715781600000)
	require.Error(t, err, "guid must be unique")

	_, err = db.Exec(insertTask, "guid-2", "inverted", 1715781600001, 1715781600000, 1715781600000, 1715781600000)
	require.Error(t, err, "CHECK constraint should reject start after deadline")

	_, err = db.Exec(`INSERT INTO task_tags (task_id, tag, position) VALUES (?, ?, ?)`, id, "work", 0)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	require.NoError(t, err)

	var tagRows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_tags`).Scan(&tagRows))
	require.Zero(t, tagRows, "tags cascade with their task")
}
