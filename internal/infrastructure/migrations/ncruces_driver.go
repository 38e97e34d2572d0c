package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// DefaultMigrationsTable records the applied schema version.
const DefaultMigrationsTable = "schema_migrations"

var (
	// ErrNilConfig is returned by WithInstance when config is nil.
	ErrNilConfig = errors.New("no config")

	errOpenUnsupported = errors.New("open by URL is not supported; use WithInstance")
)

// Config holds configuration for the SQLite migration driver.
type Config struct {
	MigrationsTable string
	NoTxWrap        bool // run each migration outside a transaction
}

// NCrucesSqlite implements database.Driver on top of an existing *sql.DB
// opened with the ncruces driver. Locking is in-process only; a single
// deadlines process owns its database file.
type NCrucesSqlite struct {
	db     *sql.DB
	config *Config
	locked atomic.Bool
}

var _ database.Driver = (*NCrucesSqlite)(nil)

// WithInstance wraps db and makes sure the version table exists.
func WithInstance(db *sql.DB, config *Config) (database.Driver, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if config.MigrationsTable == "" {
		config.MigrationsTable = DefaultMigrationsTable
	}

	d := &NCrucesSqlite{db: db, config: config}
	if err := d.ensureVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *NCrucesSqlite) ensureVersionTable() (err error) {
	if err := d.Lock(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Unlock())
	}()

	ddl := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %[1]s (version uint64, dirty bool);
		CREATE UNIQUE INDEX IF NOT EXISTS version_unique ON %[1]s (version);`,
		d.config.MigrationsTable)
	_, err = d.db.Exec(ddl)
	return err
}

// Open implements database.Driver. Only WithInstance is supported.
func (d *NCrucesSqlite) Open(string) (database.Driver, error) {
	return nil, errOpenUnsupported
}

// Close closes the wrapped connection.
func (d *NCrucesSqlite) Close() error {
	return d.db.Close()
}

// Lock implements database.Driver.
func (d *NCrucesSqlite) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

// Unlock implements database.Driver.
func (d *NCrucesSqlite) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file.
func (d *NCrucesSqlite) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	query := string(body)

	if d.config.NoTxWrap {
		if _, err := d.db.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	})
}

// SetVersion replaces the recorded version.
func (d *NCrucesSqlite) SetVersion(version int, dirty bool) error {
	table := d.config.MigrationsTable
	return d.inTx(func(tx *sql.Tx) error {
		del := "DELETE FROM " + table //nolint:gosec // table name comes from Config, not user input
		if _, err := tx.Exec(del); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(del)}
		}

		// A dirty NilVersion is still written so a failed first down
		// migration is visible (golang-migrate issue 330).
		if version < 0 && !(version == database.NilVersion && dirty) {
			return nil
		}
		ins := fmt.Sprintf("INSERT INTO %s (version, dirty) VALUES (?, ?)", table) //nolint:gosec // see above
		if _, err := tx.Exec(ins, version, dirty); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(ins)}
		}
		return nil
	})
}

// Version returns the recorded version, or NilVersion when none is recorded.
func (d *NCrucesSqlite) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	q := "SELECT version, dirty FROM " + d.config.MigrationsTable + " LIMIT 1" //nolint:gosec // see SetVersion
	if err := d.db.QueryRow(q).Scan(&version, &dirty); err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every table, including the version table.
func (d *NCrucesSqlite) Drop() error {
	tables, err := d.tableNames()
	if err != nil {
		return err
	}
	for _, t := range tables {
		stmt := "DROP TABLE " + t
		if err := d.inTx(func(tx *sql.Tx) error {
			_, err := tx.Exec(stmt)
			return err
		}); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(stmt)}
		}
	}
	if len(tables) > 0 {
		if _, err := d.db.Exec("VACUUM"); err != nil {
			return &database.Error{OrigErr: err, Query: []byte("VACUUM")}
		}
	}
	return nil
}

func (d *NCrucesSqlite) tableNames() (names []string, err error) {
	const q = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	rows, err := d.db.Query(q)
	if err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(q)}
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (d *NCrucesSqlite) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}
