package sqladmin

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nerrad567/sqlweb/internal/infrastructure/database"
	"github.com/nerrad567/sqlweb/internal/infrastructure/logging"
)

// Opener returns a fresh handle on the managed database. The Store closes
// every handle it obtains before the operation that opened it returns.
type Opener func(ctx context.Context) (*database.DB, error)

// Store is the data access layer over a single SQLite file.
//
// It keeps no connection between calls: each operation opens the file,
// runs its statements and closes it again on every exit path. Identifier
// validation happens before the file is opened, so a rejected request never
// touches the database.
type Store struct {
	path   string
	open   Opener
	logger *logging.Logger
}

// NewStore creates a Store that opens cfg.Path for each operation.
func NewStore(cfg database.Config) *Store {
	return NewStoreWithOpener(cfg.Path, func(ctx context.Context) (*database.DB, error) {
		return database.Open(ctx, cfg)
	})
}

// NewStoreWithOpener creates a Store that obtains handles from open.
// path is informational and reported by Path.
func NewStoreWithOpener(path string, open Opener) *Store {
	return &Store{
		path:   path,
		open:   open,
		logger: logging.Discard(),
	}
}

// SetLogger sets the logger for statement tracing and close failures.
func (s *Store) SetLogger(logger *logging.Logger) {
	if logger != nil {
		s.logger = logger.With("component", "sqladmin")
	}
}

// Path returns the path of the managed database file.
func (s *Store) Path() string {
	return s.path
}

// withHandle runs fn on a freshly opened handle and always closes it.
func (s *Store) withHandle(ctx context.Context, fn func(db *database.DB) error) error {
	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			s.logger.Warn("closing database handle", "path", db.Path(), "error", closeErr)
		}
	}()
	return fn(db)
}

// withDB is withHandle for code that only needs database/sql.
func (s *Store) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	return s.withHandle(ctx, func(db *database.DB) error {
		return fn(db.DB)
	})
}

// Ping verifies the managed file can be opened and queried.
func (s *Store) Ping(ctx context.Context) error {
	return s.withHandle(ctx, func(db *database.DB) error {
		return db.HealthCheck(ctx)
	})
}

// ListTables returns every user table with its row count, ordered by name.
// SQLite's internal sqlite_* tables are excluded.
func (s *Store) ListTables(ctx context.Context) ([]TableInfo, error) {
	tables := make([]TableInfo, 0)
	err := s.withDB(ctx, func(db *sql.DB) error {
		names, err := tableNames(ctx, db)
		if err != nil {
			return err
		}
		for _, name := range names {
			var count int64
			if err := db.QueryRowContext(ctx, countRowsSQL(name)).Scan(&count); err != nil {
				return fmt.Errorf("counting rows in %s: %w", name, err)
			}
			tables = append(tables, TableInfo{Name: name, Rows: count})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// tableNames reads the user table names. The result set is fully drained
// and closed before returning because the handle has a single connection.
func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return names, nil
}

// TableSchema returns the column metadata of table and up to five sample rows.
//
// Returns an ErrInvalidArgument error for a malformed name and an
// ErrNotFound error when the table has no columns.
func (s *Store) TableSchema(ctx context.Context, table string) (*TableSchema, error) {
	name, err := ValidateIdentifier("table", table)
	if err != nil {
		return nil, err
	}

	schema := &TableSchema{Table: name}
	err = s.withDB(ctx, func(db *sql.DB) error {
		cols, err := tableColumns(ctx, db, name)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return notFound("Table '%s' was not found.", name)
		}
		schema.Columns = cols

		rows, err := db.QueryContext(ctx, sampleRowsSQL(name))
		if err != nil {
			return err
		}
		defer rows.Close()

		names, err := rows.Columns()
		if err != nil {
			return err
		}
		schema.SampleRows, err = scanRows(rows, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// tableColumns reads table_info for a validated table name.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, tableInfoSQL, table)
	if err != nil {
		return nil, fmt.Errorf("reading table info: %w", err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			col     ColumnInfo
			typ     sql.NullString
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&col.CID, &col.Name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning table info: %w", err)
		}
		col.Type = typ.String
		col.NotNull = notNull != 0
		col.PrimaryKey = pk != 0
		if dflt.Valid {
			v := dflt.String
			col.Default = &v
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table info: %w", err)
	}
	return cols, nil
}

// ExecuteQuery runs a single console statement verbatim.
//
// Trailing semicolons are stripped. Text holding more than one statement
// fails with ErrMultipleStatements before the file is opened. Statements
// that produce a result set return the read shape; anything else is
// executed and returns the write shape with the driver's affected-row
// count. There is no restriction on statement type.
func (s *Store) ExecuteQuery(ctx context.Context, sqlText string) (*QueryResult, error) {
	stmt, err := singleStatement(sqlText)
	if err != nil {
		return nil, err
	}

	var result *QueryResult
	err = s.withDB(ctx, func(db *sql.DB) error {
		s.logger.Debug("executing console statement", "length", len(stmt))

		// Preparing the statement tells us whether it yields columns;
		// go-sqlite3 does not step it until Next, so a write is not run here.
		rows, err := db.QueryContext(ctx, stmt)
		if err != nil {
			return err
		}
		cols, err := rows.Columns()
		if err != nil {
			rows.Close() //nolint:errcheck // Already failing
			return err
		}

		if len(cols) > 0 {
			defer rows.Close()
			data, err := scanRows(rows, cols)
			if err != nil {
				return err
			}
			result = &QueryResult{Columns: cols, Rows: data, RowCount: len(data)}
			return nil
		}

		if err := rows.Close(); err != nil {
			return err
		}
		affected, err := execAffected(ctx, db, stmt)
		if err != nil {
			return err
		}
		result = writeResult(affected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteScript runs one or more statements in a single transaction and
// reports the number of rows they changed in total. Like ExecuteQuery it
// places no restriction on statement type.
func (s *Store) ExecuteScript(ctx context.Context, script string) (*QueryResult, error) {
	stmt, err := cleanStatement(script)
	if err != nil {
		return nil, err
	}

	var result *QueryResult
	err = s.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("starting transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // No-op after commit

		before, err := totalChanges(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
		after, err := totalChanges(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing script: %w", err)
		}

		result = writeResult(after - before)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// totalChanges reads the connection-wide change counter.
func totalChanges(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	if err := tx.QueryRowContext(ctx, "SELECT total_changes()").Scan(&n); err != nil {
		return 0, fmt.Errorf("reading change counter: %w", err)
	}
	return n, nil
}

// CreateTable creates table with the given columns unless it already
// exists. Repeated calls with the same definition succeed.
func (s *Store) CreateTable(ctx context.Context, table string, columns []ColumnDefinition) (*CreateTableResult, error) {
	name, stmt, err := buildCreateTable(table, columns)
	if err != nil {
		return nil, err
	}

	err = s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("table created", "table", name, "columns", len(columns))
	return &CreateTableResult{Table: name, SQL: stmt}, nil
}

// InsertRow inserts one row. Column names are validated identifiers; values
// are always bound parameters.
func (s *Store) InsertRow(ctx context.Context, table string, values map[string]any) (int64, error) {
	stmt, args, err := buildInsert(table, values)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = s.withDB(ctx, func(db *sql.DB) error {
		affected, err = execAffected(ctx, db, stmt, args...)
		return err
	})
	return affected, err
}

// DeleteRows deletes the rows matching every condition. With no conditions
// it refuses unless deleteAll is set, in which case the table is emptied.
func (s *Store) DeleteRows(ctx context.Context, table string, conditions map[string]any, deleteAll bool) (int64, error) {
	name, stmt, args, err := buildDelete(table, conditions, deleteAll)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = s.withDB(ctx, func(db *sql.DB) error {
		affected, err = execAffected(ctx, db, stmt, args...)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("rows deleted", "table", name, "rows", affected, "all", len(conditions) == 0)
	return affected, nil
}

// DropTable drops table if it exists. Dropping a missing table succeeds.
func (s *Store) DropTable(ctx context.Context, table string) error {
	name, stmt, err := dropTableSQL(table)
	if err != nil {
		return err
	}

	err = s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("table dropped", "table", name)
	return nil
}

// execAffected executes stmt and returns the affected-row count.
func execAffected(ctx context.Context, db *sql.DB, stmt string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return n, nil
}

// writeResult builds the write shape of a QueryResult.
func writeResult(affected int64) *QueryResult {
	return &QueryResult{
		Columns:      []string{},
		Rows:         []map[string]any{},
		RowCount:     0,
		RowsAffected: &affected,
	}
}
