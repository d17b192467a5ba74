package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"FinanceHarvester/internal/model"
)

// dialect captures the SQL differences between the supported stores.
type dialect struct {
	name        string
	types       map[model.ColumnType]string
	placeholder func(i int) string
	listTables  string
}

var sqliteDialect = dialect{
	name: "sqlite",
	types: map[model.ColumnType]string{
		model.ColumnText:    "TEXT",
		model.ColumnReal:    "REAL",
		model.ColumnInteger: "INTEGER",
	},
	placeholder: func(int) string { return "?" },
	listTables:  `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
}

var postgresDialect = dialect{
	name: "postgres",
	types: map[model.ColumnType]string{
		model.ColumnText:    "TEXT",
		model.ColumnReal:    "DOUBLE PRECISION",
		model.ColumnInteger: "BIGINT",
	},
	placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
	listTables:  `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name`,
}

// SQLRecorder writes company tables to a SQL database.
type SQLRecorder struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database file.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	// One connection keeps every statement of a transaction on the same file handle.
	db.SetMaxOpenConns(1)

	r := newSQLRecorder(db, sqliteDialect, logger)
	r.logger.Info("connected to SQLite database", zap.String("path", dbPath))
	return r, nil
}

// NewPostgresRecorder connects to PostgreSQL using a lib/pq DSN.
func NewPostgresRecorder(dsn string, logger *zap.Logger) (*SQLRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := newSQLRecorder(db, postgresDialect, logger)
	r.logger.Info("connected to PostgreSQL database")
	return r, nil
}

func newSQLRecorder(db *sql.DB, d dialect, logger *zap.Logger) *SQLRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLRecorder{db: db, dialect: d, logger: logger.With(zap.String("store", d.name))}
}

// DB exposes the underlying connection pool.
func (r *SQLRecorder) DB() *sql.DB { return r.db }

// SaveCompany replaces <symbol>_<kind> for every present table of rec
// in a single transaction. On error nothing is committed.
func (r *SQLRecorder) SaveCompany(ctx context.Context, rec *model.CompanyRecord) error {
	tables := rec.Tables()
	if len(tables) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, t := range tables {
		name := model.TableName(rec.Symbol, t.Kind())
		r.logger.Info("saving table", zap.String("symbol", rec.Symbol), zap.String("table", name), zap.Int("rows", t.Len()))
		if err := r.replaceTable(ctx, tx, name, t); err != nil {
			tx.Rollback()
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// WriteTable replaces one table in its own transaction.
func (r *SQLRecorder) WriteTable(ctx context.Context, name string, t model.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := r.replaceTable(ctx, tx, name, t); err != nil {
		tx.Rollback()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return tx.Commit()
}

// Tables lists the user tables in the store, sorted by name.
func (r *SQLRecorder) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.listTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (r *SQLRecorder) Close() error {
	r.logger.Info("closing database connection")
	return r.db.Close()
}

func (r *SQLRecorder) replaceTable(ctx context.Context, tx *sql.Tx, name string, t model.Table) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return fmt.Errorf("table has no columns")
	}
	table := quoteIdent(name)

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.Name)
		defs[i] = names[i] + " " + r.dialect.types[c.Type]
		marks[i] = r.dialect.placeholder(i + 1)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range t.Records() {
		if _, err := stmt.ExecContext(ctx, rec...); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
