package history

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/internal/version"
	"github.com/signalcraft-lab/signalcraft/pkg/errors"
)

// Store persists run ledgers in a DuckDB database so a later invocation can
// compare against them. It lives outside the pipeline core; the pipeline only
// ever sees the LedgerTable the store returns.
type Store struct {
	db *sql.DB
}

const schemaVersionKey = "schema_version"

// OpenStore opens (or creates) a history store at the given path. Use
// ":memory:" for an ephemeral store. The stored schema version is checked
// against the current one; an incompatible store fails rather than being
// silently migrated.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to open history store", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			symbol TEXT,
			created_at TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS ledger_rows (
			run_id TEXT,
			idx INTEGER,
			date TIMESTAMP,
			balance DOUBLE,
			profit DOUBLE
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create history schema", err)
	}

	var stored string

	err = sq.Select("value").From("meta").
		Where(sq.Eq{"key": schemaVersionKey}).
		RunWith(s.db).QueryRow().Scan(&stored)

	switch {
	case err == sql.ErrNoRows:
		_, err = sq.Insert("meta").
			Columns("key", "value").
			Values(schemaVersionKey, version.SchemaVersion).
			RunWith(s.db).Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to record schema version", err)
		}
	case err != nil:
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to read schema version", err)
	default:
		if err := version.CheckSchemaCompatibility(version.SchemaVersion, stored); err != nil {
			return errors.Wrap(errors.ErrCodeStoreSchemaMismatch, "incompatible history store", err)
		}
	}

	return nil
}

// SaveRun writes a run's ledger under a fresh run id and returns the id.
func (s *Store) SaveRun(symbol string, ledger types.LedgerTable) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to begin transaction", err)
	}

	_, err = sq.Insert("runs").
		Columns("run_id", "symbol", "created_at").
		Values(runID, symbol, time.Now().UTC()).
		RunWith(tx).Exec()
	if err != nil {
		tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to insert run", err)
	}

	insert := sq.Insert("ledger_rows").Columns("run_id", "idx", "date", "balance", "profit")
	for i, row := range ledger {
		insert = insert.Values(runID, i, row.Date, row.Balance, row.Profit)
	}

	if len(ledger) > 0 {
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			tx.Rollback()

			return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to insert ledger rows", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to commit run", err)
	}

	return runID, nil
}

// LoadLatest returns the most recent prior ledger for the symbol, or an empty
// table when the symbol has no recorded runs. Callers pass the result to the
// comparator, which zero-fills on an empty prior.
func (s *Store) LoadLatest(symbol string) (types.LedgerTable, error) {
	var runID string

	err := sq.Select("run_id").From("runs").
		Where(sq.Eq{"symbol": symbol}).
		OrderBy("created_at DESC").
		Limit(1).
		RunWith(s.db).QueryRow().Scan(&runID)

	if err == sql.ErrNoRows {
		return types.LedgerTable{}, nil
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to look up latest run", err)
	}

	rows, err := sq.Select("date", "balance", "profit").From("ledger_rows").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("idx ASC").
		RunWith(s.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to load ledger rows", err)
	}
	defer rows.Close()

	var ledger types.LedgerTable

	for rows.Next() {
		var row types.LedgerRow
		if err := rows.Scan(&row.Date, &row.Balance, &row.Profit); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan ledger row", err)
		}

		// DuckDB returns timestamps in local time; ledger dates are UTC.
		row.Date = row.Date.UTC()

		ledger = append(ledger, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to iterate ledger rows", err)
	}

	return ledger, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
