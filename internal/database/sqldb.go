package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

// SQL adapts a database/sql handle to DB. The server runs on the pgx pool;
// repository tests run this adapter over sqlmock. Array columns arrive as
// Postgres text literals ("{Go,SQL}") and are decoded through pgtype.
type SQL struct {
	db *sql.DB
}

func WrapSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrNilDB
	}
	return s.db.PingContext(ctx)
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQL) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrNilDB
	}
	return execResult(s.db.ExecContext(ctx, query, args...))
}

func (s *SQL) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	if s == nil || s.db == nil {
		return nil, ErrNilDB
	}
	r, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: r}, nil
}

func (s *SQL) QueryRow(ctx context.Context, query string, args ...any) Row {
	if s == nil || s.db == nil {
		return errRow{err: ErrNilDB}
	}
	return sqlRow{row: s.db.QueryRowContext(ctx, query, args...)}
}

func (s *SQL) Begin(ctx context.Context) (Tx, error) {
	if s == nil || s.db == nil {
		return nil, ErrNilDB
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return sqlTx{tx: tx}, nil
}

func (s *SQL) SQLDB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execResult(t.tx.ExecContext(ctx, query, args...))
}

func (t sqlTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	r, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: r}, nil
}

func (t sqlTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t sqlTx) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t sqlTx) Rollback(context.Context) error {
	return t.tx.Rollback()
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Close()                 { _ = r.rows.Close() }
func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(arrayTargets(dest)...) }
func (r sqlRows) Err() error             { return r.rows.Err() }

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error { return r.row.Scan(arrayTargets(dest)...) }

// arrayTargets swaps slice destinations for pgtype scanners, which parse
// the array literal database/sql hands back as a string. A pgtype.Map is
// not safe for concurrent use, so each scan builds its own.
func arrayTargets(dest []any) []any {
	var m *pgtype.Map
	var out []any
	for i, d := range dest {
		switch d.(type) {
		case *[]string, *[]int32, *[]int64:
			if m == nil {
				m = pgtype.NewMap()
				out = append([]any(nil), dest...)
			}
			out[i] = m.SQLScanner(d)
		}
	}
	if out == nil {
		return dest
	}
	return out
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }

func execResult(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
