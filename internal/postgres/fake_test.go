package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// fakeRow is a pgx.Row that copies fixed values into Scan destinations.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		sv := reflect.ValueOf(v)
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("scan: cannot assign %T to %T", v, dest[i])
		}
		dv.Elem().Set(sv)
	}
	return nil
}

// fakeRows is a pgx.Rows over fixed rows.
type fakeRows struct {
	pgx.Rows
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.pos-1], dest)
}

func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     {}

// execCall records one Exec or QueryRow invocation.
type execCall struct {
	sql  string
	args []any
}

// fakeDB implements TxBeginner. Handlers are matched by SQL substring.
type fakeDB struct {
	rows     map[string]fakeRow
	multi    map[string]*fakeRows
	execErr  error
	beginErr error

	calls     []execCall
	committed bool
	rolled    bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		rows:  make(map[string]fakeRow),
		multi: make(map[string]*fakeRows),
	}
}

func (f *fakeDB) match(sql string) string {
	for key := range f.rows {
		if strings.Contains(sql, key) {
			return key
		}
	}
	return ""
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if key := f.match(sql); key != "" {
		return f.rows[key]
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	for key, rows := range f.multi {
		if strings.Contains(sql, key) {
			return rows, nil
		}
	}
	return &fakeRows{}, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeTx{db: f}, nil
}

// fakeTx routes queries to its fakeDB and records commit or rollback.
type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.db.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.db.rolled = true
	return nil
}

var errConnReset = errors.New("connection reset by peer")

func num(s string) pgtype.Numeric {
	return numericFromDecimal(decimal.RequireFromString(s))
}
