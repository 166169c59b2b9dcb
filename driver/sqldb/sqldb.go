package sqldb

import (
	"database/sql"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/ulib-project/orm/driver"
)

// Driver adapts the database/sql backend registered under the given name.
type Driver struct {
	name string
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*conn)(nil)
	_ driver.Stmt   = (*stmt)(nil)
)

// New creates an adapter for the named database/sql backend. The backend
// must be linked into the binary, usually via its blank import.
func New(driverName string) *Driver {
	return &Driver{name: driverName}
}

// Open connects and pings the backend with the given data source name.
func (d *Driver) Open(options string) (driver.Conn, error) {
	db, err := sqlx.Connect(d.name, options)
	if err != nil {
		return nil, err
	}
	return &conn{db: db}, nil
}

type conn struct {
	db       *sqlx.DB
	affected uint64
	lastID   uint64
}

// Ready reports whether the connection answers a ping.
func (c *conn) Ready() bool {
	return c.db != nil && c.db.Ping() == nil
}

// Prepare rebinds ? placeholders to the backend's convention and prepares
// the statement.
func (c *conn) Prepare(query string) (driver.Stmt, error) {
	st, err := c.db.Prepare(c.db.Rebind(query))
	if err != nil {
		return nil, err
	}
	return &stmt{conn: c, st: st}, nil
}

// Exec runs a one-shot statement and records its result counters.
func (c *conn) Exec(query string) error {
	res, err := c.db.Exec(query)
	if err != nil {
		return err
	}
	c.affected, c.lastID = resultCounters(res)
	return nil
}

func (c *conn) Affected() uint64 { return c.affected }

// LastInsertID reports the identity of the most recent insert. When a
// sequence name is given the backend's current sequence value is queried
// instead, for backends that allocate identities from sequences.
func (c *conn) LastInsertID(sequence string) uint64 {
	if sequence != "" {
		var id uint64
		if err := c.db.QueryRow(c.db.Rebind("SELECT currval(?)"), sequence).Scan(&id); err == nil {
			return id
		}
	}
	return c.lastID
}

// Raw exposes the underlying *sqlx.DB.
func (c *conn) Raw() any { return c.db }

func (c *conn) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

type stmt struct {
	conn *conn
	st   *sql.Stmt

	params []driver.Value
	dests  []any

	rows     *sql.Rows
	cols     []string
	executed bool
	affected uint64
	lastID   uint64
}

func (s *stmt) BindParam(pos int, v driver.Value) error {
	for len(s.params) <= pos {
		s.params = append(s.params, nil)
	}
	s.params[pos] = v
	return nil
}

func (s *stmt) BindResult(pos int, dest any) error {
	for len(s.dests) <= pos {
		s.dests = append(s.dests, nil)
	}
	s.dests[pos] = dest
	return nil
}

// Exec runs the prepared statement. With result bindings registered it
// takes the query path and stages rows; otherwise it takes the exec path
// and records result counters.
func (s *stmt) Exec() error {
	s.closeRows()

	args := make([]any, len(s.params))
	for i, p := range s.params {
		args[i] = execArg(p)
	}

	if len(s.dests) > 0 {
		rows, err := s.st.Query(args...)
		if err != nil {
			return err
		}
		s.rows = rows
		s.cols, _ = rows.Columns()
	} else {
		res, err := s.st.Exec(args...)
		if err != nil {
			return err
		}
		s.affected, s.lastID = resultCounters(res)
		s.conn.affected, s.conn.lastID = s.affected, s.lastID
	}
	s.executed = true
	return nil
}

// Next advances the staged rows, scanning into bound targets. A statement
// with result bindings that was never executed runs lazily on the first
// advance.
func (s *stmt) Next() bool {
	if s.rows == nil {
		if s.executed || len(s.dests) == 0 {
			return false
		}
		if err := s.Exec(); err != nil {
			return false
		}
	}
	if s.rows == nil || !s.rows.Next() {
		return false
	}

	targets := make([]any, len(s.cols))
	for i := range targets {
		if i < len(s.dests) && s.dests[i] != nil {
			targets[i] = s.dests[i]
		} else {
			targets[i] = new(any)
		}
	}
	return s.rows.Scan(targets...) == nil
}

func (s *stmt) Cols() int { return len(s.cols) }

// Reset discards bound parameters, bound results, and any open row set.
// The prepared statement itself is kept.
func (s *stmt) Reset() error {
	s.closeRows()
	s.params = nil
	s.dests = nil
	s.executed = false
	return nil
}

func (s *stmt) Affected() uint64 { return s.affected }

func (s *stmt) LastInsertID(sequence string) uint64 {
	if sequence != "" {
		return s.conn.LastInsertID(sequence)
	}
	return s.lastID
}

func (s *stmt) Close() error {
	s.closeRows()
	return s.st.Close()
}

func (s *stmt) closeRows() {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
		s.cols = nil
	}
}

// resultCounters extracts the non-negative counters a backend reports.
func resultCounters(res sql.Result) (affected, lastID uint64) {
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		affected = uint64(n)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		lastID = uint64(id)
	}
	return affected, lastID
}

// execArg converts a normalized value to what database/sql accepts;
// uint64 values within int64 range are narrowed since several backends
// reject unsigned arguments outright.
func execArg(v driver.Value) any {
	if u, ok := v.(uint64); ok && u <= math.MaxInt64 {
		return int64(u)
	}
	return v
}
