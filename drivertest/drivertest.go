package drivertest

import (
	"fmt"

	"github.com/ulib-project/orm/driver"
)

// Config controls how the stub driver behaves.
type Config struct {
	// OpenErr is returned by Open when set.
	OpenErr error

	// PrepareErr is returned by Prepare when set.
	PrepareErr error

	// ExecErr is returned by statement and one-shot executions when set.
	ExecErr error

	// NotReady makes connections report an unusable state.
	NotReady bool

	// Echo makes each prepared execution produce exactly one result row
	// containing the bound parameters in bind order.
	Echo bool

	// Rows are served as the result rows of each prepared execution.
	// Ignored when Echo is set.
	Rows [][]driver.Value

	// Affected is reported as the affected-row count.
	Affected uint64

	// LastID is reported as the last generated insert identity.
	LastID uint64
}

// Driver is the stub driver. One instance backs every connection and
// statement it produces, so a test can register it and inspect the call
// log afterwards.
type Driver struct {
	cfg Config

	// Calls is the ordered log of every driver primitive invoked.
	Calls []string

	// LastStmt is the most recently prepared statement.
	LastStmt *Stmt
}

// Ensure the stub satisfies the driver boundary at compile time.
var (
	_ driver.Driver    = (*Driver)(nil)
	_ driver.Conn      = (*Conn)(nil)
	_ driver.Stmt      = (*Stmt)(nil)
	_ driver.Pipeliner = (*Stmt)(nil)
)

// New creates a stub driver based on the provided Config.
func New(config Config) *Driver {
	return &Driver{cfg: config}
}

// record appends one entry to the shared call log.
func (d *Driver) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Open returns a stub connection, or Config.OpenErr.
func (d *Driver) Open(options string) (driver.Conn, error) {
	d.record("open %q", options)
	if d.cfg.OpenErr != nil {
		return nil, d.cfg.OpenErr
	}
	return &Conn{drv: d}, nil
}

// Conn is a stub connection.
type Conn struct {
	drv    *Driver
	closed bool
}

// Ready reports the configured readiness of the connection.
func (c *Conn) Ready() bool { return !c.closed && !c.drv.cfg.NotReady }

// Prepare returns a stub statement for the query, or Config.PrepareErr.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	c.drv.record("prepare %q", query)
	if c.drv.cfg.PrepareErr != nil {
		return nil, c.drv.cfg.PrepareErr
	}
	st := &Stmt{drv: c.drv, Query: query}
	c.drv.LastStmt = st
	return st, nil
}

// Exec records a one-shot execution, or returns Config.ExecErr.
func (c *Conn) Exec(query string) error {
	c.drv.record("exec %q", query)
	return c.drv.cfg.ExecErr
}

// Affected reports the configured affected-row count.
func (c *Conn) Affected() uint64 {
	c.drv.record("affected")
	return c.drv.cfg.Affected
}

// LastInsertID reports the configured insert identity.
func (c *Conn) LastInsertID(sequence string) uint64 {
	c.drv.record("last_insert_id %q", sequence)
	return c.drv.cfg.LastID
}

// Raw exposes the connection itself.
func (c *Conn) Raw() any { return c }

// Close marks the connection closed.
func (c *Conn) Close() error {
	c.drv.record("close conn")
	c.closed = true
	return nil
}

// Stmt is a stub prepared statement. Its bind state is exported so tests
// can assert on recorded parameters and targets.
type Stmt struct {
	drv *Driver

	// Query is the prepared query text.
	Query string

	// Params holds bound parameters indexed by position.
	Params []driver.Value

	// Dests holds bound result targets indexed by position.
	Dests []any

	rows     [][]driver.Value
	cursor   int
	curCols  int
	executed bool

	handler func(index uint32)
	queue   []pipelineOp
}

type pipelineOp struct {
	index uint32
	query string
}

// BindParam records the parameter for slot pos.
func (s *Stmt) BindParam(pos int, v driver.Value) error {
	s.drv.record("bind_param %d %v", pos, v)
	for len(s.Params) <= pos {
		s.Params = append(s.Params, nil)
	}
	s.Params[pos] = v
	return nil
}

// BindResult records the result target for column pos.
func (s *Stmt) BindResult(pos int, dest any) error {
	s.drv.record("bind_result %d %T", pos, dest)
	for len(s.Dests) <= pos {
		s.Dests = append(s.Dests, nil)
	}
	s.Dests[pos] = dest
	return nil
}

// materialize stages the result rows for the current execution.
func (s *Stmt) materialize() {
	if s.drv.cfg.Echo {
		s.rows = [][]driver.Value{append([]driver.Value(nil), s.Params...)}
	} else {
		s.rows = s.drv.cfg.Rows
	}
	s.cursor = 0
	s.executed = true
}

// Exec stages result rows per the configuration, or returns
// Config.ExecErr.
func (s *Stmt) Exec() error {
	s.drv.record("exec prepared %q", s.Query)
	if s.drv.cfg.ExecErr != nil {
		return s.drv.cfg.ExecErr
	}
	s.materialize()
	return nil
}

// Next serves the next staged row into the bound result targets. Backends
// may execute lazily on the first row advance; the stub mirrors that.
func (s *Stmt) Next() bool {
	if !s.executed {
		if s.drv.cfg.ExecErr != nil {
			return false
		}
		s.materialize()
	}
	s.drv.record("next")
	if s.cursor >= len(s.rows) {
		return false
	}
	row := s.rows[s.cursor]
	s.cursor++
	s.curCols = len(row)
	for i, v := range row {
		if i >= len(s.Dests) || s.Dests[i] == nil {
			continue
		}
		if err := driver.ConvertAssign(s.Dests[i], v); err != nil {
			return false
		}
	}
	return true
}

// Cols returns the column count of the current row.
func (s *Stmt) Cols() int { return s.curCols }

// Reset discards bound parameters, targets, and staged rows.
func (s *Stmt) Reset() error {
	s.drv.record("reset")
	s.Params = nil
	s.Dests = nil
	s.rows = nil
	s.cursor = 0
	s.curCols = 0
	s.executed = false
	return nil
}

// Affected reports the configured affected-row count.
func (s *Stmt) Affected() uint64 {
	s.drv.record("affected")
	return s.drv.cfg.Affected
}

// LastInsertID reports the configured insert identity.
func (s *Stmt) LastInsertID(sequence string) uint64 {
	s.drv.record("last_insert_id %q", sequence)
	return s.drv.cfg.LastID
}

// Close releases the statement.
func (s *Stmt) Close() error {
	s.drv.record("close stmt")
	return nil
}

// PipelineMode installs the completion handler.
func (s *Stmt) PipelineMode(handler func(index uint32)) error {
	s.drv.record("pipeline_mode")
	s.handler = handler
	return nil
}

// PipelineSendQuery queues n executions of a one-shot query.
func (s *Stmt) PipelineSendQuery(query string, n uint32) error {
	s.drv.record("pipeline_send_query %q x%d", query, n)
	for i := uint32(0); i < n; i++ {
		s.queue = append(s.queue, pipelineOp{index: uint32(len(s.queue)), query: query})
	}
	return nil
}

// PipelineSendPrepared queues one execution of the prepared statement.
func (s *Stmt) PipelineSendPrepared(index uint32) error {
	s.drv.record("pipeline_send_prepared %d", index)
	s.queue = append(s.queue, pipelineOp{index: index, query: s.Query})
	return nil
}

// PipelineProcess drains up to n queued operations, invoking the handler
// for each. n of zero drains everything.
func (s *Stmt) PipelineProcess(n uint32) error {
	s.drv.record("pipeline_process %d", n)
	count := len(s.queue)
	if n > 0 && int(n) < count {
		count = int(n)
	}
	for i := 0; i < count; i++ {
		op := s.queue[i]
		s.drv.record("pipeline_exec %q", op.query)
		if s.handler != nil {
			s.handler(op.index)
		}
	}
	s.queue = s.queue[count:]
	return nil
}
