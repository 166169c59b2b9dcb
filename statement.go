package orm

import (
	"github.com/ulib-project/orm/driver"
)

// Statement is one prepared statement against one Session. Parameter and
// result positions advance with each bind call, left to right. A Statement
// borrows its Session; the Session must outlive it.
type Statement struct {
	sess *Session
	stmt driver.Stmt

	nparams   int
	nresults  int
	exhausted bool
}

// Prepare parses the query text, with ? positional placeholders, into a
// prepared Statement. Driver rejections of malformed text are passed
// through untranslated.
func (s *Session) Prepare(query string) (*Statement, error) {
	if s.conn == nil {
		return nil, ErrSessionClosed
	}
	if query == "" {
		return nil, ErrInvalidQuery
	}

	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return nil, err
	}

	return &Statement{sess: s, stmt: stmt}, nil
}

// Session returns the session this statement was prepared against.
func (st *Statement) Session() *Session { return st.sess }

// BindParam binds a single value at the next parameter slot. Values
// implementing ParamBinder bind through their own adapter; slices of the
// common scalar types bind element-wise.
func (st *Statement) BindParam(v any) error {
	if st.stmt == nil {
		return ErrStatementClosed
	}

	switch b := v.(type) {
	case ParamBinder:
		return b.BindParam(st)
	case []bool:
		return Each(b).BindParam(st)
	case []int:
		return Each(b).BindParam(st)
	case []int64:
		return Each(b).BindParam(st)
	case []uint64:
		return Each(b).BindParam(st)
	case []float64:
		return Each(b).BindParam(st)
	case []string:
		return Each(b).BindParam(st)
	}

	val, err := normalizeParam(v)
	if err != nil {
		return err
	}
	return st.bindParamValue(val)
}

// bindParamValue forwards one normalized value to the driver and advances
// the parameter cursor.
func (st *Statement) bindParamValue(v driver.Value) error {
	if err := st.stmt.BindParam(st.nparams, v); err != nil {
		return err
	}
	st.nparams++
	return nil
}

// BindResult registers mutable storage for the next result column. The
// target must be a non-nil pointer or a ResultBinder; immutable values
// fail with ErrNotBindable.
func (st *Statement) BindResult(dest any) error {
	if st.stmt == nil {
		return ErrStatementClosed
	}

	if rb, ok := dest.(ResultBinder); ok {
		return rb.BindResult(st)
	}
	if err := checkResultTarget(dest); err != nil {
		return err
	}

	if err := st.stmt.BindResult(st.nresults, dest); err != nil {
		return err
	}
	st.nresults++
	return nil
}

// Use binds an arbitrary list of heterogeneous parameters in one call,
// equivalent to calling BindParam once per argument in order.
func (st *Statement) Use(args ...any) error {
	for _, a := range args {
		if err := st.BindParam(a); err != nil {
			return err
		}
	}
	return nil
}

// Into registers output bindings so each row advance fills the caller's
// variables in left-to-right column order, equivalent to calling
// BindResult once per argument in order.
func (st *Statement) Into(dests ...any) error {
	for _, d := range dests {
		if err := st.BindResult(d); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the prepared statement with the currently bound parameters.
// Driver failures (constraint violations, connectivity loss, semantic
// rejection) are passed through untranslated.
func (st *Statement) Execute() error {
	if st.stmt == nil {
		return ErrStatementClosed
	}
	if err := st.stmt.Exec(); err != nil {
		return err
	}
	st.exhausted = false
	return nil
}

// NextRow advances to the next result row, materializing bound Into
// targets. It returns false once rows are exhausted; exhaustion is
// terminal and repeat calls return false without mutating any target.
func (st *Statement) NextRow() bool {
	if st.stmt == nil || st.exhausted {
		return false
	}
	ok := st.stmt.Next()
	if !ok {
		st.exhausted = true
	}
	return ok
}

// Cols returns the number of columns in the current result row.
func (st *Statement) Cols() int {
	if st.stmt == nil {
		return 0
	}
	return st.stmt.Cols()
}

// Reset returns the statement to its immediately-post-prepare state,
// discarding bound parameters and results without re-preparing the query.
func (st *Statement) Reset() error {
	if st.stmt == nil {
		return ErrStatementClosed
	}
	if err := st.stmt.Reset(); err != nil {
		return err
	}
	st.nparams = 0
	st.nresults = 0
	st.exhausted = false
	return nil
}

// Affected returns the row count touched by the most recently completed
// execution of this statement. Meaning is backend-defined.
func (st *Statement) Affected() uint64 {
	if st.stmt == nil {
		return 0
	}
	return st.stmt.Affected()
}

// LastInsertID returns the identity generated by the most recent
// successful insert through this statement.
func (st *Statement) LastInsertID(sequence string) uint64 {
	if st.stmt == nil {
		return 0
	}
	return st.stmt.LastInsertID(sequence)
}

// Close releases the driver statement handle. Valid in any state.
func (st *Statement) Close() error {
	if st.stmt == nil {
		return nil
	}
	err := st.stmt.Close()
	st.stmt = nil
	return err
}

// pipeliner returns the statement's pipeline capability, if its driver has
// one.
func (st *Statement) pipeliner() (driver.Pipeliner, error) {
	if st.stmt == nil {
		return nil, ErrStatementClosed
	}
	p, ok := st.stmt.(driver.Pipeliner)
	if !ok {
		return nil, ErrPipelineUnsupported
	}
	return p, nil
}

// PipelineMode enters pipelined execution mode, installing the completion
// handler invoked once per completed queued operation. Drivers without
// pipeline support return ErrPipelineUnsupported.
func (st *Statement) PipelineMode(handler func(index uint32)) error {
	p, err := st.pipeliner()
	if err != nil {
		return err
	}
	return p.PipelineMode(handler)
}

// SetPipelineHandler replaces the completion handler for pipelined
// execution.
func (st *Statement) SetPipelineHandler(handler func(index uint32)) error {
	p, err := st.pipeliner()
	if err != nil {
		return err
	}
	return p.PipelineMode(handler)
}

// PipelineSendQuery queues n executions of a one-shot query without
// blocking between them.
func (st *Statement) PipelineSendQuery(query string, n uint32) error {
	if query == "" {
		return ErrInvalidQuery
	}
	p, err := st.pipeliner()
	if err != nil {
		return err
	}
	return p.PipelineSendQuery(query, n)
}

// PipelineSendPrepared queues one execution of this prepared statement
// with the currently bound parameters, tagged with index.
func (st *Statement) PipelineSendPrepared(index uint32) error {
	p, err := st.pipeliner()
	if err != nil {
		return err
	}
	return p.PipelineSendPrepared(index)
}

// PipelineProcess drains up to n queued operations on the caller's
// goroutine, invoking the completion handler for each. n of zero drains
// everything queued.
func (st *Statement) PipelineProcess(n uint32) error {
	p, err := st.pipeliner()
	if err != nil {
		return err
	}
	return p.PipelineProcess(n)
}
