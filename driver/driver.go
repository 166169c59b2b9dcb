package driver

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownDriver is returned by Lookup when no driver is registered
	// under the requested name.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrPipelineUnsupported indicates the driver statement does not
	// implement the optional Pipeliner capability.
	ErrPipelineUnsupported = errors.New("driver does not support pipelined execution")
)

// Value is a parameter or column value in its normalized form. The binding
// layer hands drivers exactly one of:
//
//	nil (SQL NULL), bool, int64, uint64, float64, string, []byte, time.Time
type Value any

// Driver opens connections to one specific backend. The options string is
// driver-defined (a DSN, file path, or host configuration).
type Driver interface {
	Open(options string) (Conn, error)
}

// Conn is a single open connection owned by a Session.
type Conn interface {
	// Ready reports whether the connection is usable.
	Ready() bool

	// Prepare parses the query text, with ? positional placeholders, into
	// a statement handle.
	Prepare(query string) (Stmt, error)

	// Exec runs a one-shot, non-prepared statement immediately.
	Exec(query string) error

	// Affected returns the row count touched by the most recently
	// completed statement. Meaning is backend-defined.
	Affected() uint64

	// LastInsertID returns the identity generated by the most recent
	// successful insert. The sequence name may be empty; its meaning is
	// backend-defined.
	LastInsertID(sequence string) uint64

	// Raw exposes the underlying connection handle for driver-specific
	// operations outside this abstraction.
	Raw() any

	// Close releases the connection.
	Close() error
}

// Stmt is one prepared statement handle. Positions are zero-based and
// assigned by the binding layer in left-to-right bind order.
type Stmt interface {
	// BindParam supplies the parameter for placeholder slot pos.
	BindParam(pos int, v Value) error

	// BindResult registers dest, which must be a pointer, to receive
	// column pos of each fetched row.
	BindResult(pos int, dest any) error

	// Exec runs the statement with the currently bound parameters.
	Exec() error

	// Next advances to the next result row, materializing bound result
	// targets. It returns false once rows are exhausted; exhaustion is a
	// terminal condition, not an error, and further calls must keep
	// returning false without mutating any bound target.
	Next() bool

	// Cols returns the number of columns in the current result row.
	Cols() int

	// Reset returns the statement to its immediately-post-prepare state,
	// discarding bound parameters and results without re-preparing.
	Reset() error

	Affected() uint64
	LastInsertID(sequence string) uint64

	// Close releases the statement handle.
	Close() error
}

// Pipeliner is an optional Stmt capability for pipelined execution: queue
// executions without blocking between them, then drain completions on the
// caller's goroutine. Sequencing and backpressure are driver-defined.
type Pipeliner interface {
	// PipelineMode enters pipeline mode and installs the completion
	// handler, invoked once per completed queued operation with the
	// operation's queue index.
	PipelineMode(handler func(index uint32)) error

	// PipelineSendQuery queues n executions of a one-shot query.
	PipelineSendQuery(query string, n uint32) error

	// PipelineSendPrepared queues one execution of the prepared statement
	// with the currently bound parameters, tagged with index.
	PipelineSendPrepared(index uint32) error

	// PipelineProcess drains up to n queued operations, invoking the
	// completion handler for each. n of zero drains everything queued.
	PipelineProcess(n uint32) error
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available under the given name. It panics if the
// driver is nil or Register is called twice with the same name; both are
// programmer errors.
func Register(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("driver: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("driver: Register called twice for driver " + name)
	}
	drivers[name] = d
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return d, nil
}

// Drivers returns a sorted list of registered driver names.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
