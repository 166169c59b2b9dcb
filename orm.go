package orm

import (
	"errors"

	"github.com/ulib-project/orm/driver"
)

// Config provides configuration options for opening a Session.
type Config struct {
	// Driver is the registered name of the driver to connect with.
	Driver string

	// Options is the driver-defined option string, such as a DSN or a
	// database file path.
	Options string
}

// Session owns a single driver connection and is the gateway to the
// database. It is not safe for concurrent use; callers must serialize
// access or use one Session per goroutine.
type Session struct {
	drv  driver.Driver
	conn driver.Conn
}

// New opens a Session using the provided configuration. An unregistered
// driver name yields ErrUnknownDriver; connection failures are joined with
// ErrConnect and passed through untranslated.
func New(config Config) (*Session, error) {
	drv, err := driver.Lookup(config.Driver)
	if err != nil {
		return nil, err
	}

	conn, err := drv.Open(config.Options)
	if err != nil {
		return nil, errors.Join(ErrConnect, err)
	}

	return &Session{drv: drv, conn: conn}, nil
}

// Open is shorthand for New with a driver name and option string.
func Open(driverName, options string) (*Session, error) {
	return New(Config{Driver: driverName, Options: options})
}

// Ready reports whether the underlying connection is usable.
func (s *Session) Ready() bool {
	return s.conn != nil && s.conn.Ready()
}

// Query executes a one-shot, non-prepared statement immediately.
func (s *Session) Query(query string) error {
	if s.conn == nil {
		return ErrSessionClosed
	}
	if query == "" {
		return ErrInvalidQuery
	}
	return s.conn.Exec(query)
}

// Affected returns the number of rows changed, inserted, or deleted by the
// most recently completed statement. Meaning is backend-defined.
func (s *Session) Affected() uint64 {
	if s.conn == nil {
		return 0
	}
	return s.conn.Affected()
}

// LastInsertID returns the row identity generated by the most recent
// successful insert. Backends that allocate identities from named
// sequences use the sequence argument; others ignore it.
func (s *Session) LastInsertID(sequence string) uint64 {
	if s.conn == nil {
		return 0
	}
	return s.conn.LastInsertID(sequence)
}

// Conn exposes the raw driver connection handle for driver-specific
// operations outside this abstraction.
func (s *Session) Conn() any {
	if s.conn == nil {
		return nil
	}
	return s.conn.Raw()
}

// Driver returns the driver this session was opened with.
func (s *Session) Driver() driver.Driver { return s.drv }

// Close releases the driver connection. Statements created from this
// session must be closed first.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
