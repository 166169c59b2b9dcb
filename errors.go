package orm

import (
	"errors"

	"github.com/ulib-project/orm/driver"
)

var (
	// ErrUnknownDriver is returned by Open and New when no driver is
	// registered under the requested name.
	ErrUnknownDriver = driver.ErrUnknownDriver

	// ErrConnect wraps driver failures while opening the connection.
	ErrConnect = errors.New("connect failed")

	// ErrInvalidQuery indicates an empty query string.
	ErrInvalidQuery = errors.New("query is invalid")

	// ErrSessionClosed is returned by operations on a closed Session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrStatementClosed is returned by operations on a closed Statement.
	ErrStatementClosed = errors.New("statement is closed")

	// ErrNotBindable is returned when a value cannot be bound in the
	// requested direction, such as a non-pointer result target.
	ErrNotBindable = errors.New("cannot bind this type")

	// ErrPipelineUnsupported indicates the session's driver does not
	// implement pipelined execution.
	ErrPipelineUnsupported = driver.ErrPipelineUnsupported
)
