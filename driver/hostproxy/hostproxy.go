package hostproxy

import (
	"errors"
	"fmt"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/sql"
	wapc "github.com/wapc/wapc-guest-tinygo"

	"github.com/ulib-project/orm/driver"
)

const (
	// DefaultNamespace is used when no explicit namespace is provided.
	DefaultNamespace = "tarmac"

	capabilityName = "sql"
	fnExec         = "exec"
	fnQuery        = "query"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or
	// unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a
	// failure status.
	ErrHostError = errors.New("host returned an error status")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")
)

// HostCall defines the waPC host function signature used by SQL operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how the driver interacts with the host runtime.
type Config struct {
	// Namespace scopes host calls. DefaultNamespace is used when empty.
	Namespace string

	// HostCall overrides the waPC host function used for SQL operations.
	HostCall HostCall
}

// Driver forwards SQL operations to the host runtime.
type Driver struct {
	namespace string
	hostCall  HostCall
}

var (
	_ driver.Driver    = (*Driver)(nil)
	_ driver.Conn      = (*conn)(nil)
	_ driver.Stmt      = (*stmt)(nil)
	_ driver.Pipeliner = (*stmt)(nil)
)

// New creates a host-proxy driver with namespace defaults and an optional
// host-call override.
func New(config Config) *Driver {
	namespace := config.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Driver{namespace: namespace, hostCall: hostCall}
}

// Open returns a connection scoped to the given namespace. An empty
// options string keeps the driver's configured namespace; the host owns
// the actual backend connection.
func (d *Driver) Open(options string) (driver.Conn, error) {
	namespace := d.namespace
	if options != "" {
		namespace = options
	}
	return &conn{namespace: namespace, hostCall: d.hostCall}, nil
}

type conn struct {
	namespace string
	hostCall  HostCall
	closed    bool

	affected uint64
	lastID   uint64
}

// Ready reports whether the connection is usable.
func (c *conn) Ready() bool { return !c.closed }

// Exec sends a one-shot statement to the host and records its counters.
func (c *conn) Exec(query string) error {
	affected, lastID, err := c.exec(query)
	if err != nil {
		return err
	}
	c.affected, c.lastID = affected, lastID
	return nil
}

// exec performs one host "exec" round trip.
func (c *conn) exec(query string) (affected, lastID uint64, err error) {
	req := &proto.SQLExec{Query: []byte(query)}
	b, err := req.MarshalVT()
	if err != nil {
		return 0, 0, errors.Join(ErrMarshalRequest, err)
	}

	respBytes, callErr := c.hostCall(c.namespace, capabilityName, fnExec, b)
	if callErr != nil && len(respBytes) == 0 {
		return 0, 0, errors.Join(ErrHostCall, callErr)
	}

	var resp proto.SQLExecResponse
	if unmarshalErr := resp.UnmarshalVT(respBytes); unmarshalErr != nil {
		if callErr != nil {
			return 0, 0, errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
		}
		return 0, 0, errors.Join(ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
	}

	if statusErr := validateStatus(resp.GetStatus(), callErr); statusErr != nil {
		return 0, 0, statusErr
	}

	if id := resp.GetLastInsertId(); id > 0 {
		lastID = uint64(id)
	}
	if n := resp.GetRowsAffected(); n > 0 {
		affected = uint64(n)
	}
	return affected, lastID, nil
}

// query performs one host "query" round trip.
func (c *conn) query(query string) (columns []string, data []byte, err error) {
	req := &proto.SQLQuery{Query: []byte(query)}
	b, err := req.MarshalVT()
	if err != nil {
		return nil, nil, errors.Join(ErrMarshalRequest, err)
	}

	respBytes, callErr := c.hostCall(c.namespace, capabilityName, fnQuery, b)
	if callErr != nil && len(respBytes) == 0 {
		return nil, nil, errors.Join(ErrHostCall, callErr)
	}

	var resp proto.SQLQueryResponse
	if unmarshalErr := resp.UnmarshalVT(respBytes); unmarshalErr != nil {
		if callErr != nil {
			return nil, nil, errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
		}
		return nil, nil, errors.Join(ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
	}

	if statusErr := validateStatus(resp.GetStatus(), callErr); statusErr != nil {
		return nil, nil, statusErr
	}

	return resp.GetColumns(), resp.GetData(), nil
}

// Prepare creates a client-side prepared statement; the host protocol has
// no prepare step.
func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return newStmt(c, query), nil
}

func (c *conn) Affected() uint64 { return c.affected }

func (c *conn) LastInsertID(string) uint64 { return c.lastID }

// Raw exposes the connection itself; the host owns the real handle.
func (c *conn) Raw() any { return c }

func (c *conn) Close() error {
	c.closed = true
	return nil
}

// validateStatus maps the host status payload onto the error taxonomy.
func validateStatus(status *sdkproto.Status, callErr error) error {
	if status == nil {
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid)
		}
		return ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostError, errors.New(detail))
		}
		return errors.Join(ErrHostError, errors.New(detail))
	default:
		statusErr := fmt.Errorf("unexpected host status code %d", code)
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid, statusErr)
		}
		return errors.Join(ErrHostResponseInvalid, statusErr)
	}
}
