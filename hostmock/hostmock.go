package hostmock

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// Namespace is the namespace expected in each host call. Empty acts
	// as a wildcard.
	Namespace string

	// Capability is the capability expected in each host call. Empty acts
	// as a wildcard.
	Capability string

	// Function is the function name expected in each host call. Empty
	// acts as a wildcard.
	Function string

	// Err, when set, is returned by every call before any validation.
	Err error

	// Validate inspects the payload passed to the host call.
	Validate func([]byte) error

	// Respond supplies the response bytes for a successful call.
	Respond func() []byte
}

// Mock simulates a waPC host with validation and scripted responses.
type Mock struct {
	cfg Config

	// Calls counts the host calls received.
	Calls int
}

// New creates a Mock based on the provided Config.
func New(config Config) *Mock {
	return &Mock{cfg: config}
}

// Call simulates a waPC host call, validating routing and payload and
// returning the scripted response or error. It matches the wapc.HostCall
// signature so it can be injected directly into driver configuration.
func (m *Mock) Call(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.Calls++

	if m.cfg.Err != nil {
		return nil, m.cfg.Err
	}

	if m.cfg.Namespace != "" && m.cfg.Namespace != namespace {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedNamespace, m.cfg.Namespace, namespace)
	}
	if m.cfg.Capability != "" && m.cfg.Capability != capability {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedCapability, m.cfg.Capability, capability)
	}
	if m.cfg.Function != "" && m.cfg.Function != function {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedFunction, m.cfg.Function, function)
	}

	if m.cfg.Validate != nil {
		if err := m.cfg.Validate(payload); err != nil {
			return nil, err
		}
	}

	if m.cfg.Respond != nil {
		return m.cfg.Respond(), nil
	}
	return nil, nil
}
