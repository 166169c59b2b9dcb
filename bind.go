package orm

import (
	"fmt"
	"io"
	"time"

	"github.com/ulib-project/orm/driver"
)

// ParamBinder adapts a value to one or more parameter bind calls against a
// statement. Composite types implement it to bind field-by-field, in the
// column order of the target table:
//
//	type Person struct {
//		Age       int
//		LastName  string
//		FirstName string
//	}
//
//	func (p *Person) BindParam(st *orm.Statement) error {
//		return st.Use(p.Age, p.LastName, p.FirstName)
//	}
type ParamBinder interface {
	BindParam(st *Statement) error
}

// ResultBinder adapts a variable to one or more result bind calls against
// a statement, registering storage for fetched columns.
type ResultBinder interface {
	BindResult(st *Statement) error
}

// Null binds a SQL NULL parameter without reading any value. It is the one
// adapter permitted to hold no referent.
type Null struct{}

// BindParam binds a NULL at the next parameter slot.
func (Null) BindParam(st *Statement) error {
	return st.bindParamValue(nil)
}

// Seq binds every element of a slice in order, one bind call per element.
// It supports repeated parameter lists such as an IN-clause expansion, not
// bulk-row fetch. As a result adapter it registers the address of each
// element, so fetched columns land in the caller's backing array.
type Seq[T any] struct {
	Elems []T
}

// Each wraps a slice for element-wise binding.
func Each[T any](elems []T) Seq[T] { return Seq[T]{Elems: elems} }

// BindParam binds each element as a parameter, left to right.
func (s Seq[T]) BindParam(st *Statement) error {
	for i := range s.Elems {
		if err := st.BindParam(s.Elems[i]); err != nil {
			return err
		}
	}
	return nil
}

// BindResult registers each element's storage as a result column target.
func (s Seq[T]) BindResult(st *Statement) error {
	for i := range s.Elems {
		if err := st.BindResult(&s.Elems[i]); err != nil {
			return err
		}
	}
	return nil
}

// assertRef is the contract check for adapters over caller references: a
// nil referent is a programming error, not a recoverable condition.
func assertRef(ok bool) {
	if !ok {
		panic("orm: bind of nil reference")
	}
}

// normalizeParam maps a caller's parameter to its driver.Value form.
// Pointer scalars are dereferenced so callers can pass either a value or a
// reference; a nil pointer fails the non-null adapter contract.
func normalizeParam(v any) (driver.Value, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return s, nil
	case int:
		return int64(s), nil
	case int8:
		return int64(s), nil
	case int16:
		return int64(s), nil
	case int32:
		return int64(s), nil
	case int64:
		return s, nil
	case uint:
		return uint64(s), nil
	case uint8:
		return uint64(s), nil
	case uint16:
		return uint64(s), nil
	case uint32:
		return uint64(s), nil
	case uint64:
		return s, nil
	case float32:
		return float64(s), nil
	case float64:
		return s, nil
	case string:
		return s, nil
	case []byte:
		return s, nil
	case time.Time:
		return s, nil
	case *bool:
		assertRef(s != nil)
		return *s, nil
	case *int:
		assertRef(s != nil)
		return int64(*s), nil
	case *int8:
		assertRef(s != nil)
		return int64(*s), nil
	case *int16:
		assertRef(s != nil)
		return int64(*s), nil
	case *int32:
		assertRef(s != nil)
		return int64(*s), nil
	case *int64:
		assertRef(s != nil)
		return *s, nil
	case *uint:
		assertRef(s != nil)
		return uint64(*s), nil
	case *uint8:
		assertRef(s != nil)
		return uint64(*s), nil
	case *uint16:
		assertRef(s != nil)
		return uint64(*s), nil
	case *uint32:
		assertRef(s != nil)
		return uint64(*s), nil
	case *uint64:
		assertRef(s != nil)
		return *s, nil
	case *float32:
		assertRef(s != nil)
		return float64(*s), nil
	case *float64:
		assertRef(s != nil)
		return *s, nil
	case *string:
		assertRef(s != nil)
		return *s, nil
	case *[]byte:
		assertRef(s != nil)
		return *s, nil
	case *time.Time:
		assertRef(s != nil)
		return *s, nil
	case io.Reader:
		// Large-object streams are drained at bind time; the driver sees
		// an ordinary byte parameter.
		assertRef(s != nil)
		data, err := io.ReadAll(s)
		if err != nil {
			return nil, fmt.Errorf("reading stream parameter: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w as a parameter: %T", ErrNotBindable, v)
	}
}

// checkResultTarget enforces the output-binding contract: the target must
// be mutable storage, which for the built-in scalars means a non-nil
// pointer. Immutable values, strings included, bind as parameters but
// never as results.
func checkResultTarget(dest any) error {
	switch d := dest.(type) {
	case *bool:
		assertRef(d != nil)
	case *int:
		assertRef(d != nil)
	case *int8:
		assertRef(d != nil)
	case *int16:
		assertRef(d != nil)
	case *int32:
		assertRef(d != nil)
	case *int64:
		assertRef(d != nil)
	case *uint:
		assertRef(d != nil)
	case *uint8:
		assertRef(d != nil)
	case *uint16:
		assertRef(d != nil)
	case *uint32:
		assertRef(d != nil)
	case *uint64:
		assertRef(d != nil)
	case *float32:
		assertRef(d != nil)
	case *float64:
		assertRef(d != nil)
	case *string:
		assertRef(d != nil)
	case *[]byte:
		assertRef(d != nil)
	case *time.Time:
		assertRef(d != nil)
	case *any:
		assertRef(d != nil)
	case nil:
		assertRef(false)
	default:
		return fmt.Errorf("%w as an output: %T", ErrNotBindable, dest)
	}
	return nil
}
