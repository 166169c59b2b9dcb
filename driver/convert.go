package driver

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrConvert is returned by ConvertAssign when a column value cannot be
// stored in the bound destination.
var ErrConvert = errors.New("cannot convert column value")

// ConvertAssign stores the normalized value v into the pointer dest,
// applying the numeric and text widenings a caller would get from
// database/sql row scanning. Drivers that fetch rows themselves (rather
// than delegating scanning to database/sql) use it to materialize bound
// result targets.
func ConvertAssign(dest any, v Value) error {
	switch d := dest.(type) {
	case *any:
		*d = v
		return nil
	case *bool:
		switch s := v.(type) {
		case bool:
			*d = s
			return nil
		case int64:
			*d = s != 0
			return nil
		case uint64:
			*d = s != 0
			return nil
		case float64:
			*d = s != 0
			return nil
		}
	case *string:
		switch s := v.(type) {
		case string:
			*d = s
			return nil
		case []byte:
			*d = string(s)
			return nil
		case int64:
			*d = strconv.FormatInt(s, 10)
			return nil
		case uint64:
			*d = strconv.FormatUint(s, 10)
			return nil
		case float64:
			*d = strconv.FormatFloat(s, 'g', -1, 64)
			return nil
		}
	case *[]byte:
		switch s := v.(type) {
		case []byte:
			*d = append([]byte(nil), s...)
			return nil
		case string:
			*d = []byte(s)
			return nil
		case nil:
			*d = nil
			return nil
		}
	case *time.Time:
		switch s := v.(type) {
		case time.Time:
			*d = s
			return nil
		case string:
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return fmt.Errorf("%w: %q into *time.Time: %v", ErrConvert, s, err)
			}
			*d = t
			return nil
		}
	case *float32:
		if f, ok := toFloat64(v); ok {
			*d = float32(f)
			return nil
		}
	case *float64:
		if f, ok := toFloat64(v); ok {
			*d = f
			return nil
		}
	case *int:
		if n, ok := toInt64(v); ok {
			*d = int(n)
			return nil
		}
	case *int8:
		if n, ok := toInt64(v); ok {
			*d = int8(n)
			return nil
		}
	case *int16:
		if n, ok := toInt64(v); ok {
			*d = int16(n)
			return nil
		}
	case *int32:
		if n, ok := toInt64(v); ok {
			*d = int32(n)
			return nil
		}
	case *int64:
		if n, ok := toInt64(v); ok {
			*d = n
			return nil
		}
	case *uint:
		if n, ok := toUint64(v); ok {
			*d = uint(n)
			return nil
		}
	case *uint8:
		if n, ok := toUint64(v); ok {
			*d = uint8(n)
			return nil
		}
	case *uint16:
		if n, ok := toUint64(v); ok {
			*d = uint16(n)
			return nil
		}
	case *uint32:
		if n, ok := toUint64(v); ok {
			*d = uint32(n)
			return nil
		}
	case *uint64:
		if n, ok := toUint64(v); ok {
			*d = n
			return nil
		}
	default:
		return fmt.Errorf("%w: unsupported destination %T", ErrConvert, dest)
	}
	return fmt.Errorf("%w: %T into %T", ErrConvert, v, dest)
}

func toInt64(v Value) (int64, bool) {
	switch s := v.(type) {
	case int64:
		return s, true
	case uint64:
		return int64(s), true
	case float64:
		return int64(s), true
	case bool:
		if s {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(s), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toUint64(v Value) (uint64, bool) {
	switch s := v.(type) {
	case uint64:
		return s, true
	case int64:
		return uint64(s), true
	case float64:
		return uint64(s), true
	case string:
		n, err := strconv.ParseUint(s, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseUint(string(s), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat64(v Value) (float64, bool) {
	switch s := v.(type) {
	case float64:
		return s, true
	case int64:
		return float64(s), true
	case uint64:
		return float64(s), true
	case string:
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(s), 64)
		return f, err == nil
	}
	return 0, false
}
