package hostproxy

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ulib-project/orm/driver"
)

var (
	// ErrParamCount indicates the bound parameter count does not match
	// the ? placeholders in the query text.
	ErrParamCount = errors.New("bound parameter count does not match placeholders")

	// ErrParamRender indicates a bound value that cannot be rendered as a
	// SQL literal.
	ErrParamRender = errors.New("cannot render parameter as a SQL literal")
)

// interpolate substitutes each ? placeholder with the corresponding
// parameter rendered as a quoted SQL literal. Quoted text and comments
// (-- to end of line, /* */ blocks) are copied verbatim; a ? inside them
// is not a placeholder.
func interpolate(query string, params []driver.Value) (string, error) {
	var b strings.Builder
	b.Grow(len(query))

	next := 0
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch ch {
		case '\'', '"':
			// Copy quoted text verbatim, honoring doubled quotes.
			quote := ch
			b.WriteByte(ch)
			for i++; i < len(query); i++ {
				b.WriteByte(query[i])
				if query[i] == quote {
					if i+1 < len(query) && query[i+1] == quote {
						i++
						b.WriteByte(quote)
						continue
					}
					break
				}
			}
		case '-':
			if i+1 < len(query) && query[i+1] == '-' {
				for ; i < len(query) && query[i] != '\n'; i++ {
					b.WriteByte(query[i])
				}
				if i < len(query) {
					b.WriteByte('\n')
				}
				continue
			}
			b.WriteByte(ch)
		case '/':
			if i+1 < len(query) && query[i+1] == '*' {
				b.WriteString("/*")
				for i += 2; i < len(query); i++ {
					b.WriteByte(query[i])
					if query[i] == '*' && i+1 < len(query) && query[i+1] == '/' {
						i++
						b.WriteByte('/')
						break
					}
				}
				continue
			}
			b.WriteByte(ch)
		case '?':
			if next >= len(params) {
				return "", ErrParamCount
			}
			lit, err := literal(params[next])
			if err != nil {
				return "", err
			}
			b.WriteString(lit)
			next++
		default:
			b.WriteByte(ch)
		}
	}

	if next != len(params) {
		return "", ErrParamCount
	}
	return b.String(), nil
}

// literal renders one normalized value as a SQL literal.
func literal(v driver.Value) (string, error) {
	switch s := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if s {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case uint64:
		return strconv.FormatUint(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case string:
		return quoteString(s), nil
	case []byte:
		return "X'" + hex.EncodeToString(s) + "'", nil
	case time.Time:
		return quoteString(s.UTC().Format("2006-01-02 15:04:05.999999")), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrParamRender, v)
	}
}

// quoteString single-quotes s, doubling embedded quotes per standard SQL.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
