package hostproxy

import (
	"errors"
	"testing"
	"time"

	"github.com/ulib-project/orm/driver"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)

	tt := []struct {
		name   string
		query  string
		params []driver.Value
		want   string
		err    error
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:   "integer and string",
			query:  "INSERT INTO t(a,b) VALUES(?,?)",
			params: []driver.Value{int64(42), "hello"},
			want:   "INSERT INTO t(a,b) VALUES(42,'hello')",
		},
		{
			name:   "string escaping",
			query:  "SELECT * FROM t WHERE name = ?",
			params: []driver.Value{"O'Brien"},
			want:   "SELECT * FROM t WHERE name = 'O''Brien'",
		},
		{
			name:   "placeholder inside single quotes is literal",
			query:  "SELECT 'a?b' FROM t WHERE n = ?",
			params: []driver.Value{int64(1)},
			want:   "SELECT 'a?b' FROM t WHERE n = 1",
		},
		{
			name:   "placeholder inside double quotes is literal",
			query:  `SELECT "a?b" FROM t WHERE n = ?`,
			params: []driver.Value{int64(1)},
			want:   `SELECT "a?b" FROM t WHERE n = 1`,
		},
		{
			name:   "doubled quote in quoted text",
			query:  "SELECT 'it''s ?' FROM t",
			params: nil,
			want:   "SELECT 'it''s ?' FROM t",
		},
		{
			name:   "null and booleans",
			query:  "UPDATE t SET a = ?, b = ?, c = ?",
			params: []driver.Value{nil, true, false},
			want:   "UPDATE t SET a = NULL, b = TRUE, c = FALSE",
		},
		{
			name:   "unsigned and float",
			query:  "VALUES(?, ?)",
			params: []driver.Value{uint64(18446744073709551615), float64(1.5)},
			want:   "VALUES(18446744073709551615, 1.5)",
		},
		{
			name:   "bytes as hex",
			query:  "VALUES(?)",
			params: []driver.Value{[]byte{0x01, 0xab}},
			want:   "VALUES(X'01ab')",
		},
		{
			name:   "timestamp in utc",
			query:  "VALUES(?)",
			params: []driver.Value{stamp},
			want:   "VALUES('2024-03-01 12:30:45.123456')",
		},
		{
			name:   "placeholder inside line comment is literal",
			query:  "SELECT n -- what?\nFROM t WHERE n = ?",
			params: []driver.Value{int64(1)},
			want:   "SELECT n -- what?\nFROM t WHERE n = 1",
		},
		{
			name:   "placeholder inside block comment is literal",
			query:  "SELECT n /* what? */ FROM t WHERE n = ?",
			params: []driver.Value{int64(1)},
			want:   "SELECT n /* what? */ FROM t WHERE n = 1",
		},
		{
			name:   "trailing line comment without newline",
			query:  "SELECT ? -- why?",
			params: []driver.Value{int64(3)},
			want:   "SELECT 3 -- why?",
		},
		{
			name:   "division is not a comment",
			query:  "SELECT a / ? FROM t",
			params: []driver.Value{int64(2)},
			want:   "SELECT a / 2 FROM t",
		},
		{
			name:   "subtraction is not a comment",
			query:  "SELECT a - ? FROM t",
			params: []driver.Value{int64(2)},
			want:   "SELECT a - 2 FROM t",
		},
		{
			name:   "too few parameters",
			query:  "VALUES(?, ?)",
			params: []driver.Value{int64(1)},
			err:    ErrParamCount,
		},
		{
			name:   "too many parameters",
			query:  "VALUES(?)",
			params: []driver.Value{int64(1), int64(2)},
			err:    ErrParamCount,
		},
		{
			name:   "unrenderable value",
			query:  "VALUES(?)",
			params: []driver.Value{struct{}{}},
			err:    ErrParamRender,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := interpolate(tc.query, tc.params)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("interpolate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("rendered %q, want %q", got, tc.want)
			}
		})
	}
}
