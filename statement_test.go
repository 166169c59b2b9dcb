package orm_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	orm "github.com/ulib-project/orm"
	"github.com/ulib-project/orm/driver"
	"github.com/ulib-project/orm/drivertest"
)

// open prepares a session and statement against a fresh stub.
func open(t *testing.T, cfg drivertest.Config, query string) (*drivertest.Driver, *orm.Statement) {
	t.Helper()
	stub, name := registerStub(t, cfg)
	sess, err := orm.Open(name, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { sess.Close() }) //nolint:errcheck

	st, err := sess.Prepare(query)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return stub, st
}

func TestScalarRoundTrip(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	tt := []struct {
		name string
		in   any
		out  func() (dest any, value func() any)
	}{
		{"bool", true, func() (any, func() any) { var v bool; return &v, func() any { return v } }},
		{"int", 42, func() (any, func() any) { var v int; return &v, func() any { return v } }},
		{"int8", int8(-8), func() (any, func() any) { var v int8; return &v, func() any { return v } }},
		{"int16", int16(-16), func() (any, func() any) { var v int16; return &v, func() any { return v } }},
		{"int32", int32(-32), func() (any, func() any) { var v int32; return &v, func() any { return v } }},
		{"int64", int64(-64), func() (any, func() any) { var v int64; return &v, func() any { return v } }},
		{"uint", uint(7), func() (any, func() any) { var v uint; return &v, func() any { return v } }},
		{"uint8", uint8(8), func() (any, func() any) { var v uint8; return &v, func() any { return v } }},
		{"uint16", uint16(16), func() (any, func() any) { var v uint16; return &v, func() any { return v } }},
		{"uint32", uint32(32), func() (any, func() any) { var v uint32; return &v, func() any { return v } }},
		{"uint64", uint64(64), func() (any, func() any) { var v uint64; return &v, func() any { return v } }},
		{"float32", float32(1.5), func() (any, func() any) { var v float32; return &v, func() any { return v } }},
		{"float64", 2.75, func() (any, func() any) { var v float64; return &v, func() any { return v } }},
		{"string", "hello", func() (any, func() any) { var v string; return &v, func() any { return v } }},
		{"bytes", []byte{0x1, 0x2}, func() (any, func() any) { var v []byte; return &v, func() any { return v } }},
		{"time", when, func() (any, func() any) { var v time.Time; return &v, func() any { return v } }},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, st := open(t, drivertest.Config{Echo: true}, "SELECT ?")

			dest, value := tc.out()
			if err := st.Use(tc.in); err != nil {
				t.Fatalf("Use: %v", err)
			}
			if err := st.Into(dest); err != nil {
				t.Fatalf("Into: %v", err)
			}
			if err := st.Execute(); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if !st.NextRow() {
				t.Fatal("expected one echoed row")
			}
			if got := value(); !reflect.DeepEqual(got, tc.in) {
				t.Fatalf("round trip mismatch: bound %v (%T), read %v (%T)", tc.in, tc.in, got, got)
			}
		})
	}
}

func TestUseMatchesManualBinds(t *testing.T) {
	t.Parallel()

	variadic, vst := open(t, drivertest.Config{}, "INSERT INTO t VALUES(?,?,?)")
	manual, mst := open(t, drivertest.Config{}, "INSERT INTO t VALUES(?,?,?)")

	if err := vst.Use(1, "two", 3.0); err != nil {
		t.Fatalf("Use: %v", err)
	}
	for _, v := range []any{1, "two", 3.0} {
		if err := mst.BindParam(v); err != nil {
			t.Fatalf("BindParam: %v", err)
		}
	}

	if !reflect.DeepEqual(variadic.LastStmt.Params, manual.LastStmt.Params) {
		t.Fatalf("params differ: %v vs %v", variadic.LastStmt.Params, manual.LastStmt.Params)
	}
	if !reflect.DeepEqual(bindCalls(variadic), bindCalls(manual)) {
		t.Fatalf("bind sequences differ: %v vs %v", bindCalls(variadic), bindCalls(manual))
	}
}

func TestIntoMatchesManualBinds(t *testing.T) {
	t.Parallel()

	variadic, vst := open(t, drivertest.Config{}, "SELECT a,b,c FROM t")
	manual, mst := open(t, drivertest.Config{}, "SELECT a,b,c FROM t")

	var a1, a2 int
	var b1, b2 string
	var c1, c2 float64

	if err := vst.Into(&a1, &b1, &c1); err != nil {
		t.Fatalf("Into: %v", err)
	}
	for _, d := range []any{&a2, &b2, &c2} {
		if err := mst.BindResult(d); err != nil {
			t.Fatalf("BindResult: %v", err)
		}
	}

	if !reflect.DeepEqual(bindCalls(variadic), bindCalls(manual)) {
		t.Fatalf("bind sequences differ: %v vs %v", bindCalls(variadic), bindCalls(manual))
	}
}

// bindCalls filters a stub's call log down to bind operations.
func bindCalls(d *drivertest.Driver) []string {
	var calls []string
	for _, c := range d.Calls {
		if len(c) > 4 && c[:4] == "bind" {
			calls = append(calls, c)
		}
	}
	return calls
}

func TestStringResultTargetRejected(t *testing.T) {
	t.Parallel()

	stub, st := open(t, drivertest.Config{}, "SELECT a FROM t")

	err := st.Into("not mutable")
	if !errors.Is(err, orm.ErrNotBindable) {
		t.Fatalf("expected ErrNotBindable, got %v", err)
	}
	if calls := bindCalls(stub); len(calls) != 0 {
		t.Fatalf("rejected target still reached the driver: %v", calls)
	}
}

func TestInsertScenario(t *testing.T) {
	t.Parallel()

	stub, st := open(t, drivertest.Config{Affected: 1, LastID: 7}, "INSERT INTO t(a,b) VALUES(?,?)")

	if err := st.Use(42, "hello"); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if err := st.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []driver.Value{int64(42), "hello"}
	if !reflect.DeepEqual(stub.LastStmt.Params, want) {
		t.Fatalf("recorded params %v, want %v", stub.LastStmt.Params, want)
	}
	if st.Affected() != 1 {
		t.Fatalf("Affected: want 1 got %d", st.Affected())
	}
	if st.LastInsertID("") != 7 {
		t.Fatalf("LastInsertID: want 7 got %d", st.LastInsertID(""))
	}
}

func TestSelectScenario(t *testing.T) {
	t.Parallel()

	rows := [][]driver.Value{
		{int64(1), "alpha"},
		{int64(2), "beta"},
	}
	_, st := open(t, drivertest.Config{Rows: rows}, "SELECT a,b FROM t")

	var x int
	var y string
	if err := st.Into(&x, &y); err != nil {
		t.Fatalf("Into: %v", err)
	}

	var seen int
	for st.NextRow() {
		seen++
	}
	if seen != len(rows) {
		t.Fatalf("NextRow returned true %d times, want %d", seen, len(rows))
	}
	if x != 2 || y != "beta" {
		t.Fatalf("targets lost last-fetched values: x=%d y=%q", x, y)
	}

	// Exhaustion is terminal and must not touch the targets.
	for i := 0; i < 3; i++ {
		if st.NextRow() {
			t.Fatal("NextRow returned true after exhaustion")
		}
	}
	if x != 2 || y != "beta" {
		t.Fatalf("exhausted NextRow mutated targets: x=%d y=%q", x, y)
	}
	if st.Cols() != 2 {
		t.Fatalf("Cols: want 2 got %d", st.Cols())
	}
}

func TestResetBehavesLikeFreshStatement(t *testing.T) {
	t.Parallel()

	stub, st := open(t, drivertest.Config{Echo: true}, "SELECT ?,?")

	var a int
	var b string
	run := func() (int, string) {
		t.Helper()
		if err := st.Use(10, "ten"); err != nil {
			t.Fatalf("Use: %v", err)
		}
		if err := st.Into(&a, &b); err != nil {
			t.Fatalf("Into: %v", err)
		}
		if err := st.Execute(); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !st.NextRow() {
			t.Fatal("expected echoed row")
		}
		return a, b
	}

	a1, b1 := run()

	if err := st.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if stub.LastStmt.Params != nil {
		t.Fatalf("reset left bound params: %v", stub.LastStmt.Params)
	}

	a2, b2 := run()
	if a1 != a2 || b1 != b2 {
		t.Fatalf("post-reset run differs: (%d,%q) vs (%d,%q)", a1, b1, a2, b2)
	}
	want := []driver.Value{int64(10), "ten"}
	if !reflect.DeepEqual(stub.LastStmt.Params, want) {
		t.Fatalf("post-reset params %v, want %v", stub.LastStmt.Params, want)
	}
}

func TestExecuteFailurePassesDriverErrorThrough(t *testing.T) {
	t.Parallel()

	execErr := errors.New("constraint violation")
	_, st := open(t, drivertest.Config{ExecErr: execErr}, "INSERT INTO t VALUES(?)")

	if err := st.Use(1); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if err := st.Execute(); !errors.Is(err, execErr) {
		t.Fatalf("expected the driver error untranslated, got %v", err)
	}
}

func TestClosedStatement(t *testing.T) {
	t.Parallel()

	_, st := open(t, drivertest.Config{}, "SELECT 1")

	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := st.Use(1); !errors.Is(err, orm.ErrStatementClosed) {
		t.Fatalf("expected ErrStatementClosed, got %v", err)
	}
	if st.NextRow() {
		t.Fatal("closed statement advanced a row")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestPipeline(t *testing.T) {
	t.Parallel()

	_, st := open(t, drivertest.Config{}, "UPDATE t SET a = ?")

	var completed []uint32
	if err := st.PipelineMode(func(index uint32) { completed = append(completed, index) }); err != nil {
		t.Fatalf("PipelineMode: %v", err)
	}
	if err := st.PipelineSendQuery("UPDATE t SET a = 1", 3); err != nil {
		t.Fatalf("PipelineSendQuery: %v", err)
	}
	if err := st.Use(9); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if err := st.PipelineSendPrepared(7); err != nil {
		t.Fatalf("PipelineSendPrepared: %v", err)
	}

	if err := st.PipelineProcess(0); err != nil {
		t.Fatalf("PipelineProcess: %v", err)
	}

	want := []uint32{0, 1, 2, 7}
	if !reflect.DeepEqual(completed, want) {
		t.Fatalf("completion order %v, want %v", completed, want)
	}
}

func TestPipelineUnsupported(t *testing.T) {
	t.Parallel()

	name := "flat/" + t.Name()
	driver.Register(name, flatDriver{})
	sess, err := orm.Open(name, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close() //nolint:errcheck

	st, err := sess.Prepare("SELECT 1")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.PipelineMode(func(uint32) {}); !errors.Is(err, orm.ErrPipelineUnsupported) {
		t.Fatalf("expected ErrPipelineUnsupported, got %v", err)
	}
	if err := st.PipelineSendQuery("SELECT 1", 1); !errors.Is(err, orm.ErrPipelineUnsupported) {
		t.Fatalf("expected ErrPipelineUnsupported, got %v", err)
	}
}

// flatDriver is a minimal driver without the pipeline capability.
type flatDriver struct{}

type flatConn struct{}
type flatStmt struct{}

func (flatDriver) Open(string) (driver.Conn, error) { return flatConn{}, nil }

func (flatConn) Ready() bool                         { return true }
func (flatConn) Prepare(string) (driver.Stmt, error) { return flatStmt{}, nil }
func (flatConn) Exec(string) error                   { return nil }
func (flatConn) Affected() uint64                    { return 0 }
func (flatConn) LastInsertID(string) uint64          { return 0 }
func (flatConn) Raw() any                            { return nil }
func (flatConn) Close() error                        { return nil }

func (flatStmt) BindParam(int, driver.Value) error { return nil }
func (flatStmt) BindResult(int, any) error         { return nil }
func (flatStmt) Exec() error                       { return nil }
func (flatStmt) Next() bool                        { return false }
func (flatStmt) Cols() int                         { return 0 }
func (flatStmt) Reset() error                      { return nil }
func (flatStmt) Affected() uint64                  { return 0 }
func (flatStmt) LastInsertID(string) uint64        { return 0 }
func (flatStmt) Close() error                      { return nil }
