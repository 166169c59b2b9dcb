package orm_test

import (
	"testing"

	orm "github.com/ulib-project/orm"
	"github.com/ulib-project/orm/driver"
	"github.com/ulib-project/orm/drivertest"
)

func BenchmarkUse(b *testing.B) {
	d := drivertest.New(drivertest.Config{})
	driver.Register("stub/BenchmarkUse", d)
	sess, err := orm.Open("stub/BenchmarkUse", "")
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	defer sess.Close() //nolint:errcheck

	st, err := sess.Prepare("INSERT INTO t VALUES(?,?,?)")
	if err != nil {
		b.Fatalf("Prepare: %v", err)
	}
	defer st.Close() //nolint:errcheck

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := st.Use(i, "name", 1.5); err != nil {
			b.Fatalf("Use: %v", err)
		}
		if err := st.Reset(); err != nil {
			b.Fatalf("Reset: %v", err)
		}
	}
}

func BenchmarkNextRow(b *testing.B) {
	rows := [][]driver.Value{{int64(1), "alpha"}}
	d := drivertest.New(drivertest.Config{Rows: rows})
	driver.Register("stub/BenchmarkNextRow", d)
	sess, err := orm.Open("stub/BenchmarkNextRow", "")
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	defer sess.Close() //nolint:errcheck

	st, err := sess.Prepare("SELECT a,b FROM t")
	if err != nil {
		b.Fatalf("Prepare: %v", err)
	}
	defer st.Close() //nolint:errcheck

	var x int64
	var s string
	if err := st.Into(&x, &s); err != nil {
		b.Fatalf("Into: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := st.Execute(); err != nil {
			b.Fatalf("Execute: %v", err)
		}
		for st.NextRow() {
		}
	}
}
