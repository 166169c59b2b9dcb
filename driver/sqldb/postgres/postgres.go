// Package postgres registers the "postgres" orm driver, backed by lib/pq
// through the sqldb adapter. The ? placeholders in prepared query text are
// rebound to the $1 convention by the adapter.
package postgres

import (
	_ "github.com/lib/pq"

	"github.com/ulib-project/orm/driver"
	"github.com/ulib-project/orm/driver/sqldb"
)

// Name is the registered driver name.
const Name = "postgres"

func init() {
	driver.Register(Name, sqldb.New(Name))
}
