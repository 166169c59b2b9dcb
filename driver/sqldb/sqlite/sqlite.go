// Package sqlite registers the "sqlite3" orm driver, backed by
// mattn/go-sqlite3 through the sqldb adapter.
package sqlite

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/ulib-project/orm/driver"
	"github.com/ulib-project/orm/driver/sqldb"
)

// Name is the registered driver name.
const Name = "sqlite3"

func init() {
	driver.Register(Name, sqldb.New(Name))
}
