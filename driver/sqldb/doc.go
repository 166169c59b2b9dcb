/*
Package sqldb adapts any database/sql backend into an orm driver.

The adapter holds its connection through a sqlx handle, rebinding the
layer's ? placeholder convention to whatever the backend expects, and
delegates row scanning to database/sql. Raw() exposes the *sqlx.DB so
callers can reach named queries and the rest of the sqlx surface outside
this abstraction.

Backends register through the subpackages:

	import _ "github.com/ulib-project/orm/driver/sqldb/sqlite"

which registers "sqlite3", and likewise sqldb/postgres for "postgres".
*/
package sqldb
