/*
Package driver defines the boundary between the ORM binding layer and a
backend-specific driver implementation.

A driver supplies connections and prepared statements through the Driver,
Conn, and Stmt interfaces; the orm package forwards every Session and
Statement operation to them essentially unchanged. Drivers register
themselves by name with Register, typically from an init function, and are
selected at Session creation time.

Values cross the boundary in a normalized form (see Value). The
ConvertAssign helper is available to driver implementations that
materialize fetched columns into caller-supplied pointers themselves.
*/
package driver
