/*
Package orm is a thin type-binding layer over pluggable SQL drivers.

A Session owns one driver connection, selected by registered driver name. A
Statement owns one prepared statement against that Session and exposes
positional parameter and result binding, execution, and row iteration. The
character '?' marks positional placeholders in prepared query text; the
count and order of placeholders must match the bound parameters (this is
the driver's concern, not validated here).

Every operation is forwarded essentially unchanged to the selected driver;
the protocol, SQL handling, and row production live behind the
driver.Driver interface. Neither Session nor Statement is safe for
concurrent use, and a Statement must not outlive the Session that created
it.

Parameters are supplied with Use and results collected with Into:

	sess, err := orm.Open("sqlite3", ":memory:")
	...
	st, err := sess.Prepare("SELECT name, age FROM person WHERE id = ?")
	...
	var name string
	var age int
	st.Use(42)
	st.Into(&name, &age)
	st.Execute()
	for st.NextRow() {
		...
	}

Composite types bind field-by-field by implementing ParamBinder and
ResultBinder.
*/
package orm
