/*
Package hostmock provides a pretend waPC host for driver tests.

The hostproxy driver forwards every SQL operation through a single host
call. hostmock stands in for that host: it enforces the namespace,
capability, and function the driver is expected to route to, lets a test
validate the marshaled payload, and scripts the response bytes or a
failure.

	m := hostmock.New(hostmock.Config{
		Namespace:  "tarmac",
		Capability: "sql",
		Function:   "query",
		Validate: func(p []byte) error {
			// Unmarshal and assert fields here.
			return nil
		},
		Respond: func() []byte { return respBytes },
	})

	drv := hostproxy.New(hostproxy.Config{HostCall: m.Call})

Fields left blank are wildcards; hostmock only enforces values a test
sets.
*/
package hostmock
