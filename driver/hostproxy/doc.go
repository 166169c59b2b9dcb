/*
Package hostproxy implements an orm driver that forwards SQL operations to
a Tarmac host runtime over waPC.

The host protocol has no prepare step: prepared statements live client
side, and bound parameters are interpolated into the ? placeholders with
SQL quoting before the statement is sent as a one-shot operation. Query
results arrive as a column list plus JSON-encoded rows and are staged in
memory for row iteration.

The driver implements the optional pipeline capability for real: sends
queue operations client side without a host round trip, and
PipelineProcess drains the queue on the caller's goroutine, invoking the
completion handler once per completed operation.
*/
package hostproxy
