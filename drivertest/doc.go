/*
Package drivertest provides a configurable in-memory driver for testing
code built on the orm binding layer.

The stub records every call it receives in order, can echo bound
parameters back as a single result row, serves canned row sets, injects
failures at each operation, and implements the optional pipeline
capability. It talks to no database.
*/
package drivertest
