/*
Package observability provides tools for monitoring the Minsky interpreter.

Metrics turns interpreter lifecycle hooks into Prometheus series, and Chain combines
several sets of hooks so metrics, logging and tracing can observe the same run.
*/
package observability
