// Package component defines lifecycle-managed infrastructure pieces and the
// registry that starts and stops them in order.
//
// The HTTP server, the credential stores (SQLite, Redis) and the telemetry
// exporters are components. bootstrap.App registers them, starts them in
// registration order and stops them in reverse.
package component
