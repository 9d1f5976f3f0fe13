// Package util holds small parsing and redaction helpers shared by the
// config and startup display code.
package util
