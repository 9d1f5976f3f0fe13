// Package testutil starts in-memory Redis servers for tests.
package testutil
