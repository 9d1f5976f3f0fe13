// Package redis provides a Redis-backed credential store built on go-redis,
// with connection pooling, lifecycle management and health checks.
//
// Records live in one hash per user. Save and Update run as Lua scripts so
// that reserving a login name, allocating an id and rotating a password are
// each a single atomic step.
//
// # Configuration
//
//	storage:
//	  driver: redis
//	redis:
//	  addr: "localhost:6379"
//	  key_prefix: "habit"
package redis
