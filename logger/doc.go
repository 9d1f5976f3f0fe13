// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and request-scoped fields carried through context.Context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "habit").WithComponent("credential")
//	log.Info("registered", logger.Fields("id", rec.ID))
package logger
