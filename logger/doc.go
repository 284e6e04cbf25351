// Package logger provides structured logging built on zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Loggers are passed
// explicitly to the components that use them; the package-level global
// exists for process wiring only.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "orders").WithComponent("eureka")
//	log.Info("registered", logger.Fields("app", "ORDERS", "status_code", 204))
package logger
