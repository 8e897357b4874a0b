// Package logger provides structured logging for the analyzer using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("workflow")
//	log.Info("stage finished", logger.Fields("stage", "analyst"))
package logger
