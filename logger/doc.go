// Package logger provides structured logging for livesse on top of zerolog.
//
// Loggers are component-scoped: the subscription manager, the event source
// transport and the CLI each log through their own tagged logger, so a single
// stream of output can be filtered per component and per session.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("subscription")
//	log.Debug("Connection established", logger.Fields("session_id", pid))
package logger
