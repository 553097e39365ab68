// Package logger provides structured logging for chatkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("ollama")
//	log.Info("llm call", logger.Fields(logger.FieldModel, "llama3.1", logger.FieldPromptTokens, 12))
package logger
