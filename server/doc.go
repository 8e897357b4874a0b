// Package server provides the analyzer's HTTP server: a Gin engine behind
// h2c, wrapped in a server-wide middleware chain, with graceful shutdown
// and the standard /health, /info and /metrics endpoints.
//
// # Middleware
//
// Built-in middleware (server/middleware), applied outermost first:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request id generation and log enrichment
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body cap (default 10MB)
//   - RequestLogger: request logging with duration tracking
//
// RateLimit is applied per route by the web layer.
//
// # Responses
//
// RespondOK wraps data in {"data": ...}; RespondWithError maps an
// *errors.AppError to its HTTP status and error envelope.
package server
