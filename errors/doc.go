// Package errors provides unified error handling for the analyzer.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection following RFC 7807 and Google AIP-193.
//
// The analysis flow surfaces three terminal kinds: [ParseError] for uploads
// that are not readable spreadsheets, [MissingInput] when the credential or
// dataset is absent, and [StageFailure] when a completion call aborts the
// pipeline.
package errors
