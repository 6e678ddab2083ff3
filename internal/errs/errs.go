// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for parameter validation or HTTPError for API responses)
// so the client always receives a meaningful and consistent error envelope.
package errs
