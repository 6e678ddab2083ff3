// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request logging, CORS, rate limiting,
// tracing and panic recovery. Errors from every layer end in
// GlobalErrorHandler, which renders them as a response envelope.
package middleware
