// Package api exposes the task board over HTTP.
//
// Handlers decode and validate JSON bodies, take the acting user from the
// request context (set by middleware.AuthMiddleware), call into the service
// layer and translate its errors into status codes and client-safe messages.
// Every error body carries the request's trace ID.
package api
