// Package logger builds the application's JSON slog logger and carries
// request-scoped loggers through context.Context.
package logger
