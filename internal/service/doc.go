// Package service contains the application use cases of the task board.
//
// Services orchestrate the stores (internal/store), the access rules
// (internal/domain/access) and the lifecycle policy
// (internal/domain/lifecycle): they load entities, check that the acting user
// may perform the operation, compute the new state and persist it in a single
// write. Transactions are opened only when an operation spans more than one
// store.
//
// Errors from the domain and access layers are returned as-is so the API layer
// can map them with errors.Is; infrastructure failures are wrapped in
// ServiceError, which preserves the cause through Unwrap.
package service
