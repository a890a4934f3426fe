// Package store defines interfaces for data persistence operations on users,
// tasks and tags, plus the transaction helper and error values shared by every
// implementation. Business rules never depend on a specific database.
package store
