// Package mocks provides hand-written mocks of the service interfaces used by
// the HTTP layer.
//
// Each mock has one function field per interface method. A nil field makes the
// method return zero values, so tests only set the behavior they exercise:
//
//	tasks := &mocks.MockTaskService{
//	    GetFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Task, error) {
//	        return nil, store.ErrTaskNotFound
//	    },
//	}
package mocks
