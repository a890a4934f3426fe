package mocks

import (
	"context"

	"github.com/chetarea/tarea-api/internal/retention"
)

// MockSweeper records on-demand retention sweeps.
type MockSweeper struct {
	RunOnceFn func(ctx context.Context) retention.Result

	// Result is returned when RunOnceFn is nil.
	Result retention.Result
	Calls  int
}

// RunOnce returns the configured result.
func (m *MockSweeper) RunOnce(ctx context.Context) retention.Result {
	m.Calls++
	if m.RunOnceFn != nil {
		return m.RunOnceFn(ctx)
	}
	return m.Result
}
