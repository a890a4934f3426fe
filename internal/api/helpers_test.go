package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chetarea/tarea-api/internal/api/shared"
	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	fixedTime  = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	userActor  = domain.Actor{UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: domain.RoleUser}
	adminActor = domain.Actor{UserID: uuid.MustParse("99999999-9999-9999-9999-999999999999"), Role: domain.RoleAdmin}
)

// asActor simulates the authentication middleware.
func asActor(actor *domain.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			if actor != nil {
				ctx = shared.WithActor(ctx, *actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(actor *domain.Actor, routes func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(asActor(actor))
	routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[shared.ErrorResponse](t, rr)
	require.NotEmpty(t, body.TraceID, "error responses carry the trace ID")
	return body.Error
}

func newTestTask(creator uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:        uuid.New(),
		Title:     "Prepare sprint demo",
		Status:    domain.TaskStatusToDo,
		Priority:  domain.PriorityMedium,
		TagIDs:    []uuid.UUID{},
		CreatedBy: creator,
		Subtasks:  []domain.Subtask{},
		Comments:  []domain.Comment{},
		History: []domain.HistoryEntry{{
			Action:    domain.ActionCreated,
			UserID:    creator,
			NewValue:  string(domain.TaskStatusToDo),
			Timestamp: fixedTime,
		}},
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}
