package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	payloads []AgingWarmupPayload
	err      error
}

func (s *stubEnqueuer) EnqueueAgingWarmup(_ context.Context, payload AgingWarmupPayload) (*asynq.TaskInfo, error) {
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func newJobsRouter(enqueuer WarmupEnqueuer) chi.Router {
	h := NewHandler(nil, enqueuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestWarmupTriggerEnqueuesTask(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	r := newJobsRouter(enqueuer)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/warmup", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Contains(t, rec.Body.String(), "task-1")
	require.Len(t, enqueuer.payloads, 1)
	require.True(t, enqueuer.payloads[0].WarmDetails)
}

func TestWarmupTriggerReportsEnqueueFailure(t *testing.T) {
	enqueuer := &stubEnqueuer{err: errors.New("redis down")}
	r := newJobsRouter(enqueuer)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/warmup", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWarmupTriggerWithoutClientIs503(t *testing.T) {
	r := newJobsRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/warmup", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJobsHealthWithoutInspector(t *testing.T) {
	r := newJobsRouter(&stubEnqueuer{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"pending":0`)
}
