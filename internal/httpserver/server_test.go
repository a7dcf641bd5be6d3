package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/service"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeSweeps struct {
	report service.SweepReport
	ok     bool
}

func (f fakeSweeps) LastReport() (service.SweepReport, bool) { return f.report, f.ok }

type fakeDigests struct {
	report service.DigestReport
	ok     bool
}

func (f fakeDigests) LastReport() (service.DigestReport, bool) { return f.report, f.ok }

func TestHealthz(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"database up", nil, http.StatusOK},
		{"database down", errors.New("dial tcp: refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(fakePinger{err: tt.err}, fakeSweeps{}, fakeDigests{}, zap.NewNop())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStatus(t *testing.T) {
	started := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	sweeps := fakeSweeps{ok: true, report: service.SweepReport{StartedAt: started, Regimens: 4, Sent: 2, Skipped: 2}}
	router := NewRouter(fakePinger{}, sweeps, fakeDigests{}, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, "null", string(body["digest"]))

	var sweep service.SweepReport
	require.NoError(t, json.Unmarshal(body["sweep"], &sweep))
	assert.Equal(t, 2, sweep.Sent)
	assert.True(t, started.Equal(sweep.StartedAt))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := New("127.0.0.1:0", fakePinger{}, fakeSweeps{}, fakeDigests{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
