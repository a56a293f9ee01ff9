package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHealthHandlerHealthy(t *testing.T) {
	c := NewChecker(&fakePinger{}, "test")

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
	if resp.Components["store"].Status != StatusHealthy {
		t.Errorf("expected healthy store, got %+v", resp.Components["store"])
	}
}

func TestHealthHandlerUnhealthyStore(t *testing.T) {
	c := NewChecker(&fakePinger{err: errors.New("connection refused")}, "test")

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 503 {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthCheckerNilPinger(t *testing.T) {
	c := NewChecker(nil, "test")
	resp := c.Check(context.Background())
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy with no pinger, got %s", resp.Status)
	}
}

func TestRunNowUpdatesJobStatus(t *testing.T) {
	d := New(":0", &fakePinger{}, "test", nil)

	calls := 0
	err := d.AddJob("letters", "0 9 * * *", func(ctx context.Context) (string, error) {
		calls++
		return "3 letters generated", nil
	})
	if err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	if err := d.RunNow("letters"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one job execution, got %d", calls)
	}

	rec := httptest.NewRecorder()
	d.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	var status StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if len(status.Jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(status.Jobs))
	}
	job := status.Jobs[0]
	if job.Name != "letters" || job.Runs != 1 || job.LastOutcome != "3 letters generated" {
		t.Errorf("unexpected job status %+v", job)
	}
	if job.LastRun.IsZero() {
		t.Error("expected LastRun to be set")
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	d := New(":0", &fakePinger{}, "test", nil)

	err := d.AddJob("summary", "0 18 * * 0", func(ctx context.Context) (string, error) {
		return "", errors.New("store unavailable")
	})
	if err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	if err := d.RunNow("summary"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}

	d.mu.Lock()
	outcome := d.byName["summary"].LastOutcome
	d.mu.Unlock()
	if outcome != "error: store unavailable" {
		t.Errorf("expected error outcome, got %q", outcome)
	}
}

func TestRunNowUnknownJob(t *testing.T) {
	d := New(":0", &fakePinger{}, "test", nil)
	if err := d.RunNow("nope"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	d := New(":0", &fakePinger{}, "test", nil)
	err := d.AddJob("bad", "not a schedule", func(ctx context.Context) (string, error) {
		return "", nil
	})
	if err == nil {
		t.Error("expected schedule parse error")
	}
}

func TestShutdownStopsCron(t *testing.T) {
	d := New("127.0.0.1:0", &fakePinger{}, "test", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestServerExposedForShutdown(t *testing.T) {
	d := New("127.0.0.1:9099", &fakePinger{}, "test", nil)

	srv := d.Server()
	if srv == nil {
		t.Fatal("expected an HTTP server")
	}
	if srv.Addr != "127.0.0.1:9099" {
		t.Errorf("server addr = %q, want %q", srv.Addr, "127.0.0.1:9099")
	}
}
