package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	for _, name := range []string{"database", "cache", "embedding"} {
		if report.Checks[name] != CheckOK {
			t.Errorf("expected %s ok, got %s", name, report.Checks[name])
		}
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("boom")}, &mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("expected database error, got %s", report.Checks["database"])
	}
	if report.Checks["cache"] != CheckOK {
		t.Errorf("expected cache ok, got %s", report.Checks["cache"])
	}
}

func TestCheck_EmbeddingDown(t *testing.T) {
	svc := New(&mockPinger{}, nil, &mockChecker{err: errors.New("api down")})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding error, got %s", report.Checks["embedding"])
	}
}

func TestCheck_OptionalComponentsSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil, nil)

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	if _, ok := report.Checks["cache"]; ok {
		t.Error("cache check must be absent when no cache is configured")
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("embedding check must be absent when no checker is configured")
	}
}
