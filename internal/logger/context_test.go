package logger

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_NopFallback(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("expected a usable logger")
	}
	l.Info("must not panic")
}

func TestFromContext_StampsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx := ContextWithLogger(context.Background(), zap.New(core))
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-42")

	FromContext(ctx).Info("handled")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-42" {
		t.Errorf("expected request_id stamped, got %v", got)
	}
}

func TestFromContext_NoRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx := ContextWithLogger(context.Background(), zap.New(core))
	FromContext(ctx).Info("handled")

	if _, ok := logs.All()[0].ContextMap()["request_id"]; ok {
		t.Error("request_id must be absent outside a request chain")
	}
}
