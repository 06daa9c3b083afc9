package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return New(Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf}), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return entry
}

func TestContextFieldsCarryThrough(t *testing.T) {
	logg, buf := newTestLogger(t)

	ctx := logg.WithUserID(context.Background(), "user-1")
	ctx = logg.WithDealID(ctx, "deal-9")
	logg.Info(ctx, "status changed")

	entry := lastEntry(t, buf)
	if entry["user_id"] != "user-1" {
		t.Fatalf("expected user_id, got %v", entry["user_id"])
	}
	if entry["deal_id"] != "deal-9" {
		t.Fatalf("expected deal_id, got %v", entry["deal_id"])
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service name, got %v", entry["service"])
	}
}

func TestWithFieldDoesNotMutateParentContext(t *testing.T) {
	logg, buf := newTestLogger(t)

	parent := context.Background()
	_ = logg.WithDealID(parent, "deal-9")
	logg.Info(parent, "no deal attached")

	entry := lastEntry(t, buf)
	if _, ok := entry["deal_id"]; ok {
		t.Fatal("parent context must not pick up the deal id")
	}
}
