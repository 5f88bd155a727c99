package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/store"
	"github.com/inkwell-cms/inkwell/internal/testutil"
)

func newTestHandler(t *testing.T) (*slog.Logger, *store.Store) {
	t.Helper()

	db := testutil.TestDB(t)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewEventLogHandler(inner, db)), store.New(db)
}

func TestEventLogHandler_MirrorsWarnings(t *testing.T) {
	logger, st := newTestHandler(t)
	ctx := context.Background()

	logger.Warn("disk almost full", "free_mb", 12)

	events, err := st.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	ev := events[0]
	if ev.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want %q", ev.Level, model.EventLevelWarning)
	}
	if ev.Message != "disk almost full" {
		t.Errorf("Message = %q", ev.Message)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata %q is not valid JSON: %v", ev.Metadata, err)
	}
	if meta["free_mb"] != "12" {
		t.Errorf("metadata = %v, want free_mb=12", meta)
	}
}

func TestEventLogHandler_SkipsInfo(t *testing.T) {
	logger, st := newTestHandler(t)

	logger.Info("routine operation")

	events, err := st.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("info logs should not be mirrored, got %d events", len(events))
	}
}

func TestEventLogHandler_CategoryAttribute(t *testing.T) {
	logger, st := newTestHandler(t)

	logger.Error("something broke", "category", model.EventCategoryComment)

	events, err := st.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryComment {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryComment)
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelError)
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	logger, st := newTestHandler(t)

	logger.Warn("post publishing stalled")

	events, err := st.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryPost {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategoryPost)
	}
}

func TestEventLogHandler_WithAttrsKeepsMirroring(t *testing.T) {
	logger, st := newTestHandler(t)

	logger.With("request_id", "abc123").Warn("slow query")

	events, err := st.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
}
