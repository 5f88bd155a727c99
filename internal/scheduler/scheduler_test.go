package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/store"
	"github.com/inkwell-cms/inkwell/internal/testutil"
)

func TestStartStop(t *testing.T) {
	db := testutil.TestDB(t)
	s := New(db, testutil.TestLogger(), 90*24*time.Hour)

	if err := s.Start("@hourly"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	db := testutil.TestDB(t)
	s := New(db, testutil.TestLogger(), time.Hour)

	if err := s.Start("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestRunMaintenance(t *testing.T) {
	db := testutil.TestDB(t)
	s := New(db, testutil.TestLogger(), time.Hour)

	// Must not panic or corrupt the database.
	s.runMaintenance()

	if err := db.Ping(); err != nil {
		t.Fatalf("database unusable after maintenance: %v", err)
	}
}

func TestPruneEvents(t *testing.T) {
	db := testutil.TestDB(t)
	st := store.New(db)
	ctx := context.Background()

	old := store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "ancient",
		Metadata:  "{}",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := old
	fresh.Message = "recent"
	fresh.CreatedAt = time.Now()

	if _, err := st.CreateEvent(ctx, old); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := st.CreateEvent(ctx, fresh); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	s := New(db, testutil.TestLogger(), 24*time.Hour)
	s.pruneEvents()

	events, err := st.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Message != "recent" {
		t.Errorf("surviving event = %q, want %q", events[0].Message, "recent")
	}
}
