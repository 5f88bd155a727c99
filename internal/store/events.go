package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-cms/inkwell/internal/model"
)

var eventColumns = []string{"id", "level", "category", "message", "metadata", "created_at"}

// CreateEventParams holds the fields required to insert an event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry.
func (s *Store) CreateEvent(ctx context.Context, p CreateEventParams) (model.Event, error) {
	res, err := s.exec(ctx, s.sb.Insert("events").
		Columns("level", "category", "message", "metadata", "created_at").
		Values(p.Level, p.Category, p.Message, p.Metadata, p.CreatedAt))
	if err != nil {
		return model.Event{}, fmt.Errorf("inserting event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, fmt.Errorf("reading event id: %w", err)
	}
	return model.Event{
		ID:        id,
		Level:     p.Level,
		Category:  p.Category,
		Message:   p.Message,
		Metadata:  p.Metadata,
		CreatedAt: p.CreatedAt,
	}, nil
}

// ListRecentEvents returns the newest events up to limit.
func (s *Store) ListRecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	events := make([]model.Event, 0)
	err := s.selectAll(ctx, &events, s.sb.Select(eventColumns...).From("events").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)))
	return events, err
}

// PruneEvents deletes events older than the cutoff and reports how many
// rows were removed.
func (s *Store) PruneEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.exec(ctx, s.sb.Delete("events").Where(sq.Lt{"created_at": cutoff}))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
