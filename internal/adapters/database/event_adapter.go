package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/domain/scheduling"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// EventAdapter implements the EventRepository interface
type EventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEventAdapter creates a new event adapter
func NewEventAdapter(client *postgres.Client) repositories.EventRepository {
	return &EventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var eventColumns = []interface{}{
	"id", "user_id", "event_type", "professional", "event_date",
	"start_time", "end_time", "notes", "instructions",
	"deleted_at", "created_at", "updated_at",
}

// Create creates a new event. Dates are stored at midnight and clock times
// anchored on the epoch day, so stored rows round-trip to the same strings
// the caller supplied.
func (a *EventAdapter) Create(ctx context.Context, event *entities.Event) error {
	eventDate, startTime, endTime, err := normalizeWindow(event)
	if err != nil {
		return err
	}

	record := goqu.Record{
		"id":           event.ID,
		"user_id":      event.UserID,
		"event_type":   event.EventType,
		"professional": event.Professional,
		"event_date":   eventDate,
		"start_time":   startTime,
		"end_time":     endTime,
		"notes":        event.Notes,
		"instructions": event.Instructions,
		"deleted_at":   event.DeletedAt,
		"created_at":   event.CreatedAt,
		"updated_at":   event.UpdatedAt,
	}

	query, args, err := a.db.Insert("events").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create event", err)
	}

	return nil
}

// GetByID retrieves an active event by id within the owner scope
func (a *EventAdapter) GetByID(ctx context.Context, userID, id string) (*entities.Event, error) {
	query, args, err := a.db.Select(eventColumns...).
		From("events").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		Where(goqu.C("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	event, err := a.scanEvent(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get event", err)
	}

	return event, nil
}

// Update updates an event within the owner scope
func (a *EventAdapter) Update(ctx context.Context, event *entities.Event) error {
	eventDate, startTime, endTime, err := normalizeWindow(event)
	if err != nil {
		return err
	}

	record := goqu.Record{
		"event_type":   event.EventType,
		"professional": event.Professional,
		"event_date":   eventDate,
		"start_time":   startTime,
		"end_time":     endTime,
		"notes":        event.Notes,
		"instructions": event.Instructions,
		"updated_at":   event.UpdatedAt,
	}

	query, args, err := a.db.Update("events").
		Set(record).
		Where(goqu.Ex{"id": event.ID, "user_id": event.UserID}).
		Where(goqu.C("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update event", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", event.ID))
	}

	return nil
}

// SoftDelete marks the event deleted and orphans its documents in one
// transaction. Orphaned documents keep their rows and binaries; only the
// event link is cleared.
func (a *EventAdapter) SoftDelete(ctx context.Context, userID, id string) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now()

	query, args, err := a.db.Update("events").
		Set(goqu.Record{"deleted_at": now, "updated_at": now}).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		Where(goqu.C("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete event", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", id))
	}

	query, args, err = a.db.Update("documents").
		Set(goqu.Record{"event_id": nil, "orphaned_at": now, "updated_at": now}).
		Where(goqu.Ex{"event_id": id, "user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build orphan query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to orphan documents", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit delete", err)
	}

	return nil
}

// ListActive retrieves all non-deleted events for the owner, optionally
// excluding one id. The conflict detector scans this result set.
func (a *EventAdapter) ListActive(ctx context.Context, userID, excludeID string) ([]*entities.Event, error) {
	ds := a.db.Select(eventColumns...).
		From("events").
		Where(goqu.Ex{"user_id": userID}).
		Where(goqu.C("deleted_at").IsNull())

	if excludeID != "" {
		ds = ds.Where(goqu.C("id").Neq(excludeID))
	}

	ds = ds.Order(goqu.I("event_date").Asc(), goqu.I("start_time").Asc())

	return a.queryEvents(ctx, ds)
}

// List retrieves the owner's active events with filters applied
func (a *EventAdapter) List(ctx context.Context, userID string, filter repositories.EventFilter) ([]*entities.Event, error) {
	ds := a.db.Select(eventColumns...).
		From("events").
		Where(goqu.Ex{"user_id": userID}).
		Where(goqu.C("deleted_at").IsNull())

	if filter.EventType != "" {
		ds = ds.Where(goqu.Ex{"event_type": filter.EventType})
	}

	if filter.Professional != "" {
		ds = ds.Where(goqu.Ex{"professional": filter.Professional})
	}

	if filter.FromDate != "" {
		if from, err := scheduling.ParseDate(filter.FromDate); err == nil {
			ds = ds.Where(goqu.C("event_date").Gte(from))
		}
	}

	if filter.ToDate != "" {
		if to, err := scheduling.ParseDate(filter.ToDate); err == nil {
			ds = ds.Where(goqu.C("event_date").Lte(to))
		}
	}

	ds = ds.Order(goqu.I("event_date").Asc(), goqu.I("start_time").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	return a.queryEvents(ctx, ds)
}

func (a *EventAdapter) queryEvents(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Event, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list events", err)
	}
	defer rows.Close()

	var events []*entities.Event
	for rows.Next() {
		event, err := a.scanEvent(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan event", err)
		}
		events = append(events, event)
	}

	return events, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *EventAdapter) scanEvent(row rowScanner) (*entities.Event, error) {
	event := &entities.Event{}
	var eventDate, startTime, endTime time.Time
	var notes, instructions sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.EventType,
		&event.Professional,
		&eventDate,
		&startTime,
		&endTime,
		&notes,
		&instructions,
		&deletedAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.EventDate = eventDate.Format(dateLayout)
	event.StartTime = startTime.Format(clockLayout)
	event.EndTime = endTime.Format(clockLayout)
	event.Notes = notes.String
	event.Instructions = instructions.String
	if deletedAt.Valid {
		event.DeletedAt = &deletedAt.Time
	}

	return event, nil
}

// normalizeWindow converts the string window to its stored form: the date
// at midnight and the clock times anchored on 1970-01-01.
func normalizeWindow(event *entities.Event) (time.Time, time.Time, time.Time, error) {
	eventDate, err := scheduling.ParseDate(event.EventDate)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, apperrors.NewValidationError("invalid datetime")
	}

	startTime, err := parseClock(event.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, apperrors.NewValidationError("invalid datetime")
	}

	endTime, err := parseClock(event.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, apperrors.NewValidationError("invalid datetime")
	}

	return eventDate, startTime, endTime, nil
}

func parseClock(value string) (time.Time, error) {
	parsed, err := time.Parse(clockLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(1970, 1, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}
