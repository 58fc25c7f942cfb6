package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/providers"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/domain/scheduling"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// EventService orchestrates appointment create/update/delete with conflict
// policy: overlaps always block, travel-gap conflicts block unless the
// caller explicitly overrides, and overrides leave a best-effort audit
// trail.
type EventService struct {
	events           repositories.EventRepository
	professionals    repositories.ProfessionalRepository
	audits           repositories.OverrideAuditRepository
	bus              providers.EventBus
	detector         *scheduling.Detector
	travelGapEnabled bool
}

// NewEventService creates a new event service. bus may be nil when no
// lifecycle fan-out is wanted.
func NewEventService(
	events repositories.EventRepository,
	professionals repositories.ProfessionalRepository,
	audits repositories.OverrideAuditRepository,
	bus providers.EventBus,
	detector *scheduling.Detector,
	travelGapEnabled bool,
) *EventService {
	return &EventService{
		events:           events,
		professionals:    professionals,
		audits:           audits,
		bus:              bus,
		detector:         detector,
		travelGapEnabled: travelGapEnabled,
	}
}

// CreateEvent validates and persists a new appointment. Events dated
// strictly before today skip conflict detection entirely: they are
// historical backfill, and the carve-out is deliberate product policy.
func (s *EventService) CreateEvent(ctx context.Context, userID string, event *entities.Event, overrideTravelConflict bool) (*entities.Event, error) {
	if err := validateEventInput(event); err != nil {
		return nil, err
	}

	eventDay, err := scheduling.ParseDate(event.EventDate)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid datetime")
	}
	if _, _, err := scheduling.ParseWindow(event.EventDate, event.StartTime, event.EndTime); err != nil {
		return nil, apperrors.NewValidationError("invalid datetime")
	}

	if !eventDay.Before(today()) {
		if err := s.enforceConflictPolicy(ctx, userID, scheduling.Candidate{
			EventDate:    event.EventDate,
			StartTime:    event.StartTime,
			EndTime:      event.EndTime,
			Professional: event.Professional,
		}, nil, overrideTravelConflict); err != nil {
			return nil, err
		}
	}

	event.ID = uuid.New().String()
	event.UserID = userID
	event.DeletedAt = nil
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, event, entities.AgendaEventTypeCreated)
	return event, nil
}

// UpdateEvent validates and persists changes to an existing appointment.
// Unlike create there is no past-date exemption: conflict detection always
// runs, excluding the event's own id from the scan.
func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID string, event *entities.Event, overrideTravelConflict bool) (*entities.Event, error) {
	if err := validateEventInput(event); err != nil {
		return nil, err
	}

	current, err := s.events.GetByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if _, _, err := scheduling.ParseWindow(event.EventDate, event.StartTime, event.EndTime); err != nil {
		return nil, apperrors.NewValidationError("invalid datetime")
	}

	if err := s.enforceConflictPolicy(ctx, userID, scheduling.Candidate{
		EventDate:    event.EventDate,
		StartTime:    event.StartTime,
		EndTime:      event.EndTime,
		Professional: event.Professional,
		ExcludeID:    eventID,
	}, &eventID, overrideTravelConflict); err != nil {
		return nil, err
	}

	current.EventType = event.EventType
	current.Professional = event.Professional
	current.EventDate = event.EventDate
	current.StartTime = event.StartTime
	current.EndTime = event.EndTime
	current.Notes = event.Notes
	current.Instructions = event.Instructions
	current.UpdatedAt = time.Now()

	if err := s.events.Update(ctx, current); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, current, entities.AgendaEventTypeUpdated)
	return current, nil
}

// CheckConflicts runs the detector without persisting anything. There is no
// past-date exemption here: pre-flight checks always report what the
// detector sees.
func (s *EventService) CheckConflicts(ctx context.Context, userID string, candidate scheduling.Candidate) (*scheduling.Result, error) {
	existing, err := s.events.ListActive(ctx, userID, candidate.ExcludeID)
	if err != nil {
		return nil, err
	}

	result, err := s.detector.Detect(candidate, existing, s.addressLookup(ctx, userID))
	if errors.Is(err, scheduling.ErrInvalidDateTime) {
		return nil, apperrors.NewValidationError("invalid datetime")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("conflict detection failed", err)
	}
	return result, nil
}

// DeleteEvent soft-deletes an appointment. The repository marks deleted_at
// and orphans attached documents inside one transaction.
func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.events.GetByID(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if err := s.events.SoftDelete(ctx, userID, eventID); err != nil {
		return err
	}
	s.publish(ctx, userID, event, entities.AgendaEventTypeCancelled)
	return nil
}

// GetEvent retrieves one active event within the owner scope
func (s *EventService) GetEvent(ctx context.Context, userID, eventID string) (*entities.Event, error) {
	return s.events.GetByID(ctx, userID, eventID)
}

// ListEvents retrieves the owner's active events with filters applied
func (s *EventService) ListEvents(ctx context.Context, userID string, filter repositories.EventFilter) ([]*entities.Event, error) {
	return s.events.List(ctx, userID, filter)
}

// enforceConflictPolicy runs the detector and applies the blocking rules.
// eventID is nil on create; on override it is recorded in the audit row.
func (s *EventService) enforceConflictPolicy(ctx context.Context, userID string, candidate scheduling.Candidate, eventID *string, overrideTravelConflict bool) error {
	existing, err := s.events.ListActive(ctx, userID, candidate.ExcludeID)
	if err != nil {
		return err
	}

	result, err := s.detector.Detect(candidate, existing, s.addressLookup(ctx, userID))
	if errors.Is(err, scheduling.ErrInvalidDateTime) {
		return apperrors.NewValidationError("invalid datetime")
	}
	if err != nil {
		return apperrors.NewInternalError("conflict detection failed", err)
	}

	if len(result.Overlaps) > 0 {
		return apperrors.NewConflictError(
			"the time window overlaps an existing appointment",
			entities.ConflictPayload{ConflictType: entities.ConflictKindOverlap, Conflicts: result.Overlaps},
		)
	}

	if !s.travelGapEnabled || len(result.TravelGaps) == 0 {
		return nil
	}

	if !overrideTravelConflict {
		return apperrors.NewConflictError(
			"insufficient travel time before or after another appointment",
			entities.ConflictPayload{ConflictType: entities.ConflictKindTravelGap, Conflicts: result.TravelGaps},
		)
	}

	s.recordOverride(ctx, userID, eventID, result.TravelGaps)
	return nil
}

// recordOverride writes the override audit row. Best-effort only: a failed
// write is logged and the mutation proceeds.
func (s *EventService) recordOverride(ctx context.Context, userID string, eventID *string, conflicts []entities.Conflict) {
	payload, err := json.Marshal(conflicts)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to marshal override audit payload")
		return
	}
	audit := &entities.TravelOverrideAudit{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Conflicts: payload,
		CreatedAt: time.Now(),
	}
	if err := s.audits.Record(ctx, audit); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to record travel override audit")
	}
}

func (s *EventService) addressLookup(ctx context.Context, userID string) scheduling.AddressLookup {
	return func(professional string) *string {
		addr, err := s.professionals.AddressByName(ctx, userID, professional)
		if err != nil {
			// unresolved addresses count as different, keeping the
			// conservative travel-gap behavior
			return nil
		}
		return addr
	}
}

func (s *EventService) publish(ctx context.Context, userID string, event *entities.Event, kind entities.AgendaEventType) {
	if s.bus == nil {
		return
	}
	msg := entities.NewAgendaEvent(userID, event.ID, kind, event.Professional, event.EventDate, event.StartTime)
	if err := s.bus.Publish(ctx, providers.EventChannelAgenda, msg); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish agenda event")
	}
}

func validateEventInput(event *entities.Event) error {
	if event == nil {
		return apperrors.NewValidationError("event payload is required")
	}
	if !entities.ValidEventType(event.EventType) {
		return apperrors.NewValidationError("event_type must be Consulta or Exame")
	}
	if event.Professional == "" {
		return apperrors.NewValidationError("professional is required")
	}
	return nil
}

// today returns the current date truncated to midnight; the past-date
// carve-out compares dates only, never times.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
