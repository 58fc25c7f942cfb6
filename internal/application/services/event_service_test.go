package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/domain/scheduling"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// Mocks

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *entities.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, userID, id string) (*entities.Event, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *entities.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) SoftDelete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockEventRepository) ListActive(ctx context.Context, userID, excludeID string) ([]*entities.Event, error) {
	args := m.Called(ctx, userID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, userID string, filter repositories.EventFilter) ([]*entities.Event, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Event), args.Error(1)
}

type MockProfessionalRepository struct {
	mock.Mock
}

func (m *MockProfessionalRepository) Create(ctx context.Context, professional *entities.Professional) error {
	args := m.Called(ctx, professional)
	return args.Error(0)
}

func (m *MockProfessionalRepository) GetByID(ctx context.Context, userID, id string) (*entities.Professional, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Professional), args.Error(1)
}

func (m *MockProfessionalRepository) GetByNameSpecialty(ctx context.Context, userID, name, specialty string) (*entities.Professional, error) {
	args := m.Called(ctx, userID, name, specialty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Professional), args.Error(1)
}

func (m *MockProfessionalRepository) AddressByName(ctx context.Context, userID, name string) (*string, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockProfessionalRepository) Update(ctx context.Context, professional *entities.Professional) error {
	args := m.Called(ctx, professional)
	return args.Error(0)
}

func (m *MockProfessionalRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockProfessionalRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Professional, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Professional), args.Error(1)
}

type MockOverrideAuditRepository struct {
	mock.Mock
}

func (m *MockOverrideAuditRepository) Record(ctx context.Context, audit *entities.TravelOverrideAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

// Helpers

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func addr(s string) *string {
	return &s
}

func newEventService(events *MockEventRepository, professionals *MockProfessionalRepository, audits *MockOverrideAuditRepository, travelGapEnabled bool) *services.EventService {
	return services.NewEventService(events, professionals, audits, nil, scheduling.NewDetector(60), travelGapEnabled)
}

// Tests

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates event with no conflicts", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		events.On("ListActive", mock.Anything, "user-1", "").Return([]*entities.Event{}, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, nil)
		events.On("Create", mock.Anything, mock.AnythingOfType("*entities.Event")).Return(nil)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    futureDate(7),
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		created, err := service.CreateEvent(ctx, "user-1", event, false)

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "user-1", created.UserID)
		events.AssertExpectations(t)
	})

	t.Run("past-date create skips conflict detection entirely", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		events.On("Create", mock.Anything, mock.AnythingOfType("*entities.Event")).Return(nil)

		event := &entities.Event{
			EventType:    entities.EventTypeExame,
			Professional: "Lab Vida",
			EventDate:    "2020-01-15",
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, false)

		assert.NoError(t, err)
		events.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects overlap regardless of override flag", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		date := futureDate(7)
		existing := []*entities.Event{{
			ID:           "evt-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:30",
			EndTime:      "10:30",
		}}
		events.On("ListActive", mock.Anything, "user-1", "").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, nil)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, true)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
		payload, ok := appErr.Details.(entities.ConflictPayload)
		assert.True(t, ok)
		assert.Equal(t, entities.ConflictKindOverlap, payload.ConflictType)
		assert.Len(t, payload.Conflicts, 1)
		assert.Equal(t, "evt-1", payload.Conflicts[0].EventID)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects travel-gap conflict without override", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		date := futureDate(7)
		existing := []*entities.Event{{
			ID:           "evt-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Pereira",
			EventDate:    date,
			StartTime:    "10:30",
			EndTime:      "11:30",
		}}
		events.On("ListActive", mock.Anything, "user-1", "").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", "Dr. Lima").Return(addr("Av. Paulista 1000"), nil)
		professionals.On("AddressByName", mock.Anything, "user-1", "Dr. Pereira").Return(addr("Rua Augusta 500"), nil)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, false)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
		payload := appErr.Details.(entities.ConflictPayload)
		assert.Equal(t, entities.ConflictKindTravelGap, payload.ConflictType)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("override allows travel-gap conflict and records audit", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		date := futureDate(7)
		existing := []*entities.Event{{
			ID:           "evt-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Pereira",
			EventDate:    date,
			StartTime:    "10:30",
			EndTime:      "11:30",
		}}
		events.On("ListActive", mock.Anything, "user-1", "").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", "Dr. Lima").Return(addr("Av. Paulista 1000"), nil)
		professionals.On("AddressByName", mock.Anything, "user-1", "Dr. Pereira").Return(addr("Rua Augusta 500"), nil)
		audits.On("Record", mock.Anything, mock.AnythingOfType("*entities.TravelOverrideAudit")).Return(nil)
		events.On("Create", mock.Anything, mock.AnythingOfType("*entities.Event")).Return(nil)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		created, err := service.CreateEvent(ctx, "user-1", event, true)

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		audits.AssertExpectations(t)
	})

	t.Run("audit write failure does not abort the override", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		date := futureDate(7)
		existing := []*entities.Event{{
			ID:           "evt-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Pereira",
			EventDate:    date,
			StartTime:    "10:30",
			EndTime:      "11:30",
		}}
		events.On("ListActive", mock.Anything, "user-1", "").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, errors.New("lookup failed"))
		audits.On("Record", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		events.On("Create", mock.Anything, mock.AnythingOfType("*entities.Event")).Return(nil)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, true)

		assert.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("travel-gap checks disabled by configuration", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, false)

		date := futureDate(7)
		existing := []*entities.Event{{
			ID:           "evt-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Pereira",
			EventDate:    date,
			StartTime:    "10:30",
			EndTime:      "11:30",
		}}
		events.On("ListActive", mock.Anything, "user-1", "").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, nil)
		events.On("Create", mock.Anything, mock.AnythingOfType("*entities.Event")).Return(nil)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, false)

		assert.NoError(t, err)
		audits.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid event type", func(t *testing.T) {
		service := newEventService(new(MockEventRepository), new(MockProfessionalRepository), new(MockOverrideAuditRepository), true)

		event := &entities.Event{
			EventType:    "Cirurgia",
			Professional: "Dr. Lima",
			EventDate:    futureDate(7),
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, false)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("rejects invalid window", func(t *testing.T) {
		service := newEventService(new(MockEventRepository), new(MockProfessionalRepository), new(MockOverrideAuditRepository), true)

		event := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    futureDate(7),
			StartTime:    "10:00",
			EndTime:      "09:00",
		}

		_, err := service.CreateEvent(ctx, "user-1", event, false)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes the event's own id from the scan", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		date := futureDate(7)
		current := &entities.Event{
			ID:           "evt-1",
			UserID:       "user-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
		}
		events.On("GetByID", mock.Anything, "user-1", "evt-1").Return(current, nil)
		events.On("ListActive", mock.Anything, "user-1", "evt-1").Return([]*entities.Event{}, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, nil)
		events.On("Update", mock.Anything, mock.AnythingOfType("*entities.Event")).Return(nil)

		update := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:30",
			EndTime:      "10:30",
		}

		updated, err := service.UpdateEvent(ctx, "user-1", "evt-1", update, false)

		assert.NoError(t, err)
		assert.Equal(t, "09:30", updated.StartTime)
		events.AssertExpectations(t)
	})

	t.Run("update has no past-date exemption", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		audits := new(MockOverrideAuditRepository)
		service := newEventService(events, professionals, audits, true)

		current := &entities.Event{
			ID:           "evt-1",
			UserID:       "user-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    "2020-01-15",
			StartTime:    "09:00",
			EndTime:      "10:00",
		}
		existing := []*entities.Event{{
			ID:           "evt-2",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    "2020-01-15",
			StartTime:    "09:30",
			EndTime:      "10:30",
		}}
		events.On("GetByID", mock.Anything, "user-1", "evt-1").Return(current, nil)
		events.On("ListActive", mock.Anything, "user-1", "evt-1").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, nil)

		update := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    "2020-01-15",
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.UpdateEvent(ctx, "user-1", "evt-1", update, false)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	})

	t.Run("propagates not found", func(t *testing.T) {
		events := new(MockEventRepository)
		service := newEventService(events, new(MockProfessionalRepository), new(MockOverrideAuditRepository), true)

		events.On("GetByID", mock.Anything, "user-1", "missing").
			Return(nil, apperrors.NewNotFoundError("event with id missing not found"))

		update := &entities.Event{
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    futureDate(7),
			StartTime:    "09:00",
			EndTime:      "10:00",
		}

		_, err := service.UpdateEvent(ctx, "user-1", "missing", update, false)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
	})
}

func TestEventService_CheckConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("reports conflicts without persisting", func(t *testing.T) {
		events := new(MockEventRepository)
		professionals := new(MockProfessionalRepository)
		service := newEventService(events, professionals, new(MockOverrideAuditRepository), true)

		date := futureDate(7)
		existing := []*entities.Event{{
			ID:           "evt-1",
			EventType:    entities.EventTypeConsulta,
			Professional: "Dr. Lima",
			EventDate:    date,
			StartTime:    "09:30",
			EndTime:      "10:30",
		}}
		events.On("ListActive", mock.Anything, "user-1", "").Return(existing, nil)
		professionals.On("AddressByName", mock.Anything, "user-1", mock.Anything).Return(nil, nil)

		result, err := service.CheckConflicts(ctx, "user-1", scheduling.Candidate{
			EventDate:    date,
			StartTime:    "09:00",
			EndTime:      "10:00",
			Professional: "Dr. Lima",
		})

		assert.NoError(t, err)
		assert.Len(t, result.Overlaps, 1)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid window maps to validation error", func(t *testing.T) {
		events := new(MockEventRepository)
		service := newEventService(events, new(MockProfessionalRepository), new(MockOverrideAuditRepository), true)

		events.On("ListActive", mock.Anything, "user-1", "").Return([]*entities.Event{}, nil)

		_, err := service.CheckConflicts(ctx, "user-1", scheduling.Candidate{
			EventDate:    "not-a-date",
			StartTime:    "09:00",
			EndTime:      "10:00",
			Professional: "Dr. Lima",
		})

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deletes through the repository", func(t *testing.T) {
		events := new(MockEventRepository)
		service := newEventService(events, new(MockProfessionalRepository), new(MockOverrideAuditRepository), true)

		current := &entities.Event{ID: "evt-1", UserID: "user-1", Professional: "Dr. Lima"}
		events.On("GetByID", mock.Anything, "user-1", "evt-1").Return(current, nil)
		events.On("SoftDelete", mock.Anything, "user-1", "evt-1").Return(nil)

		err := service.DeleteEvent(ctx, "user-1", "evt-1")

		assert.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		events := new(MockEventRepository)
		service := newEventService(events, new(MockProfessionalRepository), new(MockOverrideAuditRepository), true)

		events.On("GetByID", mock.Anything, "user-1", "missing").
			Return(nil, apperrors.NewNotFoundError("event with id missing not found"))

		err := service.DeleteEvent(ctx, "user-1", "missing")

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
	})
}
