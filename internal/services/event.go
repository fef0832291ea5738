package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"donorhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	linkRepo       domain.EventFundraiserRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	linkRepo domain.EventFundraiserRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		linkRepo:       linkRepo,
		logger:         logger,
		contextTimeout: timeoutOrDefault(timeout),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if problems := event.Validate(); len(problems) > 0 {
		return invalidInput(problems...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return storeErr("create event", err)
	}
	return nil
}

// CreateEventWithFundraisers runs the creation saga. Without fundraiser ids it is a plain create.
func (s *eventService) CreateEventWithFundraisers(ctx context.Context, event *domain.Event, fundraiserIDs []int64) (*domain.EventWithFundraisers, error) {
	if len(fundraiserIDs) == 0 {
		if err := s.CreateEvent(ctx, event); err != nil {
			return nil, err
		}
		return &domain.EventWithFundraisers{Event: event, Fundraisers: []*domain.EventFundraiser{}}, nil
	}
	saga := NewEventCreationSaga(s.eventRepo, s.linkRepo, s.logger, s.contextTimeout)
	return saga.Run(ctx, event, fundraiserIDs)
}

func (s *eventService) GetEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	if filter.City != nil && !filter.City.Valid() {
		return nil, invalidInput("city is invalid")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get event", err)
	}
	return event, nil
}

func (s *eventService) PatchEvent(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	var problems []string
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		problems = append(problems, "title must not be empty")
	}
	if patch.Topic != nil && strings.TrimSpace(*patch.Topic) == "" {
		problems = append(problems, "topic must not be empty")
	}
	if patch.Date != nil && patch.Date.IsZero() {
		problems = append(problems, "date must not be empty")
	}
	if patch.City != nil && !patch.City.Valid() {
		problems = append(problems, "city is invalid")
	}
	if patch.Goal != nil && *patch.Goal < 0 {
		problems = append(problems, "goal must not be negative")
	}
	if patch.Completed != nil && *patch.Completed < 0 {
		problems = append(problems, "completed must not be negative")
	}
	if len(problems) > 0 {
		return nil, invalidInput(problems...)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update event", err)
	}
	return event, nil
}

// DeleteEvent removes the event unconditionally; links, attendees and tasks cascade.
func (s *eventService) DeleteEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr("delete event", err)
	}
	return event, nil
}
