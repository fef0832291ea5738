package services

import (
	"context"
	"fmt"
	"time"

	"donorhub/internal/domain"
)

type eventAttendeeService struct {
	attendeeRepo   domain.EventAttendeeRepository
	contextTimeout time.Duration
}

func NewEventAttendeeService(attendeeRepo domain.EventAttendeeRepository, timeout time.Duration) domain.EventAttendeeService {
	return &eventAttendeeService{attendeeRepo: attendeeRepo, contextTimeout: timeoutOrDefault(timeout)}
}

// CreateEventAttendee is an upsert on (eventID, donorID); an existing row is returned unchanged with created=false.
func (s *eventAttendeeService) CreateEventAttendee(ctx context.Context, eventID, donorID int64, amount float64) (*domain.EventAttendee, bool, error) {
	if eventID <= 0 || donorID <= 0 {
		return nil, false, invalidInput("eventId and donorId are required")
	}
	if amount < 0 {
		return nil, false, invalidInput("amount must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a := &domain.EventAttendee{EventID: eventID, DonorID: donorID, Amount: amount}
	created, err := s.attendeeRepo.Upsert(ctx, a)
	if err != nil {
		return nil, false, storeErr("create event attendee", err)
	}
	return a, created, nil
}

// CreateEventAttendees invites every donor not yet attending the event and returns how many rows were added.
func (s *eventAttendeeService) CreateEventAttendees(ctx context.Context, eventID int64, donorIDs []int64) (int, error) {
	if eventID <= 0 {
		return 0, invalidInput("eventId is required")
	}
	for _, id := range donorIDs {
		if id <= 0 {
			return 0, invalidInput(fmt.Sprintf("donor id %d is invalid", id))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n := 0
	for _, donorID := range dedupeIDs(donorIDs) {
		created, err := s.attendeeRepo.Upsert(ctx, &domain.EventAttendee{EventID: eventID, DonorID: donorID})
		if err != nil {
			return n, storeErr(fmt.Sprintf("create event attendee for donor %d", donorID), err)
		}
		if created {
			n++
		}
	}
	return n, nil
}

func (s *eventAttendeeService) GetEventAttendees(ctx context.Context, filter domain.EventAttendeeFilter) ([]*domain.EventAttendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	attendees, err := s.attendeeRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list event attendees", err)
	}
	return attendees, nil
}

func (s *eventAttendeeService) PatchEventAttendeeAmount(ctx context.Context, id int64, amount float64) (*domain.EventAttendee, error) {
	if amount < 0 {
		return nil, invalidInput("amount must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.attendeeRepo.UpdateAmount(ctx, id, amount)
	if err != nil {
		return nil, storeErr("update event attendee", err)
	}
	return a, nil
}

func (s *eventAttendeeService) DeleteEventAttendee(ctx context.Context, id int64) (*domain.EventAttendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.attendeeRepo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr("delete event attendee", err)
	}
	return a, nil
}

func (s *eventAttendeeService) DeleteEventAttendeesByEventID(ctx context.Context, eventID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.attendeeRepo.DeleteByEventID(ctx, eventID)
	if err != nil {
		return 0, storeErr("delete event attendees", err)
	}
	return n, nil
}
