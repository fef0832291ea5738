package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"donorhub/internal/domain"
)

// EventCreationSaga creates an event and links fundraisers to it as one logical step.
// If any link fails, every link written so far and then the event itself are deleted.
type EventCreationSaga struct {
	events  domain.EventRepository
	links   domain.EventFundraiserRepository
	logger  *slog.Logger
	timeout time.Duration
}

func NewEventCreationSaga(events domain.EventRepository, links domain.EventFundraiserRepository, logger *slog.Logger, timeout time.Duration) *EventCreationSaga {
	return &EventCreationSaga{
		events:  events,
		links:   links,
		logger:  logger,
		timeout: timeoutOrDefault(timeout),
	}
}

// Run returns ErrEventCreationFailed when nothing was written, ErrEventCreationRolledBack when a
// link failed and the compensation succeeded, and ErrRollbackFailed when compensation itself failed.
func (s *EventCreationSaga) Run(ctx context.Context, event *domain.Event, fundraiserIDs []int64) (*domain.EventWithFundraisers, error) {
	problems := event.Validate()
	if len(fundraiserIDs) == 0 {
		problems = append(problems, "at least one fundraiser is required")
	}
	for _, id := range fundraiserIDs {
		if id <= 0 {
			problems = append(problems, fmt.Sprintf("fundraiser id %d is invalid", id))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrEventCreationFailed, invalidInput(problems...))
	}
	fundraiserIDs = dedupeIDs(fundraiserIDs)

	if err := s.call(ctx, func(ctx context.Context) error { return s.events.Create(ctx, event) }); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEventCreationFailed, storeErr("create event", err))
	}

	created := make([]*domain.EventFundraiser, 0, len(fundraiserIDs))
	for _, fundraiserID := range fundraiserIDs {
		link := &domain.EventFundraiser{EventID: event.ID, FundraiserID: fundraiserID}
		err := s.call(ctx, func(ctx context.Context) error { return s.links.Create(ctx, link) })
		if err == nil {
			created = append(created, link)
			continue
		}

		linkErr := storeErr(fmt.Sprintf("link fundraiser %d", fundraiserID), err)
		s.logger.WarnContext(ctx, "event creation step failed, rolling back",
			"event_id", event.ID, "fundraiser_id", fundraiserID, "links_created", len(created), "err", err)

		if compErr := s.compensate(ctx, event.ID, created); compErr != nil {
			s.logger.ErrorContext(ctx, "event creation rollback failed, manual cleanup required",
				"event_id", event.ID, "err", compErr)
			return nil, fmt.Errorf("%w: %w: %w", domain.ErrRollbackFailed, linkErr, compErr)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEventCreationRolledBack, linkErr)
	}

	return &domain.EventWithFundraisers{Event: event, Fundraisers: created}, nil
}

// compensate deletes the created links newest first, then the event. It keeps going past
// individual failures so as much as possible is undone. Rows already gone count as undone.
// Compensation is detached from the caller's cancellation.
func (s *EventCreationSaga) compensate(ctx context.Context, eventID int64, created []*domain.EventFundraiser) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error

	for i := len(created) - 1; i >= 0; i-- {
		link := created[i]
		err := s.call(ctx, func(ctx context.Context) error {
			_, err := s.links.Delete(ctx, link.ID)
			return err
		})
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, storeErr(fmt.Sprintf("delete link %d", link.ID), err))
		}
	}

	err := s.call(ctx, func(ctx context.Context) error {
		_, err := s.events.Delete(ctx, eventID)
		return err
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		errs = append(errs, storeErr(fmt.Sprintf("delete event %d", eventID), err))
	}
	return errors.Join(errs...)
}

func (s *EventCreationSaga) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}
