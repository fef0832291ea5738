package services

import (
	"context"
	"time"

	"donorhub/internal/domain"
)

type eventFundraiserService struct {
	linkRepo       domain.EventFundraiserRepository
	contextTimeout time.Duration
}

func NewEventFundraiserService(linkRepo domain.EventFundraiserRepository, timeout time.Duration) domain.EventFundraiserService {
	return &eventFundraiserService{linkRepo: linkRepo, contextTimeout: timeoutOrDefault(timeout)}
}

func (s *eventFundraiserService) CreateEventFundraiser(ctx context.Context, eventID, fundraiserID int64) (*domain.EventFundraiser, error) {
	if eventID <= 0 || fundraiserID <= 0 {
		return nil, invalidInput("eventId and fundraiserId are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	link := &domain.EventFundraiser{EventID: eventID, FundraiserID: fundraiserID}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, storeErr("create event fundraiser", err)
	}
	return link, nil
}

func (s *eventFundraiserService) GetEventFundraisers(ctx context.Context, filter domain.EventFundraiserFilter) ([]*domain.EventFundraiser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	links, err := s.linkRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list event fundraisers", err)
	}
	return links, nil
}

func (s *eventFundraiserService) DeleteEventFundraiser(ctx context.Context, id int64) (*domain.EventFundraiser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	link, err := s.linkRepo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr("delete event fundraiser", err)
	}
	return link, nil
}
