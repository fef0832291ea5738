package services

import (
	"context"
	"log/slog"
	"time"

	"donorhub/internal/domain"
)

type invitationService struct {
	eventRepo      domain.EventRepository
	linkRepo       domain.EventFundraiserRepository
	donorRepo      domain.DonorRepository
	attendeeRepo   domain.EventAttendeeRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewInvitationService serves each request from a fresh InvitationReconciler.
func NewInvitationService(eventRepo domain.EventRepository,
	linkRepo domain.EventFundraiserRepository,
	donorRepo domain.DonorRepository,
	attendeeRepo domain.EventAttendeeRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		eventRepo:      eventRepo,
		linkRepo:       linkRepo,
		donorRepo:      donorRepo,
		attendeeRepo:   attendeeRepo,
		logger:         logger,
		contextTimeout: timeoutOrDefault(timeout),
	}
}

func (s *invitationService) reconciler() *InvitationReconciler {
	return NewInvitationReconciler(s.linkRepo, s.donorRepo, s.attendeeRepo, s.logger, s.contextTimeout)
}

func (s *invitationService) requireEvent(ctx context.Context, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return storeErr("get event", err)
	}
	return nil
}

func (s *invitationService) GetRoster(ctx context.Context, eventID int64, q domain.RosterQuery) (*domain.Roster, error) {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	r := s.reconciler()
	r.LoadRoster(ctx, eventID)
	r.LoadInvited(ctx, eventID)
	r.Search(q.Search)
	if q.SortByName {
		r.SortByName()
	}

	return &domain.Roster{
		EventID:         eventID,
		FundraiserIDs:   r.FundraiserIDs(),
		Donors:          r.Donors(),
		TotalDonors:     len(r.BackupDonors()),
		InvitedDonorIDs: r.InvitedDonorIDs(),
		Progress:        r.Progress(),
	}, nil
}

func (s *invitationService) ToggleInvitation(ctx context.Context, eventID, donorID int64) (*domain.InvitationToggle, error) {
	if donorID <= 0 {
		return nil, invalidInput("donorId is required")
	}
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	r := s.reconciler()
	if err := r.loadRoster(ctx, eventID); err != nil {
		return nil, err
	}
	if !r.OnRoster(donorID) {
		return nil, invalidInput("donor is not on the event roster")
	}
	r.LoadInvited(ctx, eventID)
	invited, err := r.Toggle(ctx, eventID, donorID)
	if err != nil {
		return nil, err
	}
	return &domain.InvitationToggle{
		EventID:  eventID,
		DonorID:  donorID,
		Invited:  invited,
		Progress: r.Progress(),
	}, nil
}
