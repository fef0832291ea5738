package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"donorhub/internal/domain"
)

// Seeder fills an empty database from the external donor feed.
type Seeder struct {
	feed      domain.DonorFeed
	userRepo  domain.UserRepository
	donorRepo domain.DonorRepository
	logger    *slog.Logger
	limit     int
}

func NewSeeder(feed domain.DonorFeed, userRepo domain.UserRepository, donorRepo domain.DonorRepository, logger *slog.Logger, limit int) *Seeder {
	return &Seeder{feed: feed, userRepo: userRepo, donorRepo: donorRepo, logger: logger, limit: limit}
}

// Run creates fundraisers when there are no users and donors when there are no donors.
// Donors are named "first last", deduplicated by name, and assigned to the fundraiser named
// in the feed row, falling back to the first fundraiser.
func (s *Seeder) Run(ctx context.Context) (*domain.SeedResult, error) {
	res := &domain.SeedResult{}

	created, err := s.seedFundraisers(ctx)
	if err != nil {
		return nil, err
	}
	res.FundraisersCreated = created

	if err := s.seedDonors(ctx, res); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "seeding finished",
		"fundraisers_created", res.FundraisersCreated,
		"donors_created", res.DonorsCreated,
		"donors_skipped", res.DonorsSkipped)
	return res, nil
}

func (s *Seeder) seedFundraisers(ctx context.Context) (int, error) {
	users, err := s.userRepo.List(ctx, domain.UserFilter{})
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		s.logger.InfoContext(ctx, "users present, skipping fundraisers", "count", len(users))
		return 0, nil
	}

	names, err := s.feed.FetchFundraisers(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch fundraisers: %w", err)
	}
	n := 0
	seen := map[string]struct{}{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		// Seeded accounts have no password and cannot log in until one is set.
		if err := s.userRepo.Create(ctx, &domain.User{Name: name, Role: domain.RoleFundraiser}); err != nil {
			if errors.Is(err, domain.ErrDuplicateUser) {
				continue
			}
			return n, fmt.Errorf("create fundraiser %q: %w", name, err)
		}
		n++
	}
	return n, nil
}

func (s *Seeder) seedDonors(ctx context.Context, res *domain.SeedResult) error {
	existing, err := s.donorRepo.List(ctx, domain.DonorFilter{})
	if err != nil {
		return fmt.Errorf("list donors: %w", err)
	}
	if len(existing) > 0 {
		s.logger.InfoContext(ctx, "donors present, skipping donors", "count", len(existing))
		return nil
	}

	role := domain.RoleFundraiser
	fundraisers, err := s.userRepo.List(ctx, domain.UserFilter{Role: &role})
	if err != nil {
		return fmt.Errorf("list fundraisers: %w", err)
	}
	byName := make(map[string]int64, len(fundraisers))
	var fallback *int64
	for _, f := range fundraisers {
		byName[f.Name] = f.ID
		if fallback == nil {
			id := f.ID
			fallback = &id
		}
	}

	rows, err := s.feed.FetchDonors(ctx, s.limit)
	if err != nil {
		return fmt.Errorf("fetch donors: %w", err)
	}

	seen := map[string]struct{}{}
	for _, row := range rows {
		name := row.Name()
		if _, ok := seen[name]; ok || name == "" {
			res.DonorsSkipped++
			continue
		}
		seen[name] = struct{}{}

		donor := &domain.Donor{Name: name, FundraiserID: fallback}
		if id, ok := byName[strings.TrimSpace(row.Fundraiser)]; ok {
			donor.FundraiserID = &id
		}
		if err := s.donorRepo.Create(ctx, donor); err != nil {
			if errors.Is(err, domain.ErrDuplicateDonor) {
				res.DonorsSkipped++
				continue
			}
			return fmt.Errorf("create donor %q: %w", name, err)
		}
		res.DonorsCreated++
	}
	return nil
}
