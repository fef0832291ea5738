package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"donorhub/internal/domain"
)

type donorService struct {
	donorRepo      domain.DonorRepository
	contextTimeout time.Duration
}

func NewDonorService(donorRepo domain.DonorRepository, timeout time.Duration) domain.DonorService {
	return &donorService{donorRepo: donorRepo, contextTimeout: timeoutOrDefault(timeout)}
}

func (s *donorService) CreateDonor(ctx context.Context, donor *domain.Donor) error {
	donor.Name = strings.TrimSpace(donor.Name)
	if donor.Name == "" {
		return invalidInput("name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.donorRepo.Create(ctx, donor); err != nil {
		return storeErr("create donor", err)
	}
	return nil
}

// CreateDonors skips blank names, names repeated in the batch and names already stored.
func (s *donorService) CreateDonors(ctx context.Context, donors []*domain.Donor) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seen := make(map[string]struct{}, len(donors))
	batch := make([]*domain.Donor, 0, len(donors))
	names := make([]string, 0, len(donors))
	for _, d := range donors {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		batch = append(batch, d)
		names = append(names, d.Name)
	}

	existing, err := s.donorRepo.ExistingNames(ctx, names)
	if err != nil {
		return 0, storeErr("check donor names", err)
	}
	stored := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		stored[name] = struct{}{}
	}

	n := 0
	for _, d := range batch {
		if _, ok := stored[d.Name]; ok {
			continue
		}
		if err := s.donorRepo.Create(ctx, d); err != nil {
			// Lost a race with another writer; the name is taken now.
			if errors.Is(err, domain.ErrDuplicateDonor) {
				continue
			}
			return n, storeErr("create donor", err)
		}
		n++
	}
	return n, nil
}

func (s *donorService) GetDonors(ctx context.Context, filter domain.DonorFilter) ([]*domain.Donor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	donors, err := s.donorRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list donors", err)
	}
	return donors, nil
}

func (s *donorService) PatchDonor(ctx context.Context, id int64, patch domain.DonorPatch) (*domain.Donor, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidInput("name must not be empty")
		}
		patch.Name = &name
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	donor, err := s.donorRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update donor", err)
	}
	return donor, nil
}

func (s *donorService) DeleteDonor(ctx context.Context, id int64) (*domain.Donor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	donor, err := s.donorRepo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr("delete donor", err)
	}
	return donor, nil
}
