package domain

import "context"

// Donor is a person solicited for donations, assigned to one fundraiser.
// swagger:model Donor
type Donor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FundraiserID *int64 `json:"fundraiserId"`
}

// DonorFilter selects donors. A set ID short-circuits the other fields.
type DonorFilter struct {
	ID           *int64
	Name         *string
	FundraiserID *int64
}

// DonorPatch holds the donor fields to change.
type DonorPatch struct {
	Name         *string
	FundraiserID *int64
}

// DonorRepository defines storage operations for donors.
type DonorRepository interface {
	// Create inserts the donor. Returns ErrDuplicateDonor if the name is taken.
	Create(ctx context.Context, donor *Donor) error
	List(ctx context.Context, filter DonorFilter) ([]*Donor, error)
	// ExistingNames returns the subset of names already stored.
	ExistingNames(ctx context.Context, names []string) ([]string, error)
	Update(ctx context.Context, id int64, patch DonorPatch) (*Donor, error)
	Delete(ctx context.Context, id int64) (*Donor, error)
}

// DonorService defines donor operations.
type DonorService interface {
	CreateDonor(ctx context.Context, donor *Donor) error
	// CreateDonors inserts the donors whose names are not stored yet and returns how many were created.
	CreateDonors(ctx context.Context, donors []*Donor) (int, error)
	GetDonors(ctx context.Context, filter DonorFilter) ([]*Donor, error)
	PatchDonor(ctx context.Context, id int64, patch DonorPatch) (*Donor, error)
	DeleteDonor(ctx context.Context, id int64) (*Donor, error)
}
