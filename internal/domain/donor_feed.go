package domain

import "context"

// FeedDonor is one donor record from the external donor feed.
type FeedDonor struct {
	FirstName string
	LastName  string
	// Fundraiser is the name of the donor's primary fundraiser (pmm).
	Fundraiser string
}

// Name returns the donor's display name as stored locally.
func (d FeedDonor) Name() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// DonorFeed reads the external donor and fundraiser lists.
type DonorFeed interface {
	FetchFundraisers(ctx context.Context) ([]string, error)
	FetchDonors(ctx context.Context, limit int) ([]FeedDonor, error)
}

// SeedResult summarizes a seeding run.
type SeedResult struct {
	FundraisersCreated int `json:"fundraisersCreated"`
	DonorsCreated      int `json:"donorsCreated"`
	DonorsSkipped      int `json:"donorsSkipped"`
}
