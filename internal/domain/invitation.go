package domain

import "context"

// Roster is a snapshot of an event's invitation state.
// swagger:model Roster
type Roster struct {
	EventID         int64    `json:"eventId"`
	FundraiserIDs   []int64  `json:"fundraiserIds"`
	Donors          []*Donor `json:"donors"`
	TotalDonors     int      `json:"totalDonors"`
	InvitedDonorIDs []int64  `json:"invitedDonorIds"`
	Progress        float64  `json:"progress"`
}

// RosterQuery shapes the donor list of a roster view.
type RosterQuery struct {
	Search     string
	SortByName bool
}

// InvitationToggle is the outcome of toggling a donor's invitation.
type InvitationToggle struct {
	EventID  int64   `json:"eventId"`
	DonorID  int64   `json:"donorId"`
	Invited  bool    `json:"invited"`
	Progress float64 `json:"progress"`
}

// InvitationService exposes invitation reconciliation to the delivery layer.
type InvitationService interface {
	GetRoster(ctx context.Context, eventID int64, q RosterQuery) (*Roster, error)
	ToggleInvitation(ctx context.Context, eventID, donorID int64) (*InvitationToggle, error)
}
