package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"donorhub/internal/domain"
)

// InvitationReconciler tracks one event's donor roster (reached through the event's fundraisers)
// and the subset of it that is invited.
//
// Loads fail soft and leave empty state behind. Each load is tagged with a generation number,
// and a result that finishes after a newer load or a confirmed toggle is dropped.
// Toggles change local state only after the store accepted the write.
type InvitationReconciler struct {
	links     domain.EventFundraiserRepository
	donors    domain.DonorRepository
	attendees domain.EventAttendeeRepository
	logger    *slog.Logger
	timeout   time.Duration

	mu            sync.Mutex
	collator      *collate.Collator
	eventID       int64
	fundraiserIDs []int64
	view          []*domain.Donor
	backup        []*domain.Donor
	invited       map[int64]struct{}
	invitedLoaded bool
	progress      float64
	rosterGen     uint64
	invitedGen    uint64
}

func NewInvitationReconciler(links domain.EventFundraiserRepository, donors domain.DonorRepository, attendees domain.EventAttendeeRepository, logger *slog.Logger, timeout time.Duration) *InvitationReconciler {
	return &InvitationReconciler{
		links:     links,
		donors:    donors,
		attendees: attendees,
		logger:    logger,
		timeout:   timeoutOrDefault(timeout),
		collator:  collate.New(language.English, collate.IgnoreCase),
		view:      []*domain.Donor{},
		backup:    []*domain.Donor{},
		invited:   map[int64]struct{}{},
	}
}

// LoadRoster resolves the event's fundraisers and concatenates their donors into the roster.
func (r *InvitationReconciler) LoadRoster(ctx context.Context, eventID int64) {
	if err := r.loadRoster(ctx, eventID); err != nil {
		r.logger.WarnContext(ctx, "load roster failed", "event_id", eventID, "err", err)
	}
}

// loadRoster is LoadRoster reporting the store error; the roster is left empty on failure.
func (r *InvitationReconciler) loadRoster(ctx context.Context, eventID int64) error {
	r.mu.Lock()
	r.rosterGen++
	gen := r.rosterGen
	r.mu.Unlock()

	fundraiserIDs, donors, err := r.fetchRoster(ctx, eventID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.rosterGen {
		return nil
	}
	if err != nil {
		fundraiserIDs, donors = []int64{}, []*domain.Donor{}
	}
	r.switchEventLocked(eventID)
	r.fundraiserIDs = fundraiserIDs
	r.backup = donors
	r.view = append([]*domain.Donor(nil), donors...)
	r.recomputeLocked()
	return err
}

func (r *InvitationReconciler) fetchRoster(ctx context.Context, eventID int64) ([]int64, []*domain.Donor, error) {
	var links []*domain.EventFundraiser
	err := r.call(ctx, func(ctx context.Context) (err error) {
		links, err = r.links.List(ctx, domain.EventFundraiserFilter{EventID: &eventID})
		return err
	})
	if err != nil {
		return nil, nil, storeErr("list event fundraisers", err)
	}

	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.FundraiserID)
	}
	ids = dedupeIDs(ids)

	roster := []*domain.Donor{}
	for _, fundraiserID := range ids {
		var donors []*domain.Donor
		err := r.call(ctx, func(ctx context.Context) (err error) {
			donors, err = r.donors.List(ctx, domain.DonorFilter{FundraiserID: &fundraiserID})
			return err
		})
		if err != nil {
			return nil, nil, storeErr("list donors", err)
		}
		roster = append(roster, donors...)
	}
	return ids, roster, nil
}

// LoadInvited replaces the invited set with the event's attendee rows.
func (r *InvitationReconciler) LoadInvited(ctx context.Context, eventID int64) {
	r.mu.Lock()
	r.invitedGen++
	gen := r.invitedGen
	r.mu.Unlock()

	var rows []*domain.EventAttendee
	err := r.call(ctx, func(ctx context.Context) (err error) {
		rows, err = r.attendees.List(ctx, domain.EventAttendeeFilter{EventID: &eventID})
		return err
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.invitedGen {
		return
	}
	invited := make(map[int64]struct{}, len(rows))
	if err != nil {
		r.logger.WarnContext(ctx, "load invited donors failed", "event_id", eventID, "err", storeErr("list event attendees", err))
	} else {
		for _, a := range rows {
			if a != nil && a.EventID == eventID {
				invited[a.DonorID] = struct{}{}
			}
		}
	}
	r.switchEventLocked(eventID)
	r.invited = invited
	r.invitedLoaded = true
	r.recomputeLocked()
}

// Toggle invites the donor if not invited and uninvites otherwise, returning the new membership.
// Failures leave the state unchanged.
func (r *InvitationReconciler) Toggle(ctx context.Context, eventID, donorID int64) (bool, error) {
	r.mu.Lock()
	fresh := r.eventID == eventID && r.invitedLoaded
	r.mu.Unlock()
	if !fresh {
		r.LoadInvited(ctx, eventID)
	}

	r.mu.Lock()
	_, wasInvited := r.invited[donorID]
	r.mu.Unlock()

	var err error
	if wasInvited {
		err = r.call(ctx, func(ctx context.Context) error {
			_, err := r.attendees.DeleteByEventAndDonor(ctx, eventID, donorID)
			return err
		})
		// Already gone is the outcome we wanted.
		if errors.Is(err, domain.ErrNotFound) {
			err = nil
		}
		if err != nil {
			return true, storeErr("uninvite donor", err)
		}
	} else {
		err = r.call(ctx, func(ctx context.Context) error {
			_, err := r.attendees.Upsert(ctx, &domain.EventAttendee{EventID: eventID, DonorID: donorID, Amount: 0})
			return err
		})
		if err != nil {
			return false, storeErr("invite donor", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.eventID == eventID {
		// Any load still in flight started before this write and would undo it.
		r.invitedGen++
		if wasInvited {
			delete(r.invited, donorID)
		} else {
			r.invited[donorID] = struct{}{}
		}
		r.recomputeLocked()
	}
	return !wasInvited, nil
}

// SortByName stable-sorts the current view by name, case-insensitively and locale-aware.
func (r *InvitationReconciler) SortByName() {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.SliceStable(r.view, func(i, j int) bool {
		return r.collator.CompareString(r.view[i].Name, r.view[j].Name) < 0
	})
}

// Search filters the unfiltered roster by case-insensitive substring. Only the empty query
// resets the view; whitespace is matched like any other character.
func (r *InvitationReconciler) Search(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query = strings.ToLower(query)
	if query == "" {
		r.view = append([]*domain.Donor(nil), r.backup...)
		return
	}
	view := make([]*domain.Donor, 0, len(r.backup))
	for _, d := range r.backup {
		if strings.Contains(strings.ToLower(d.Name), query) {
			view = append(view, d)
		}
	}
	r.view = view
}

// Progress is the invited share of the roster in percent, 0 for an empty roster.
func (r *InvitationReconciler) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

func (r *InvitationReconciler) Donors() []*domain.Donor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Donor{}, r.view...)
}

func (r *InvitationReconciler) BackupDonors() []*domain.Donor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Donor{}, r.backup...)
}

func (r *InvitationReconciler) FundraiserIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64{}, r.fundraiserIDs...)
}

// InvitedDonorIDs returns the invited set in ascending order.
func (r *InvitationReconciler) InvitedDonorIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.invited))
	for id := range r.invited {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OnRoster reports whether the donor belongs to the loaded roster.
func (r *InvitationReconciler) OnRoster(donorID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.backup {
		if d.ID == donorID {
			return true
		}
	}
	return false
}

func (r *InvitationReconciler) IsInvited(donorID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.invited[donorID]
	return ok
}

// switchEventLocked drops the state of a previously loaded event.
func (r *InvitationReconciler) switchEventLocked(eventID int64) {
	if r.eventID == eventID {
		return
	}
	r.eventID = eventID
	r.fundraiserIDs = []int64{}
	r.view = []*domain.Donor{}
	r.backup = []*domain.Donor{}
	r.invited = map[int64]struct{}{}
	r.invitedLoaded = false
}

func (r *InvitationReconciler) recomputeLocked() {
	if len(r.backup) == 0 {
		r.progress = 0
		return
	}
	r.progress = float64(len(r.invited)) * 100 / float64(len(r.backup))
}

func (r *InvitationReconciler) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return fn(ctx)
}
