package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"donorhub/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var errStore = errors.New("store unavailable")

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.Event
	createErr error
	deleteErr error
	deleted   []int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: map[int64]*domain.Event{}}
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) List(_ context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range f.byID {
		if filter.ID != nil && e.ID != *filter.ID {
			continue
		}
		if filter.ID == nil && filter.City != nil && e.City != *filter.City {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, id int64, p domain.EventPatch) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Goal != nil {
		e.Goal = *p.Goal
	}
	if p.Completed != nil {
		e.Completed = *p.Completed
	}
	if p.City != nil {
		e.City = *p.City
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return e, nil
}

// fakeLinkRepo implements domain.EventFundraiserRepository for tests.
type fakeLinkRepo struct {
	mu        sync.Mutex
	nextID    int64
	links     map[int64]*domain.EventFundraiser
	failFor   map[int64]error
	deleteErr error
	listErr   error
	deleted   []int64
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[int64]*domain.EventFundraiser{}, failFor: map[int64]error{}}
}

func (f *fakeLinkRepo) Create(_ context.Context, l *domain.EventFundraiser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[l.FundraiserID]; ok {
		return err
	}
	for _, existing := range f.links {
		if existing.EventID == l.EventID && existing.FundraiserID == l.FundraiserID {
			return domain.ErrDuplicateLink
		}
	}
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.links[l.ID] = &cp
	return nil
}

func (f *fakeLinkRepo) List(_ context.Context, filter domain.EventFundraiserFilter) ([]*domain.EventFundraiser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*domain.EventFundraiser{}
	for _, l := range f.links {
		if filter.EventID != nil && l.EventID != *filter.EventID {
			continue
		}
		if filter.FundraiserID != nil && l.FundraiserID != *filter.FundraiserID {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLinkRepo) Delete(_ context.Context, id int64) (*domain.EventFundraiser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	l, ok := f.links[id]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	delete(f.links, id)
	f.deleted = append(f.deleted, id)
	return l, nil
}

func (f *fakeLinkRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.links)
}

// fakeDonorRepo implements domain.DonorRepository for tests.
type fakeDonorRepo struct {
	mu      sync.Mutex
	nextID  int64
	donors  []*domain.Donor
	listErr error
}

func (f *fakeDonorRepo) add(name string, fundraiserID int64) *domain.Donor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d := &domain.Donor{ID: f.nextID, Name: name, FundraiserID: &fundraiserID}
	f.donors = append(f.donors, d)
	return d
}

func (f *fakeDonorRepo) Create(_ context.Context, d *domain.Donor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.donors {
		if existing.Name == d.Name {
			return domain.ErrDuplicateDonor
		}
	}
	f.nextID++
	d.ID = f.nextID
	cp := *d
	f.donors = append(f.donors, &cp)
	return nil
}

func (f *fakeDonorRepo) List(_ context.Context, filter domain.DonorFilter) ([]*domain.Donor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*domain.Donor{}
	for _, d := range f.donors {
		if filter.ID != nil && d.ID != *filter.ID {
			continue
		}
		if filter.FundraiserID != nil && (d.FundraiserID == nil || *d.FundraiserID != *filter.FundraiserID) {
			continue
		}
		if filter.Name != nil && d.Name != *filter.Name {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDonorRepo) ExistingNames(_ context.Context, names []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	for _, n := range names {
		for _, d := range f.donors {
			if d.Name == n {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDonorRepo) Update(_ context.Context, id int64, p domain.DonorPatch) (*domain.Donor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.donors {
		if d.ID == id {
			if p.Name != nil {
				d.Name = *p.Name
			}
			if p.FundraiserID != nil {
				d.FundraiserID = p.FundraiserID
			}
			return d, nil
		}
	}
	return nil, domain.ErrDonorNotFound
}

func (f *fakeDonorRepo) Delete(_ context.Context, id int64) (*domain.Donor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.donors {
		if d.ID == id {
			f.donors = append(f.donors[:i], f.donors[i+1:]...)
			return d, nil
		}
	}
	return nil, domain.ErrDonorNotFound
}

type attendeeKey struct{ eventID, donorID int64 }

// fakeAttendeeRepo implements domain.EventAttendeeRepository with the (event, donor) uniqueness of the real table.
type fakeAttendeeRepo struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[attendeeKey]*domain.EventAttendee
	upsertErr error
	deleteErr error
	listErr   error
	listHook  func()
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{rows: map[attendeeKey]*domain.EventAttendee{}}
}

func (f *fakeAttendeeRepo) Upsert(_ context.Context, a *domain.EventAttendee) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	k := attendeeKey{a.EventID, a.DonorID}
	if existing, ok := f.rows[k]; ok {
		*a = *existing
		return false, nil
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.rows[k] = &cp
	return true, nil
}

func (f *fakeAttendeeRepo) List(_ context.Context, filter domain.EventAttendeeFilter) ([]*domain.EventAttendee, error) {
	if f.listHook != nil {
		f.listHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*domain.EventAttendee{}
	for _, a := range f.rows {
		if filter.EventID != nil && a.EventID != *filter.EventID {
			continue
		}
		if filter.DonorID != nil && a.DonorID != *filter.DonorID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttendeeRepo) UpdateAmount(_ context.Context, id int64, amount float64) (*domain.EventAttendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.ID == id {
			a.Amount = amount
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAttendeeNotFound
}

func (f *fakeAttendeeRepo) Delete(_ context.Context, id int64) (*domain.EventAttendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, a := range f.rows {
		if a.ID == id {
			delete(f.rows, k)
			return a, nil
		}
	}
	return nil, domain.ErrAttendeeNotFound
}

func (f *fakeAttendeeRepo) DeleteByEventAndDonor(_ context.Context, eventID, donorID int64) (*domain.EventAttendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	k := attendeeKey{eventID, donorID}
	a, ok := f.rows[k]
	if !ok {
		return nil, domain.ErrAttendeeNotFound
	}
	delete(f.rows, k)
	return a, nil
}

func (f *fakeAttendeeRepo) DeleteByEventID(_ context.Context, eventID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k := range f.rows {
		if k.eventID == eventID {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeAttendeeRepo) count(eventID, donorID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[attendeeKey{eventID, donorID}]; ok {
		return 1
	}
	return 0
}

// fakeTaskRepo implements domain.TaskRepository with per-event monotonic counters.
type fakeTaskRepo struct {
	mu      sync.Mutex
	events  map[int64]bool
	lists   map[int64][]*domain.Task
	next    map[int64]int64
	addErr  error
	listErr error
	writes  []int64
}

func newFakeTaskRepo(eventIDs ...int64) *fakeTaskRepo {
	f := &fakeTaskRepo{events: map[int64]bool{}, lists: map[int64][]*domain.Task{}, next: map[int64]int64{}}
	for _, id := range eventIDs {
		f.events[id] = true
	}
	return f
}

func (f *fakeTaskRepo) EnsureList(_ context.Context, eventID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.events[eventID] {
		return domain.ErrEventNotFound
	}
	if _, ok := f.lists[eventID]; !ok {
		f.lists[eventID] = []*domain.Task{}
		f.next[eventID] = 1
	}
	return nil
}

func (f *fakeTaskRepo) ListByEventID(_ context.Context, eventID int64) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	tasks, ok := f.lists[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTaskRepo) Add(_ context.Context, eventID int64, text string, status domain.TaskStatus) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	if _, ok := f.lists[eventID]; !ok {
		return nil, domain.ErrEventNotFound
	}
	id := f.next[eventID]
	f.next[eventID] = id + 1
	t := &domain.Task{ID: id, Text: text, Status: status}
	f.lists[eventID] = append(f.lists[eventID], t)
	f.writes = append(f.writes, eventID)
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) UpdateStatus(_ context.Context, eventID, taskID int64, status domain.TaskStatus) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.lists[eventID] {
		if t.ID == taskID {
			t.Status = status
			f.writes = append(f.writes, eventID)
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (f *fakeTaskRepo) Delete(_ context.Context, eventID, taskID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.lists[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	kept := []*domain.Task{}
	for _, t := range tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	f.lists[eventID] = kept
	f.writes = append(f.writes, eventID)
	return nil
}

// fakeTaskCache implements domain.TaskCache for tests.
type fakeTaskCache struct {
	mu     sync.Mutex
	data   map[int64][]*domain.Task
	getErr error
	setErr error
	sets   int

	// gate, when set, blocks the next Set after signalling entered.
	gate    chan struct{}
	entered chan struct{}
}

func newFakeTaskCache() *fakeTaskCache {
	return &fakeTaskCache{data: map[int64][]*domain.Task{}}
}

func (f *fakeTaskCache) Get(_ context.Context, eventID int64) ([]*domain.Task, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	tasks, ok := f.data[eventID]
	return tasks, ok, nil
}

func (f *fakeTaskCache) Set(_ context.Context, eventID int64, tasks []*domain.Task) error {
	f.mu.Lock()
	if gate := f.gate; gate != nil {
		f.gate = nil
		f.mu.Unlock()
		f.entered <- struct{}{}
		<-gate
		f.mu.Lock()
	}
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	cp := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		c := *t
		cp = append(cp, &c)
	}
	f.data[eventID] = cp
	return nil
}

func (f *fakeTaskCache) Delete(_ context.Context, eventID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, eventID)
	return nil
}

func (f *fakeTaskCache) cached(eventID int64) ([]*domain.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks, ok := f.data[eventID]
	return tasks, ok
}

// dropEvent removes the event and its task list, as the schema's cascade does.
func (f *fakeTaskRepo) dropEvent(eventID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, eventID)
	delete(f.lists, eventID)
	delete(f.next, eventID)
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []*domain.User
	err    error
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.users {
		if existing.Name == u.Name {
			return domain.ErrDuplicateUser
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.User{}
	for _, u := range f.users {
		if filter.ID != nil && u.ID != *filter.ID {
			continue
		}
		if filter.Name != nil && u.Name != *filter.Name {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			if p.Name != nil {
				u.Name = *p.Name
			}
			if p.Role != nil {
				u.Role = *p.Role
			}
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) { return "hash-" + password, nil }
func (fakePasswordHasher) Compare(hash, password string) error {
	if hash != "hash-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID int64, name string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + name, nil
}

// slowEventRepo blocks reads until the caller's deadline passes.
type slowEventRepo struct {
	*fakeEventRepo
}

func (s slowEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
