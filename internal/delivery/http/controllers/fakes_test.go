package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// serve runs handler on a request built from method, target and body, with optional path values.
func serve(handler http.HandlerFunc, method, target, body string, pathValues map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, r)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// decode unpacks the envelope; data is re-decoded into out when out is non-nil.
func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) *helpers.APIError {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if out != nil && envelope.Error == nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Error
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err           error
	events        []*domain.Event
	lastFilter    domain.EventFilter
	lastEvent     *domain.Event
	lastIDs       []int64
	lastPatch     domain.EventPatch
	lastPatchedID int64
}

func (f *fakeEventService) CreateEvent(_ context.Context, e *domain.Event) error {
	f.lastEvent = e
	return f.err
}

func (f *fakeEventService) CreateEventWithFundraisers(_ context.Context, e *domain.Event, ids []int64) (*domain.EventWithFundraisers, error) {
	f.lastEvent, f.lastIDs = e, ids
	if f.err != nil {
		return nil, f.err
	}
	e.ID = 1
	links := []*domain.EventFundraiser{}
	for i, id := range ids {
		links = append(links, &domain.EventFundraiser{ID: int64(i + 1), EventID: 1, FundraiserID: id})
	}
	return &domain.EventWithFundraisers{Event: e, Fundraisers: links}, nil
}

func (f *fakeEventService) GetEvents(_ context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	f.lastFilter = filter
	return f.events, f.err
}

func (f *fakeEventService) GetEventByID(_ context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: id}, nil
}

func (f *fakeEventService) PatchEvent(_ context.Context, id int64, p domain.EventPatch) (*domain.Event, error) {
	f.lastPatchedID, f.lastPatch = id, p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: id}, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: id}, nil
}

// fakeAttendeeService implements domain.EventAttendeeService for handler tests.
type fakeAttendeeService struct {
	err         error
	created     bool
	bulkCount   int
	lastAmount  float64
	lastIDs     []int64
	deletedByEv int64
}

func (f *fakeAttendeeService) CreateEventAttendee(_ context.Context, eventID, donorID int64, amount float64) (*domain.EventAttendee, bool, error) {
	f.lastAmount = amount
	if f.err != nil {
		return nil, false, f.err
	}
	return &domain.EventAttendee{ID: 9, EventID: eventID, DonorID: donorID, Amount: amount}, f.created, nil
}

func (f *fakeAttendeeService) CreateEventAttendees(_ context.Context, _ int64, donorIDs []int64) (int, error) {
	f.lastIDs = donorIDs
	return f.bulkCount, f.err
}

func (f *fakeAttendeeService) GetEventAttendees(context.Context, domain.EventAttendeeFilter) ([]*domain.EventAttendee, error) {
	return []*domain.EventAttendee{}, f.err
}

func (f *fakeAttendeeService) PatchEventAttendeeAmount(_ context.Context, id int64, amount float64) (*domain.EventAttendee, error) {
	f.lastAmount = amount
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventAttendee{ID: id, Amount: amount}, nil
}

func (f *fakeAttendeeService) DeleteEventAttendee(_ context.Context, id int64) (*domain.EventAttendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventAttendee{ID: id}, nil
}

func (f *fakeAttendeeService) DeleteEventAttendeesByEventID(_ context.Context, eventID int64) (int64, error) {
	f.deletedByEv = eventID
	return 3, f.err
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	err        error
	lastRole   domain.Role
	lastFilter domain.UserFilter
}

func (f *fakeUserService) CreateUser(_ context.Context, name string, role domain.Role, _ string) (*domain.User, error) {
	f.lastRole = role
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: 1, Name: name, Role: role, PasswordHash: "secret-hash"}, nil
}

func (f *fakeUserService) GetUsers(_ context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	f.lastFilter = filter
	return []*domain.User{}, f.err
}

func (f *fakeUserService) GetUserRole(_ context.Context, filter domain.UserFilter) (domain.Role, error) {
	f.lastFilter = filter
	return domain.RoleCoordinator, f.err
}

func (f *fakeUserService) PatchUser(_ context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	if p.Role != nil {
		f.lastRole = *p.Role
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: id}, nil
}

func (f *fakeUserService) DeleteUser(_ context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: id}, nil
}

func (f *fakeUserService) Login(_ context.Context, name, _ string) (string, *domain.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return "signed-token", &domain.User{ID: 1, Name: name, Role: domain.RoleFundraiser, PasswordHash: "secret-hash"}, nil
}

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	err       error
	lastQuery domain.RosterQuery
	invited   map[int64]bool
}

func (f *fakeInvitationService) GetRoster(_ context.Context, eventID int64, q domain.RosterQuery) (*domain.Roster, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Roster{EventID: eventID, FundraiserIDs: []int64{}, Donors: []*domain.Donor{}, InvitedDonorIDs: []int64{}}, nil
}

func (f *fakeInvitationService) ToggleInvitation(_ context.Context, eventID, donorID int64) (*domain.InvitationToggle, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.invited == nil {
		f.invited = map[int64]bool{}
	}
	f.invited[donorID] = !f.invited[donorID]
	return &domain.InvitationToggle{EventID: eventID, DonorID: donorID, Invited: f.invited[donorID]}, nil
}

// fakeTaskService implements domain.TaskService for handler tests.
type fakeTaskService struct {
	err        error
	lastStatus domain.TaskStatus
}

func (f *fakeTaskService) list(eventID int64) *domain.TaskList {
	return &domain.TaskList{EventID: eventID, Tasks: []*domain.Task{}}
}

func (f *fakeTaskService) GetTasks(_ context.Context, eventID int64) (*domain.TaskList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(eventID), nil
}

func (f *fakeTaskService) AddTask(_ context.Context, eventID int64, text string, status domain.TaskStatus) (*domain.Task, *domain.TaskList, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.Task{ID: 1, Text: text, Status: status}, f.list(eventID), nil
}

func (f *fakeTaskService) UpdateTaskStatus(_ context.Context, eventID, taskID int64, status domain.TaskStatus) (*domain.Task, *domain.TaskList, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.Task{ID: taskID, Status: status}, f.list(eventID), nil
}

func (f *fakeTaskService) DeleteTask(_ context.Context, eventID, _ int64) (*domain.TaskList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(eventID), nil
}
