package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventController_CreateEvent(t *testing.T) {
	const gala = `{"title":"Gala","topic":"Health","date":"2024-12-01","city":"Vancouver","goal":1000`

	tests := []struct {
		name         string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
		wantIDs      []int64
	}{
		{
			name:       "plain create",
			body:       gala + `}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "create with fundraisers",
			body:       gala + `,"fundraiserIds":[7]}`,
			wantStatus: http.StatusOK,
			wantIDs:    []int64{7},
		},
		{
			name:         "goal missing",
			body:         `{"title":"Gala","topic":"Health","date":"2024-12-01","city":"VANCOUVER"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "bad date",
			body:         `{"title":"Gala","topic":"Health","date":"12/01/2024","city":"VANCOUVER","goal":1}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown field",
			body:         gala + `,"owner":"x"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "rolled back",
			body:         gala + `,"fundraiserIds":[7,8]}`,
			fakeErr:      fmt.Errorf("%w: link fundraiser 8: %w", domain.ErrEventCreationRolledBack, domain.ErrUserNotFound),
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeRolledBack,
		},
		{
			name:         "rollback failed",
			body:         gala + `,"fundraiserIds":[7,8]}`,
			fakeErr:      fmt.Errorf("%w: %w", domain.ErrRollbackFailed, assert.AnError),
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeRollbackFailed,
		},
		{
			name:         "timeout",
			body:         gala + `}`,
			fakeErr:      fmt.Errorf("%w: create event: %w", domain.ErrEventCreationFailed, domain.ErrTimeout),
			wantStatus:   http.StatusGatewayTimeout,
			wantBodyCode: helpers.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake)

			rr := serve(ctrl.CreateEvent, http.MethodPost, "/event", tt.body, nil)

			require.Equal(t, tt.wantStatus, rr.Code)
			var created domain.EventWithFundraisers
			apiErr := decode(t, rr, &created)
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, domain.CityVancouver, fake.lastEvent.City)
			assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), fake.lastEvent.Date)
			assert.Equal(t, 1000.0, fake.lastEvent.Goal)
			assert.Equal(t, tt.wantIDs, fake.lastIDs)
			assert.Len(t, created.Fundraisers, len(tt.wantIDs))
		})
	}
}

func TestEventController_ListEvents(t *testing.T) {
	fake := &fakeEventService{events: []*domain.Event{{ID: 1, Title: "Gala", Goal: 400, Completed: 100}}}
	ctrl := NewEventController(testLogger(), fake)

	rr := serve(ctrl.ListEvents, http.MethodGet, "/event?city=campbell+river&date=2024-12-01&title=Gala", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var events []struct {
		ID           int64   `json:"id"`
		GoalProgress float64 `json:"goalProgress"`
	}
	require.Nil(t, decode(t, rr, &events))
	require.Len(t, events, 1)
	assert.Equal(t, 25.0, events[0].GoalProgress)
	require.NotNil(t, fake.lastFilter.City)
	assert.Equal(t, domain.CityCampbellRiver, *fake.lastFilter.City)
	assert.Equal(t, "Gala", *fake.lastFilter.Title)
	assert.Nil(t, fake.lastFilter.ID)

	rr = serve(ctrl.ListEvents, http.MethodGet, "/event?id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	fake.err = fmt.Errorf("list events: %w", domain.ErrTimeout)
	rr = serve(ctrl.ListEvents, http.MethodGet, "/event", "", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}

func TestEventController_PatchEvent(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{"success", "/event?id=4", `{"completed":250,"city":"nanaimo"}`, nil, http.StatusOK, ""},
		{"missing id", "/event", `{"completed":250}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"bad city", "/event?id=4", `{"city":"Atlantis"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"not found is a 400", "/event?id=4", `{"goal":5}`, domain.ErrEventNotFound, http.StatusBadRequest, helpers.ErrCodeNotFound},
		{"store failure", "/event?id=4", `{"goal":5}`, assert.AnError, http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake)

			rr := serve(ctrl.PatchEvent, http.MethodPatch, tt.target, tt.body, nil)

			require.Equal(t, tt.wantStatus, rr.Code)
			apiErr := decode(t, rr, nil)
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
				return
			}
			assert.Equal(t, int64(4), fake.lastPatchedID)
			require.NotNil(t, fake.lastPatch.Completed)
			assert.Equal(t, 250.0, *fake.lastPatch.Completed)
			assert.Equal(t, domain.CityNanaimo, *fake.lastPatch.City)
			assert.Nil(t, fake.lastPatch.Title)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	fake := &fakeEventService{}
	ctrl := NewEventController(testLogger(), fake)

	rr := serve(ctrl.DeleteEvent, http.MethodDelete, "/event?id=5", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var deleted domain.Event
	require.Nil(t, decode(t, rr, &deleted))
	assert.Equal(t, int64(5), deleted.ID)

	fake.err = domain.ErrEventNotFound
	rr = serve(ctrl.DeleteEvent, http.MethodDelete, "/event?id=5", "", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decode(t, rr, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
}
