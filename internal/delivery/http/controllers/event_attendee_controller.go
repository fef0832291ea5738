package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

// CreateEventAttendeeRequest is the request body for POST /event-attendee.
// Either donorId (one row, optional amount) or donorIds (bulk invite) is set.
type CreateEventAttendeeRequest struct {
	EventID  int64    `json:"eventId"`
	DonorID  int64    `json:"donorId"`
	DonorIDs []int64  `json:"donorIds"`
	Amount   *float64 `json:"amount"`
}

// Validate implements Validator.
func (c CreateEventAttendeeRequest) Validate() []string {
	var errs []string
	if c.EventID <= 0 {
		errs = append(errs, "eventId is required")
	}
	switch {
	case c.DonorID > 0 && len(c.DonorIDs) > 0:
		errs = append(errs, "set donorId or donorIds, not both")
	case c.DonorID <= 0 && len(c.DonorIDs) == 0:
		errs = append(errs, "donorId or donorIds is required")
	case len(c.DonorIDs) > 0 && c.Amount != nil:
		errs = append(errs, "amount applies to a single donorId only")
	}
	if c.Amount != nil && *c.Amount < 0 {
		errs = append(errs, "amount must not be negative")
	}
	return errs
}

// PatchEventAttendeeRequest is the request body for PATCH /event-attendee?id=.
type PatchEventAttendeeRequest struct {
	Amount *float64 `json:"amount"`
}

// Validate implements Validator.
func (p PatchEventAttendeeRequest) Validate() []string {
	if p.Amount == nil {
		return []string{"amount is required"}
	}
	if *p.Amount < 0 {
		return []string{"amount must not be negative"}
	}
	return nil
}

// CreateEventAttendeeResponse is the data payload for a single-donor POST /event-attendee.
// Created is false when the donor was already attending; Attendee is then the existing row.
type CreateEventAttendeeResponse struct {
	Attendee *domain.EventAttendee `json:"attendee"`
	Created  bool                  `json:"created"`
}

// CountResponse reports how many rows a bulk operation touched.
type CountResponse struct {
	Count int64 `json:"count"`
}

type EventAttendeeController struct {
	Logger  *slog.Logger
	Service domain.EventAttendeeService
}

func NewEventAttendeeController(logger *slog.Logger, svc domain.EventAttendeeService) *EventAttendeeController {
	return &EventAttendeeController{Logger: logger, Service: svc}
}

// ListEventAttendees godoc
// @Summary List event attendees
// @Tags event-attendees
// @Produce json
// @Param id query int false "Attendee row ID"
// @Param eventId query int false "Event ID"
// @Param donorId query int false "Donor ID"
// @Success 200 {object} helpers.APIResponse{data=[]domain.EventAttendee}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /event-attendee [get]
func (c *EventAttendeeController) ListEventAttendees(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := domain.EventAttendeeFilter{
		ID:      q.Int64("id"),
		EventID: q.Int64("eventId"),
		DonorID: q.Int64("donorId"),
	}
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	attendees, err := c.Service.GetEventAttendees(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendees)
}

// CreateEventAttendee godoc
// @Summary Invite donors to an event
// @Description With donorId, upserts one row and returns it. With donorIds, invites every donor not yet attending and returns how many were added.
// @Tags event-attendees
// @Accept json
// @Produce json
// @Param body body CreateEventAttendeeRequest true "Invitation"
// @Success 200 {object} helpers.APIResponse{data=controllers.CreateEventAttendeeResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event-attendee [post]
func (c *EventAttendeeController) CreateEventAttendee(w http.ResponseWriter, r *http.Request) {
	var req CreateEventAttendeeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if len(req.DonorIDs) > 0 {
		n, err := c.Service.CreateEventAttendees(r.Context(), req.EventID, req.DonorIDs)
		if err != nil {
			helpers.WriteServiceError(w, r, c.Logger, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, CountResponse{Count: int64(n)})
		return
	}
	var amount float64
	if req.Amount != nil {
		amount = *req.Amount
	}
	a, created, err := c.Service.CreateEventAttendee(r.Context(), req.EventID, req.DonorID, amount)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CreateEventAttendeeResponse{Attendee: a, Created: created})
}

// PatchEventAttendee godoc
// @Summary Set an attendee's donation amount
// @Tags event-attendees
// @Accept json
// @Produce json
// @Param id query int true "Attendee row ID"
// @Param body body PatchEventAttendeeRequest true "Amount"
// @Success 200 {object} helpers.APIResponse{data=domain.EventAttendee}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event-attendee [patch]
func (c *EventAttendeeController) PatchEventAttendee(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	var req PatchEventAttendeeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	a, err := c.Service.PatchEventAttendeeAmount(r.Context(), id, *req.Amount)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, a)
}

// DeleteEventAttendee godoc
// @Summary Remove attendees
// @Description With id, deletes one row and returns it. With eventId, deletes every attendee of the event and returns the count.
// @Tags event-attendees
// @Produce json
// @Param id query int false "Attendee row ID"
// @Param eventId query int false "Event ID"
// @Success 200 {object} helpers.APIResponse{data=domain.EventAttendee}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event-attendee [delete]
func (c *EventAttendeeController) DeleteEventAttendee(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	id, eventID := q.Int64("id"), q.Int64("eventId")
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	switch {
	case id != nil && eventID != nil:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "set id or eventId, not both")
	case id != nil:
		a, err := c.Service.DeleteEventAttendee(r.Context(), *id)
		if err != nil {
			helpers.WriteServiceError(w, r, c.Logger, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, a)
	case eventID != nil:
		n, err := c.Service.DeleteEventAttendeesByEventID(r.Context(), *eventID)
		if err != nil {
			helpers.WriteServiceError(w, r, c.Logger, err)
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, CountResponse{Count: n})
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "id or eventId is required")
	}
}
