package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

// parseDate accepts a plain date (2024-12-01) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(helpers.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CreateEventRequest is the request body for POST /event.
// A non-empty fundraiserIds runs the all-or-nothing creation of the event and its links.
type CreateEventRequest struct {
	Title         string   `json:"title"`
	Topic         string   `json:"topic"`
	Date          string   `json:"date"`
	City          string   `json:"city"`
	Address       *string  `json:"address"`
	Description   *string  `json:"description"`
	Goal          *float64 `json:"goal"`
	Completed     *float64 `json:"completed"`
	FundraiserIDs []int64  `json:"fundraiserIds"`
}

// Validate implements Validator. Field rules beyond format live in the service.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Date) != "" {
		if _, ok := parseDate(c.Date); !ok {
			errs = append(errs, "date must be YYYY-MM-DD or RFC 3339")
		}
	}
	if strings.TrimSpace(c.City) != "" {
		if _, ok := domain.ParseCity(c.City); !ok {
			errs = append(errs, "city is not a supported city")
		}
	}
	if c.Goal == nil {
		errs = append(errs, "goal is required")
	}
	return errs
}

func (c CreateEventRequest) toEvent() *domain.Event {
	e := &domain.Event{
		Title:       strings.TrimSpace(c.Title),
		Topic:       strings.TrimSpace(c.Topic),
		Address:     c.Address,
		Description: c.Description,
	}
	e.Date, _ = parseDate(c.Date)
	e.City, _ = domain.ParseCity(c.City)
	if c.Goal != nil {
		e.Goal = *c.Goal
	}
	if c.Completed != nil {
		e.Completed = *c.Completed
	}
	return e
}

// PatchEventRequest is the request body for PATCH /event?id=. Omitted fields are unchanged.
type PatchEventRequest struct {
	Title       *string  `json:"title"`
	Topic       *string  `json:"topic"`
	Date        *string  `json:"date"`
	City        *string  `json:"city"`
	Address     *string  `json:"address"`
	Description *string  `json:"description"`
	Goal        *float64 `json:"goal"`
	Completed   *float64 `json:"completed"`
}

// Validate implements Validator.
func (p PatchEventRequest) Validate() []string {
	var errs []string
	if p.Date != nil {
		if _, ok := parseDate(*p.Date); !ok {
			errs = append(errs, "date must be YYYY-MM-DD or RFC 3339")
		}
	}
	if p.City != nil {
		if _, ok := domain.ParseCity(*p.City); !ok {
			errs = append(errs, "city is not a supported city")
		}
	}
	return errs
}

func (p PatchEventRequest) toPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Title:       p.Title,
		Topic:       p.Topic,
		Address:     p.Address,
		Description: p.Description,
		Goal:        p.Goal,
		Completed:   p.Completed,
	}
	if p.Date != nil {
		d, _ := parseDate(*p.Date)
		patch.Date = &d
	}
	if p.City != nil {
		c, _ := domain.ParseCity(*p.City)
		patch.City = &c
	}
	return patch
}

// CreateEventSuccessResponse is the success response envelope for POST /event (200).
type CreateEventSuccessResponse struct {
	Data  *domain.EventWithFundraisers `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// EventSuccessResponse is the success response envelope for PATCH and DELETE /event (200).
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /event (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Filters by id, title, topic, date and city. A given id ignores every other filter.
// @Tags events
// @Produce json
// @Param id query int false "Event ID"
// @Param title query string false "Exact title"
// @Param topic query string false "Exact topic"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param city query string false "City, e.g. VANCOUVER"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := domain.EventFilter{
		ID:    q.Int64("id"),
		Title: q.String("title"),
		Topic: q.String("topic"),
		Date:  q.Date("date"),
	}
	if s := q.String("city"); s != nil {
		city, _ := domain.ParseCity(*s)
		filter.City = &city
	}
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	events, err := c.Service.GetEvents(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates the event and links every fundraiser in fundraiserIds. If a link fails, everything written is undone and error.code is rolled_back; rollback_failed means manual cleanup may be required.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 200 {object} controllers.CreateEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, rolled_back"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error, rollback_failed"
// @Failure 504 {object} helpers.APIResponse "error.code: timeout"
// @Router /event [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.CreateEventWithFundraisers(r.Context(), req.toEvent(), req.FundraiserIDs)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, created)
}

// PatchEvent godoc
// @Summary Update an event
// @Description Updates only the fields present in the body.
// @Tags events
// @Accept json
// @Produce json
// @Param id query int true "Event ID"
// @Param body body PatchEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event [patch]
func (c *EventController) PatchEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	var req PatchEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.PatchEvent(r.Context(), id, req.toPatch())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event with its fundraiser links, attendees and tasks, and returns the deleted event.
// @Tags events
// @Produce json
// @Param id query int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /event [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.DeleteEvent(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
