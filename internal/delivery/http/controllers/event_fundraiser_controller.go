package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

// CreateEventFundraiserRequest is the request body for POST /event-fundraiser.
type CreateEventFundraiserRequest struct {
	EventID      int64 `json:"eventId"`
	FundraiserID int64 `json:"fundraiserId"`
}

// Validate implements Validator.
func (c CreateEventFundraiserRequest) Validate() []string {
	var errs []string
	if c.EventID <= 0 {
		errs = append(errs, "eventId is required")
	}
	if c.FundraiserID <= 0 {
		errs = append(errs, "fundraiserId is required")
	}
	return errs
}

type EventFundraiserController struct {
	Logger  *slog.Logger
	Service domain.EventFundraiserService
}

func NewEventFundraiserController(logger *slog.Logger, svc domain.EventFundraiserService) *EventFundraiserController {
	return &EventFundraiserController{Logger: logger, Service: svc}
}

// ListEventFundraisers godoc
// @Summary List event/fundraiser links
// @Tags event-fundraisers
// @Produce json
// @Param id query int false "Link ID"
// @Param eventId query int false "Event ID"
// @Param fundraiserId query int false "Fundraiser ID"
// @Success 200 {object} helpers.APIResponse{data=[]domain.EventFundraiser}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /event-fundraiser [get]
func (c *EventFundraiserController) ListEventFundraisers(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := domain.EventFundraiserFilter{
		ID:           q.Int64("id"),
		EventID:      q.Int64("eventId"),
		FundraiserID: q.Int64("fundraiserId"),
	}
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	links, err := c.Service.GetEventFundraisers(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, links)
}

// CreateEventFundraiser godoc
// @Summary Link a fundraiser to an event
// @Tags event-fundraisers
// @Accept json
// @Produce json
// @Param body body CreateEventFundraiserRequest true "Link"
// @Success 200 {object} helpers.APIResponse{data=domain.EventFundraiser}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found, conflict"
// @Router /event-fundraiser [post]
func (c *EventFundraiserController) CreateEventFundraiser(w http.ResponseWriter, r *http.Request) {
	var req CreateEventFundraiserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	link, err := c.Service.CreateEventFundraiser(r.Context(), req.EventID, req.FundraiserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, link)
}

// DeleteEventFundraiser godoc
// @Summary Remove an event/fundraiser link
// @Tags event-fundraisers
// @Produce json
// @Param id query int true "Link ID"
// @Success 200 {object} helpers.APIResponse{data=domain.EventFundraiser}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event-fundraiser [delete]
func (c *EventFundraiserController) DeleteEventFundraiser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	link, err := c.Service.DeleteEventFundraiser(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, link)
}
