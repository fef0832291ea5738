package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Service: svc}
}

// GetRoster godoc
// @Summary Get an event's invitation roster
// @Description Donors of every fundraiser linked to the event, the invited donor ids, and the invited percentage. q filters names by substring; sort=name orders them case-insensitively.
// @Tags invitations
// @Produce json
// @Param eventID path int true "Event ID"
// @Param q query string false "Name search"
// @Param sort query string false "name"
// @Success 200 {object} helpers.APIResponse{data=domain.Roster}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event/{eventID}/roster [get]
func (c *InvitationController) GetRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := helpers.PathInt64(r, "eventID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	query := domain.RosterQuery{Search: r.URL.Query().Get("q")}
	switch sort := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))); sort {
	case "":
	case "name":
		query.SortByName = true
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "sort must be name")
		return
	}
	roster, err := c.Service.GetRoster(r.Context(), eventID, query)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roster)
}

// ToggleInvitation godoc
// @Summary Invite or uninvite a donor
// @Description Invites the donor when not invited and uninvites otherwise. Calling it twice restores the original state.
// @Tags invitations
// @Produce json
// @Param eventID path int true "Event ID"
// @Param donorID path int true "Donor ID"
// @Success 200 {object} helpers.APIResponse{data=domain.InvitationToggle}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Failure 504 {object} helpers.APIResponse "error.code: timeout"
// @Router /event/{eventID}/invitations/{donorID}/toggle [post]
func (c *InvitationController) ToggleInvitation(w http.ResponseWriter, r *http.Request) {
	eventID, err := helpers.PathInt64(r, "eventID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	donorID, err := helpers.PathInt64(r, "donorID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	toggle, err := c.Service.ToggleInvitation(r.Context(), eventID, donorID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toggle)
}
