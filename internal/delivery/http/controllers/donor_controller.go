package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

// DonorRequest is the request body for POST /donor and each item of POST /donor/bulk.
type DonorRequest struct {
	Name         string `json:"name"`
	FundraiserID *int64 `json:"fundraiserId"`
}

// Validate implements Validator.
func (d DonorRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, "name is required")
	}
	if d.FundraiserID != nil && *d.FundraiserID <= 0 {
		errs = append(errs, "fundraiserId must be positive")
	}
	return errs
}

// BulkDonorsRequest is the request body for POST /donor/bulk.
type BulkDonorsRequest struct {
	Donors []DonorRequest `json:"donors"`
}

// Validate implements Validator. Blank names are skipped by the service, not rejected.
func (b BulkDonorsRequest) Validate() []string {
	var errs []string
	if len(b.Donors) == 0 {
		errs = append(errs, "donors is required")
	}
	for i, d := range b.Donors {
		if d.FundraiserID != nil && *d.FundraiserID <= 0 {
			errs = append(errs, fmt.Sprintf("donors[%d].fundraiserId must be positive", i))
		}
	}
	return errs
}

// PatchDonorRequest is the request body for PATCH /donor?id=.
type PatchDonorRequest struct {
	Name         *string `json:"name"`
	FundraiserID *int64  `json:"fundraiserId"`
}

// Validate implements Validator.
func (p PatchDonorRequest) Validate() []string {
	if p.FundraiserID != nil && *p.FundraiserID <= 0 {
		return []string{"fundraiserId must be positive"}
	}
	return nil
}

type DonorController struct {
	Logger  *slog.Logger
	Service domain.DonorService
}

func NewDonorController(logger *slog.Logger, svc domain.DonorService) *DonorController {
	return &DonorController{Logger: logger, Service: svc}
}

// ListDonors godoc
// @Summary List donors
// @Tags donors
// @Produce json
// @Param id query int false "Donor ID"
// @Param name query string false "Exact name"
// @Param fundraiserId query int false "Assigned fundraiser"
// @Success 200 {object} helpers.APIResponse{data=[]domain.Donor}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /donor [get]
func (c *DonorController) ListDonors(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := domain.DonorFilter{
		ID:           q.Int64("id"),
		Name:         q.String("name"),
		FundraiserID: q.Int64("fundraiserId"),
	}
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	donors, err := c.Service.GetDonors(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, donors)
}

// CreateDonor godoc
// @Summary Create a donor
// @Tags donors
// @Accept json
// @Produce json
// @Param body body DonorRequest true "Donor"
// @Success 200 {object} helpers.APIResponse{data=domain.Donor}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, conflict"
// @Router /donor [post]
func (c *DonorController) CreateDonor(w http.ResponseWriter, r *http.Request) {
	var req DonorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	donor := &domain.Donor{Name: req.Name, FundraiserID: req.FundraiserID}
	if err := c.Service.CreateDonor(r.Context(), donor); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, donor)
}

// CreateDonors godoc
// @Summary Create many donors
// @Description Skips blank names and names that already exist; returns how many were created.
// @Tags donors
// @Accept json
// @Produce json
// @Param body body BulkDonorsRequest true "Donors"
// @Success 200 {object} helpers.APIResponse{data=controllers.CountResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /donor/bulk [post]
func (c *DonorController) CreateDonors(w http.ResponseWriter, r *http.Request) {
	var req BulkDonorsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	donors := make([]*domain.Donor, 0, len(req.Donors))
	for _, d := range req.Donors {
		donors = append(donors, &domain.Donor{Name: d.Name, FundraiserID: d.FundraiserID})
	}
	n, err := c.Service.CreateDonors(r.Context(), donors)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CountResponse{Count: int64(n)})
}

// PatchDonor godoc
// @Summary Update a donor
// @Tags donors
// @Accept json
// @Produce json
// @Param id query int true "Donor ID"
// @Param body body PatchDonorRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse{data=domain.Donor}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found, conflict"
// @Router /donor [patch]
func (c *DonorController) PatchDonor(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	var req PatchDonorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	donor, err := c.Service.PatchDonor(r.Context(), id, domain.DonorPatch{Name: req.Name, FundraiserID: req.FundraiserID})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, donor)
}

// DeleteDonor godoc
// @Summary Delete a donor
// @Tags donors
// @Produce json
// @Param id query int true "Donor ID"
// @Success 200 {object} helpers.APIResponse{data=domain.Donor}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /donor [delete]
func (c *DonorController) DeleteDonor(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	donor, err := c.Service.DeleteDonor(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, donor)
}
