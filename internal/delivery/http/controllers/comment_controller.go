package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

func parseReasonType(s string) domain.ReasonType {
	return domain.ReasonType(strings.ToUpper(strings.TrimSpace(s)))
}

// CreateCommentRequest is the request body for POST /comment.
type CreateCommentRequest struct {
	Type         string `json:"type"`
	Content      string `json:"content"`
	DonorID      int64  `json:"donorId"`
	FundraiserID *int64 `json:"fundraiserId"`
	EventID      *int64 `json:"eventId"`
}

// Validate implements Validator.
func (c CreateCommentRequest) Validate() []string {
	var errs []string
	if !parseReasonType(c.Type).Valid() {
		errs = append(errs, "type must be one of ADD, REMOVE, OTHER")
	}
	if strings.TrimSpace(c.Content) == "" {
		errs = append(errs, "content is required")
	}
	if c.DonorID <= 0 {
		errs = append(errs, "donorId is required")
	}
	return errs
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{Logger: logger, Service: svc}
}

// ListComments godoc
// @Summary List comments
// @Description Ordered oldest first.
// @Tags comments
// @Produce json
// @Param id query int false "Comment ID"
// @Param fundraiserId query int false "Fundraiser ID"
// @Param donorId query int false "Donor ID"
// @Param eventId query int false "Event ID"
// @Param type query string false "ADD, REMOVE or OTHER"
// @Success 200 {object} helpers.APIResponse{data=[]domain.Comment}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /comment [get]
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := domain.CommentFilter{
		ID:           q.Int64("id"),
		FundraiserID: q.Int64("fundraiserId"),
		DonorID:      q.Int64("donorId"),
		EventID:      q.Int64("eventId"),
	}
	if s := q.String("type"); s != nil {
		t := parseReasonType(*s)
		filter.Type = &t
	}
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	comments, err := c.Service.GetComments(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comments)
}

// CreateComment godoc
// @Summary Comment on a donor
// @Tags comments
// @Accept json
// @Produce json
// @Param body body CreateCommentRequest true "Comment"
// @Success 200 {object} helpers.APIResponse{data=domain.Comment}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /comment [post]
func (c *CommentController) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment := &domain.Comment{
		Type:         parseReasonType(req.Type),
		Content:      req.Content,
		DonorID:      req.DonorID,
		FundraiserID: req.FundraiserID,
		EventID:      req.EventID,
	}
	if err := c.Service.CreateComment(r.Context(), comment); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param id query int true "Comment ID"
// @Success 200 {object} helpers.APIResponse{data=domain.Comment}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /comment [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	comment, err := c.Service.DeleteComment(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}
