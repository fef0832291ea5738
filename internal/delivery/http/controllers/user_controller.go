package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

func parseRole(s string) domain.Role {
	return domain.Role(strings.ToUpper(strings.TrimSpace(s)))
}

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (c CreateUserRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !parseRole(c.Role).Valid() {
		errs = append(errs, "role must be FUNDRAISER or COORDINATOR")
	}
	if c.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// PatchUserRequest is the request body for PATCH /users?id=. Both fields are optional.
type PatchUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

// Validate implements Validator.
func (p PatchUserRequest) Validate() []string {
	if p.Role != nil && !parseRole(*p.Role).Valid() {
		return []string{"role must be FUNDRAISER or COORDINATOR"}
	}
	return nil
}

// UserRoleResponse is the data payload for GET /users/role.
type UserRoleResponse struct {
	Role domain.Role `json:"role"`
}

// UserController handles staff account endpoints.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{Logger: logger, Service: svc}
}

func userFilter(q *helpers.Query) domain.UserFilter {
	f := domain.UserFilter{ID: q.Int64("id"), Name: q.String("name")}
	if s := q.String("role"); s != nil {
		role := parseRole(*s)
		f.Role = &role
	}
	return f
}

// ListUsers godoc
// @Summary List staff accounts
// @Tags users
// @Produce json
// @Param id query int false "User ID"
// @Param name query string false "Exact name"
// @Param role query string false "FUNDRAISER or COORDINATOR"
// @Success 200 {object} helpers.APIResponse{data=[]domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := userFilter(q)
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	users, err := c.Service.GetUsers(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// GetUserRole godoc
// @Summary Get a user's role
// @Tags users
// @Produce json
// @Param id query int false "User ID"
// @Param name query string false "Exact name"
// @Success 200 {object} helpers.APIResponse{data=controllers.UserRoleResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /users/role [get]
func (c *UserController) GetUserRole(w http.ResponseWriter, r *http.Request) {
	q := helpers.NewQuery(r)
	filter := domain.UserFilter{ID: q.Int64("id"), Name: q.String("name")}
	if errs := q.Errs(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	role, err := c.Service.GetUserRole(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UserRoleResponse{Role: role})
}

// CreateUser godoc
// @Summary Create a staff account
// @Description The password is stored as a bcrypt hash and never returned.
// @Tags users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "Account"
// @Success 200 {object} helpers.APIResponse{data=domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, conflict"
// @Router /users [post]
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.CreateUser(r.Context(), req.Name, parseRole(req.Role), req.Password)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// PatchUser godoc
// @Summary Update a staff account
// @Tags users
// @Accept json
// @Produce json
// @Param id query int true "User ID"
// @Param body body PatchUserRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse{data=domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found, conflict"
// @Router /users [patch]
func (c *UserController) PatchUser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	var req PatchUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := domain.UserPatch{Name: req.Name}
	if req.Role != nil {
		role := parseRole(*req.Role)
		patch.Role = &role
	}
	user, err := c.Service.PatchUser(r.Context(), id, patch)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a staff account
// @Tags users
// @Produce json
// @Param id query int true "User ID"
// @Success 200 {object} helpers.APIResponse{data=domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /users [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.RequireID(w, r)
	if !ok {
		return
	}
	user, err := c.Service.DeleteUser(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
