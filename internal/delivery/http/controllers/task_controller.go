package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

// AddTaskRequest is the request body for POST /event/{eventID}/tasks. Status defaults to undone.
type AddTaskRequest struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// Validate implements Validator.
func (a AddTaskRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Text) == "" {
		errs = append(errs, "text is required")
	}
	if a.Status != "" && !domain.TaskStatus(a.Status).Valid() {
		errs = append(errs, "status must be one of undone, in-progress, done")
	}
	return errs
}

// UpdateTaskRequest is the request body for PATCH /event/{eventID}/tasks/{taskID}.
type UpdateTaskRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (u UpdateTaskRequest) Validate() []string {
	if !domain.TaskStatus(u.Status).Valid() {
		return []string{"status must be one of undone, in-progress, done"}
	}
	return nil
}

// TaskChangeResponse is the data payload for task writes: the task touched and the list after the write.
type TaskChangeResponse struct {
	Task *domain.Task     `json:"task"`
	List *domain.TaskList `json:"list"`
}

type TaskController struct {
	Logger  *slog.Logger
	Service domain.TaskService
}

func NewTaskController(logger *slog.Logger, svc domain.TaskService) *TaskController {
	return &TaskController{Logger: logger, Service: svc}
}

func (c *TaskController) pathIDs(w http.ResponseWriter, r *http.Request, withTask bool) (eventID, taskID int64, ok bool) {
	eventID, err := helpers.PathInt64(r, "eventID")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return 0, 0, false
	}
	if withTask {
		taskID, err = helpers.PathInt64(r, "taskID")
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return 0, 0, false
		}
	}
	return eventID, taskID, true
}

// ListTasks godoc
// @Summary Get an event's task list
// @Tags tasks
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=domain.TaskList}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event/{eventID}/tasks [get]
func (c *TaskController) ListTasks(w http.ResponseWriter, r *http.Request) {
	eventID, _, ok := c.pathIDs(w, r, false)
	if !ok {
		return
	}
	list, err := c.Service.GetTasks(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// AddTask godoc
// @Summary Add a task
// @Description Task ids are per event and never reused.
// @Tags tasks
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body AddTaskRequest true "Task"
// @Success 200 {object} helpers.APIResponse{data=controllers.TaskChangeResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event/{eventID}/tasks [post]
func (c *TaskController) AddTask(w http.ResponseWriter, r *http.Request) {
	eventID, _, ok := c.pathIDs(w, r, false)
	if !ok {
		return
	}
	var req AddTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	task, list, err := c.Service.AddTask(r.Context(), eventID, req.Text, domain.TaskStatus(req.Status))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TaskChangeResponse{Task: task, List: list})
}

// UpdateTask godoc
// @Summary Change a task's status
// @Tags tasks
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param taskID path int true "Task ID"
// @Param body body UpdateTaskRequest true "Status"
// @Success 200 {object} helpers.APIResponse{data=controllers.TaskChangeResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event/{eventID}/tasks/{taskID} [patch]
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	eventID, taskID, ok := c.pathIDs(w, r, true)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	task, list, err := c.Service.UpdateTaskStatus(r.Context(), eventID, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TaskChangeResponse{Task: task, List: list})
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Deleting a task that does not exist is not an error.
// @Tags tasks
// @Produce json
// @Param eventID path int true "Event ID"
// @Param taskID path int true "Task ID"
// @Success 200 {object} helpers.APIResponse{data=domain.TaskList}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, not_found"
// @Router /event/{eventID}/tasks/{taskID} [delete]
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	eventID, taskID, ok := c.pathIDs(w, r, true)
	if !ok {
		return
	}
	list, err := c.Service.DeleteTask(r.Context(), eventID, taskID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
