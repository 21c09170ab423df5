package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/missionctrl/missionctrl-api/internal/models"
	"github.com/missionctrl/missionctrl-api/internal/services"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type createUpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	DueDate     *string `json:"dueDate,omitempty"`
}

type taskPayload struct {
	Title       string
	Description string
	Status      models.Status
	DueDate     *time.Time
}

// validate checks every field independently and reports all
// violations together. The title comes back trimmed and an absent
// description defaults to the empty string.
func (r createUpdateTaskRequest) validate() (taskPayload, map[string]string) {
	fields := make(map[string]string)

	var payload taskPayload

	payload.Title = strings.TrimSpace(r.Title)
	if payload.Title == "" {
		fields["title"] = "Title is required"
	} else if utf8.RuneCountInString(payload.Title) > maxTitleLength {
		fields["title"] = "Title must be 1-200 characters"
	}

	if r.Description != nil {
		if utf8.RuneCountInString(*r.Description) > maxDescriptionLength {
			fields["description"] = "Description cannot exceed 2000 characters"
		}
		payload.Description = *r.Description
	}

	if r.Status == "" {
		fields["status"] = "Status is required"
	} else {
		status, err := models.ParseStatus(r.Status)
		if err != nil {
			fields["status"] = "Invalid status. Must be Pending, InProgress, or Complete"
		}
		payload.Status = status
	}

	if r.DueDate != nil && *r.DueDate != "" {
		dueDate, err := parseDueDate(*r.DueDate)
		if err != nil {
			fields["dueDate"] = "Due date must be an RFC 3339 timestamp or a YYYY-MM-DD date"
		} else {
			payload.DueDate = &dueDate
		}
	}

	if len(fields) == 0 {
		return payload, nil
	}
	return taskPayload{}, fields
}

// Past due dates are legal, they represent overdue items.
func parseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	tasks, err := h.tasks.GetTasks(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to fetch tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(&task)
	}

	h.logger.Info().
		Int("count", len(response)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError())
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createUpdateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newAPIError(http.StatusBadRequest, "invalid request body"))
		return
	}

	payload, fields := req.validate()
	if fields != nil {
		h.logger.Warn().
			Int("violations", len(fields)).
			Msg("rejected create payload")
		abort(c, newValidationError(fields))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		DueDate:     payload.DueDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	c.Header("Location", "/api/missionTasks/"+task.ID)
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req createUpdateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newAPIError(http.StatusBadRequest, "invalid request body"))
		return
	}

	payload, fields := req.validate()
	if fields != nil {
		h.logger.Warn().
			Int("violations", len(fields)).
			Str("task_id", taskID).
			Msg("rejected update payload")
		abort(c, newValidationError(fields))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		DueDate:     payload.DueDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError())
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError())
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}

// taskIDParam validates the :id path segment. An id that is not a
// UUID can never exist in the store, so it reads as not found.
func taskIDParam(c *gin.Context) (string, bool) {
	taskID := c.Param("id")
	if _, err := uuid.Parse(taskID); err != nil {
		abort(c, newNotFoundError())
		return "", false
	}
	return taskID, true
}
