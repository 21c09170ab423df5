package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missionctrl/missionctrl-api/internal/models"
	"github.com/missionctrl/missionctrl-api/internal/services"
)

type taskServiceStub struct {
	createFn func(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
	listFn   func(ctx context.Context) ([]models.Task, error)
	getFn    func(ctx context.Context, id string) (*models.Task, error)
	updateFn func(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *taskServiceStub) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	return s.createFn(ctx, params)
}

func (s *taskServiceStub) GetTasks(ctx context.Context) ([]models.Task, error) {
	return s.listFn(ctx)
}

func (s *taskServiceStub) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return s.getFn(ctx, id)
}

func (s *taskServiceStub) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	return s.updateFn(ctx, params)
}

func (s *taskServiceStub) DeleteTask(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

var testClock = func() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func setupTestRouter(stub *taskServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := &handlerImpl{
		logger: zerolog.Nop(),
		tasks:  stub,
		now:    testClock,
	}

	router := gin.New()
	tasksRouter := router.Group("/api/missionTasks")
	tasksRouter.GET("", handler.HandleGetTasks)
	tasksRouter.GET("/board", handler.HandleGetBoard)
	tasksRouter.GET("/:id", handler.HandleGetTask)
	tasksRouter.POST("", handler.HandleCreateTask)
	tasksRouter.PUT("/:id", handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", handler.HandleDeleteTask)
	return router
}

func performJSON(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func newStoredTask(title string, status models.Status, createdAt time.Time) models.Task {
	return models.Task{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     title,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestHandleCreateTask(t *testing.T) {
	now := testClock()
	stub := &taskServiceStub{
		createFn: func(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
			assert.Equal(t, "Launch checklist", params.Title)
			assert.Equal(t, "Fuel, comms, telemetry", params.Description)
			assert.Equal(t, models.StatusPending, params.Status)
			require.NotNil(t, params.DueDate)

			return &models.Task{
				ID:          uuid.Must(uuid.NewV7()).String(),
				Title:       params.Title,
				Description: params.Description,
				Status:      params.Status,
				DueDate:     params.DueDate,
				CreatedAt:   now,
				UpdatedAt:   now,
			}, nil
		},
	}

	router := setupTestRouter(stub)
	body := `{"title":"  Launch checklist  ","description":"Fuel, comms, telemetry","status":"Pending","dueDate":"2024-06-20"}`
	resp := performJSON(router, http.MethodPost, "/api/missionTasks", body)

	require.Equal(t, http.StatusCreated, resp.Code)

	var task getTaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "/api/missionTasks/"+task.ID, resp.Header().Get("Location"))
	assert.Equal(t, "Launch checklist", task.Title)
	assert.Equal(t, "Pending", task.Status)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestHandleCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{
			name:   "missing title",
			body:   `{"status":"Pending"}`,
			fields: []string{"title"},
		},
		{
			name:   "whitespace only title",
			body:   `{"title":"   ","status":"Pending"}`,
			fields: []string{"title"},
		},
		{
			name:   "title too long",
			body:   `{"title":"` + strings.Repeat("a", 201) + `","status":"Pending"}`,
			fields: []string{"title"},
		},
		{
			name:   "description too long",
			body:   `{"title":"t","description":"` + strings.Repeat("d", 2001) + `","status":"Pending"}`,
			fields: []string{"description"},
		},
		{
			name:   "missing status",
			body:   `{"title":"t"}`,
			fields: []string{"status"},
		},
		{
			name:   "unknown status literal",
			body:   `{"title":"t","status":"Done"}`,
			fields: []string{"status"},
		},
		{
			name:   "lowercased status literal",
			body:   `{"title":"t","status":"pending"}`,
			fields: []string{"status"},
		},
		{
			name:   "malformed due date",
			body:   `{"title":"t","status":"Pending","dueDate":"not-a-date"}`,
			fields: []string{"dueDate"},
		},
		{
			name:   "all violations reported together",
			body:   `{"title":"","description":"` + strings.Repeat("d", 2001) + `","status":"Done","dueDate":"nope"}`,
			fields: []string{"title", "description", "status", "dueDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &taskServiceStub{
				createFn: func(context.Context, services.CreateTaskParams) (*models.Task, error) {
					t.Fatal("invalid payload must never reach the service")
					return nil, nil
				},
			}

			router := setupTestRouter(stub)
			resp := performJSON(router, http.MethodPost, "/api/missionTasks", tt.body)

			require.Equal(t, http.StatusBadRequest, resp.Code)

			var apiErr apiError
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
			assert.NotEmpty(t, apiErr.Message)
			assert.Len(t, apiErr.Fields, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, apiErr.Fields, field)
			}
		})
	}
}

func TestHandleCreateTaskTitleBoundary(t *testing.T) {
	title := strings.Repeat("a", 200)
	stub := &taskServiceStub{
		createFn: func(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
			assert.Equal(t, title, params.Title)
			now := testClock()
			return &models.Task{
				ID:        uuid.Must(uuid.NewV7()).String(),
				Title:     params.Title,
				Status:    params.Status,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		},
	}

	router := setupTestRouter(stub)
	resp := performJSON(router, http.MethodPost, "/api/missionTasks", `{"title":"`+title+`","status":"Complete"}`)

	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestHandleGetTasksOrderPassthrough(t *testing.T) {
	base := testClock()
	stored := []models.Task{
		newStoredTask("third", models.StatusPending, base.Add(2*time.Hour)),
		newStoredTask("second", models.StatusPending, base.Add(time.Hour)),
		newStoredTask("first", models.StatusPending, base),
	}

	stub := &taskServiceStub{
		listFn: func(context.Context) ([]models.Task, error) {
			return stored, nil
		},
	}

	router := setupTestRouter(stub)
	resp := performJSON(router, http.MethodGet, "/api/missionTasks", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var tasks []getTaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestHandleGetTasksEmptyCollection(t *testing.T) {
	stub := &taskServiceStub{
		listFn: func(context.Context) ([]models.Task, error) {
			return nil, nil
		},
	}

	router := setupTestRouter(stub)
	resp := performJSON(router, http.MethodGet, "/api/missionTasks", "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestHandleGetTask(t *testing.T) {
	stored := newStoredTask("recover booster", models.StatusInProgress, testClock())

	stub := &taskServiceStub{
		getFn: func(_ context.Context, id string) (*models.Task, error) {
			if id == stored.ID {
				return &stored, nil
			}
			return nil, services.ErrTaskNotFound
		},
	}

	router := setupTestRouter(stub)

	resp := performJSON(router, http.MethodGet, "/api/missionTasks/"+stored.ID, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var task getTaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))
	assert.Equal(t, stored.ID, task.ID)
	assert.Equal(t, "InProgress", task.Status)

	resp = performJSON(router, http.MethodGet, "/api/missionTasks/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleGetTaskMalformedID(t *testing.T) {
	stub := &taskServiceStub{
		getFn: func(context.Context, string) (*models.Task, error) {
			t.Fatal("malformed id must never reach the service")
			return nil, nil
		},
	}

	router := setupTestRouter(stub)
	resp := performJSON(router, http.MethodGet, "/api/missionTasks/42", "")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleUpdateTask(t *testing.T) {
	createdAt := testClock().Add(-time.Hour)
	taskID := uuid.Must(uuid.NewV7()).String()

	stub := &taskServiceStub{
		updateFn: func(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
			assert.Equal(t, taskID, params.ID)
			assert.Equal(t, models.StatusComplete, params.Status)

			return &models.Task{
				ID:          params.ID,
				Title:       params.Title,
				Description: params.Description,
				Status:      params.Status,
				DueDate:     params.DueDate,
				CreatedAt:   createdAt,
				UpdatedAt:   testClock(),
			}, nil
		},
	}

	router := setupTestRouter(stub)
	body := `{"title":"splashdown","status":"Complete"}`
	resp := performJSON(router, http.MethodPut, "/api/missionTasks/"+taskID, body)

	require.Equal(t, http.StatusOK, resp.Code)

	var task getTaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))
	assert.Equal(t, "Complete", task.Status)
	assert.Equal(t, createdAt.UTC(), task.CreatedAt.UTC())
	assert.True(t, task.UpdatedAt.After(task.CreatedAt))
}

func TestHandleUpdateTaskNotFound(t *testing.T) {
	stub := &taskServiceStub{
		updateFn: func(context.Context, services.UpdateTaskParams) (*models.Task, error) {
			return nil, services.ErrTaskNotFound
		},
	}

	router := setupTestRouter(stub)
	body := `{"title":"ghost","status":"Pending"}`
	resp := performJSON(router, http.MethodPut, "/api/missionTasks/"+uuid.NewString(), body)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleUpdateTaskInvalidStatusIsBadRequest(t *testing.T) {
	stub := &taskServiceStub{
		updateFn: func(context.Context, services.UpdateTaskParams) (*models.Task, error) {
			t.Fatal("invalid status must never reach the service")
			return nil, nil
		},
	}

	router := setupTestRouter(stub)
	body := `{"title":"t","status":"Archived"}`
	resp := performJSON(router, http.MethodPut, "/api/missionTasks/"+uuid.NewString(), body)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var apiErr apiError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Fields, "status")
}

func TestHandleDeleteTask(t *testing.T) {
	taskID := uuid.Must(uuid.NewV7()).String()
	deleted := false

	stub := &taskServiceStub{
		deleteFn: func(_ context.Context, id string) error {
			if id == taskID && !deleted {
				deleted = true
				return nil
			}
			return services.ErrTaskNotFound
		},
		getFn: func(context.Context, string) (*models.Task, error) {
			return nil, services.ErrTaskNotFound
		},
	}

	router := setupTestRouter(stub)

	resp := performJSON(router, http.MethodDelete, "/api/missionTasks/"+taskID, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.String())

	resp = performJSON(router, http.MethodGet, "/api/missionTasks/"+taskID, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = performJSON(router, http.MethodDelete, "/api/missionTasks/"+taskID, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleCreateTaskInvalidBody(t *testing.T) {
	stub := &taskServiceStub{
		createFn: func(context.Context, services.CreateTaskParams) (*models.Task, error) {
			t.Fatal("unparseable body must never reach the service")
			return nil, nil
		},
	}

	router := setupTestRouter(stub)
	resp := performJSON(router, http.MethodPost, "/api/missionTasks", `{"title":`)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var apiErr apiError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "invalid request body", apiErr.Message)
}

func TestValidateDueDateFormats(t *testing.T) {
	req := createUpdateTaskRequest{Title: "t", Status: "Pending"}

	dateOnly := "2024-06-10"
	req.DueDate = &dateOnly
	payload, fields := req.validate()
	require.Nil(t, fields)
	require.NotNil(t, payload.DueDate)
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), payload.DueDate.UTC())

	timestamp := "2024-06-10T08:30:00Z"
	req.DueDate = &timestamp
	payload, fields = req.validate()
	require.Nil(t, fields)
	require.NotNil(t, payload.DueDate)
	assert.Equal(t, 8, payload.DueDate.UTC().Hour())

	req.DueDate = nil
	payload, fields = req.validate()
	require.Nil(t, fields)
	assert.Nil(t, payload.DueDate)
}
