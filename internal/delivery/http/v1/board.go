package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/missionctrl/missionctrl-api/internal/models"
	"github.com/missionctrl/missionctrl-api/internal/views"
)

type boardTaskResponse struct {
	getTaskResponse
	Urgency string `json:"urgency,omitempty"`
}

type getBoardResponse struct {
	Pending    []boardTaskResponse `json:"pending"`
	InProgress []boardTaskResponse `json:"inProgress"`
	Complete   []boardTaskResponse `json:"complete"`
}

func (h *handlerImpl) HandleGetBoard(c *gin.Context) {
	tasks, err := h.tasks.GetTasks(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to fetch tasks for board")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	now := h.now()
	board := views.BuildBoard(tasks)

	response := getBoardResponse{
		Pending:    h.newBoardColumn(board.Pending, now),
		InProgress: h.newBoardColumn(board.InProgress, now),
		Complete:   h.newBoardColumn(board.Complete, now),
	}

	h.logger.Info().
		Int("count", len(tasks)).
		Msg("fetched board")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) newBoardColumn(tasks []models.Task, now time.Time) []boardTaskResponse {
	column := make([]boardTaskResponse, len(tasks))
	for i, task := range tasks {
		column[i] = boardTaskResponse{
			getTaskResponse: newGetTaskResponse(&task),
			Urgency:         string(views.ClassifyUrgency(task.DueDate, now)),
		}
	}
	return column
}
