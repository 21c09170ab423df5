package views

import "github.com/missionctrl/missionctrl-api/internal/models"

// Board partitions the task collection into the three status columns.
// Within each column tasks keep the relative order they arrived in.
type Board struct {
	Pending    []models.Task
	InProgress []models.Task
	Complete   []models.Task
}

func BuildBoard(tasks []models.Task) Board {
	board := Board{
		Pending:    make([]models.Task, 0, len(tasks)),
		InProgress: make([]models.Task, 0, len(tasks)),
		Complete:   make([]models.Task, 0, len(tasks)),
	}
	for _, task := range tasks {
		switch task.Status {
		case models.StatusPending:
			board.Pending = append(board.Pending, task)
		case models.StatusInProgress:
			board.InProgress = append(board.InProgress, task)
		case models.StatusComplete:
			board.Complete = append(board.Complete, task)
		}
	}
	return board
}
