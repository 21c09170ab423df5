package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/missionctrl/missionctrl-api/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		now:    time.Now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := s.now()
	task := &models.Task{
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertTaskQuery = `
INSERT INTO mission_tasks (id,
                           title,
                           description,
                           status,
                           due_date,
                           created_at,
                           updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	// IDs are time-ordered UUIDs, so a collision is vanishingly
	// unlikely; a single regeneration covers it anyway.
	for attempt := 0; attempt < 2; attempt++ {
		taskUUID, err := uuid.NewV7()
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to generate task id")
			return nil, err
		}
		task.ID = taskUUID.String()

		_, err = s.pgPool.Exec(
			ctx,
			insertTaskQuery,
			task.ID,
			task.Title,
			task.Description,
			task.Status,
			task.DueDate,
			task.CreatedAt,
			task.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && attempt == 0 {
				s.logger.Warn().
					Str("task_id", task.ID).
					Msg("task id collision, regenerating")
				continue
			}

			s.logger.Error().
				Err(err).
				Msg("failed to insert task")
			return nil, err
		}
		break
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context) ([]models.Task, error) {
	const selectTasksQuery = `
SELECT id,
       title,
       description,
       status,
       due_date,
       created_at,
       updated_at
FROM mission_tasks
ORDER BY created_at DESC, id DESC
`
	rows, err := s.pgPool.Query(ctx, selectTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskQuery = `
SELECT title,
       description,
       status,
       due_date,
       created_at,
       updated_at
FROM mission_tasks
WHERE id = $1
`
	task := &models.Task{ID: id}
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskQuery,
		id,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info().
				Str("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", id).
		Msg("selected task")

	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task := &models.Task{
		ID:          params.ID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		DueDate:     params.DueDate,
		UpdatedAt:   s.now(),
	}

	const updateTaskQuery = `
UPDATE mission_tasks
SET title = $1,
    description = $2,
    status = $3,
    due_date = $4,
    updated_at = $5
WHERE id = $6
RETURNING created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	).Scan(&task.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info().
				Str("task_id", task.ID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM mission_tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Info().
			Str("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}
