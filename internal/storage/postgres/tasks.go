package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"todoweb/internal/models"
	"todoweb/internal/storage"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   due_date,
                   repeat,
                   priority,
                   is_deleted,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Repeat,
		task.Priority,
		task.IsDeleted,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *Store) FindTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task := &models.Task{
		ID:     taskID,
		UserID: userID,
	}

	const selectTaskByIDQuery = `
SELECT title,
       description,
       due_date,
       repeat,
       priority,
       is_deleted,
       created_at,
       updated_at
FROM tasks
WHERE id = $1 AND user_id = $2
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		taskID,
		userID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Repeat,
		&task.Priority,
		&task.IsDeleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}

	s.logger.Debug().
		Str("task_id", taskID).
		Msg("selected task by id")
	return task, nil
}

func (s *Store) ListTasksByUser(ctx context.Context, userID string, deleted bool) ([]models.Task, error) {
	const selectTasksByUserQuery = `
SELECT id,
       title,
       description,
       due_date,
       repeat,
       priority,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1 AND is_deleted = $2
ORDER BY due_date, created_at, id
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByUserQuery,
		userID,
		deleted,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task := models.Task{
			UserID:    userID,
			IsDeleted: deleted,
		}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Repeat,
			&task.Priority,
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
		Str("user_id", userID).
		Bool("deleted", deleted).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    due_date = $3,
    repeat = $4,
    priority = $5,
    is_deleted = $6,
    updated_at = $7
WHERE id = $8 AND user_id = $9
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Repeat,
		task.Priority,
		task.IsDeleted,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}
