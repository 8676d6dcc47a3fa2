package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todoweb/internal/models"
	"todoweb/internal/storage"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	row := taskToRow(task)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *Store) FindTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var row taskRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, taskID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	task := rowToTask(&row)
	return &task, nil
}

func (s *Store) ListTasksByUser(ctx context.Context, userID string, deleted bool) ([]models.Task, error) {
	var rows []taskRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, deleted).
		Order("due_date, created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]models.Task, len(rows))
	for i := range rows {
		tasks[i] = rowToTask(&rows[i])
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	row := taskToRow(task)
	res := s.db.WithContext(ctx).
		Model(&taskRow{}).
		Where("user_id = ? AND id = ?", task.UserID, task.ID).
		Select("Title", "Description", "DueDate", "Repeat", "Priority", "IsDeleted", "UpdatedAt").
		Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}
