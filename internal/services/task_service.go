package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todoweb/internal/forms"
	"todoweb/internal/models"
	"todoweb/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, userID string, input forms.TaskInput) (*models.Task, forms.FieldErrors, error) {
	fields, fieldErrors := input.Validate()
	if fieldErrors != nil {
		s.logger.Debug().
			Int("fields", len(fieldErrors)).
			Msg("task form validation failed")
		return nil, fieldErrors, nil
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:          taskUUID.String(),
		UserID:      userID,
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Repeat:      fields.Repeat,
		Priority:    fields.Priority,
		IsDeleted:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("created task")
	return task, nil, nil
}

func (s *taskServiceImpl) ListActive(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasksByUser(ctx, userID, false)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list active tasks")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("listed active tasks")
	return tasks, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("task_id", taskID).
				Str("user_id", userID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) Edit(ctx context.Context, userID, taskID string, input forms.TaskInput) (*models.Task, forms.FieldErrors, error) {
	task, err := s.tasks.FindTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("task_id", taskID).
				Str("user_id", userID).
				Msg("task not found")
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, err
	}

	fields, fieldErrors := input.Validate()
	if fieldErrors != nil {
		s.logger.Debug().
			Int("fields", len(fieldErrors)).
			Msg("task form validation failed")
		return nil, fieldErrors, nil
	}

	task.Title = fields.Title
	task.Description = fields.Description
	task.DueDate = fields.DueDate
	task.Repeat = fields.Repeat
	task.Priority = fields.Priority
	task.UpdatedAt = time.Now()

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		return nil, nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("updated task")
	return task, nil, nil
}

func (s *taskServiceImpl) SoftDelete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("task_id", taskID).
				Str("user_id", userID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	task.IsDeleted = true
	task.UpdatedAt = time.Now()

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to soft delete task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("moved task to trash")
	return task, nil
}

func (s *taskServiceImpl) ListTrash(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasksByUser(ctx, userID, true)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list trash")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("listed trash")
	return tasks, nil
}
