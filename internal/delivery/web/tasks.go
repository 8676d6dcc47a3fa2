package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoweb/internal/forms"
	"todoweb/internal/services"
)

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListActive(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "tasks.html", gin.H{
		"Tasks":   tasks,
		"Flashes": takeFlashes(c),
	})
}

func (h *handlerImpl) HandleAddTaskForm(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Action": "/add/",
		"Input":  forms.TaskInput{Repeat: "none"},
		"Errors": forms.FieldErrors{},
	})
}

func (h *handlerImpl) HandleAddTask(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input forms.TaskInput
	err := c.ShouldBind(&input)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind task form")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	task, fieldErrors, err := h.tasks.Create(c, userID, input)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if fieldErrors != nil {
		// Re-render with the submitted values; nothing was saved.
		c.HTML(http.StatusUnprocessableEntity, "task_form.html", gin.H{
			"Action": "/add/",
			"Input":  input,
			"Errors": fieldErrors,
		})
		return
	}

	emitFlash(c, flashSuccess, fmt.Sprintf("Added task %q.", task.Title))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlerImpl) HandleEditTaskForm(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c, userID, c.Param("task_id"))
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Action": fmt.Sprintf("/edit/%s/", task.ID),
		"Input":  forms.FromTask(task),
		"Errors": forms.FieldErrors{},
	})
}

func (h *handlerImpl) HandleEditTask(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	taskID := c.Param("task_id")

	var input forms.TaskInput
	err := c.ShouldBind(&input)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind task form")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	task, fieldErrors, err := h.tasks.Edit(c, userID, taskID, input)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}
	if fieldErrors != nil {
		c.HTML(http.StatusUnprocessableEntity, "task_form.html", gin.H{
			"Action": fmt.Sprintf("/edit/%s/", taskID),
			"Input":  input,
			"Errors": fieldErrors,
		})
		return
	}

	emitFlash(c, flashSuccess, fmt.Sprintf("Updated task %q.", task.Title))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	task, err := h.tasks.SoftDelete(c, userID, c.Param("task_id"))
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	emitFlash(c, flashSuccess, fmt.Sprintf("Moved task %q to trash.", task.Title))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlerImpl) HandleListTrash(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTrash(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list trash")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "trash.html", gin.H{
		"Tasks":   tasks,
		"Flashes": takeFlashes(c),
	})
}

// abortTaskError renders a missing or foreign task as a plain 404; the
// two are indistinguishable on purpose.
func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTaskNotFound) {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{})
		c.Abort()
		return
	}

	h.logger.Error().
		Err(err).
		Msg("task operation failed")
	c.AbortWithStatus(http.StatusInternalServerError)
}
