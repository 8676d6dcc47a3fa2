// Package web serves the HTML surface: task pages behind the auth
// middleware, login and registration forms in front of it.
package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"todoweb/internal/services"
)

type Handler interface {
	HandleLoginForm(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleRegisterForm(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleAddTaskForm(c *gin.Context)
	HandleAddTask(c *gin.Context)
	HandleEditTaskForm(c *gin.Context)
	HandleEditTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleListTrash(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	tasks  services.TaskService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		tasks:  taskService,
	}
}
