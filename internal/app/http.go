package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"todoweb/internal/config"
	"todoweb/internal/delivery/web"
	"todoweb/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.LoadHTMLGlob(httpCfg.TemplatesGlob)

	// Cookie session carrying flash messages only; authentication
	// rides on its own token cookies.
	sessionStore := cookie.NewStore([]byte(cfg.Session.Secret))
	router.Use(sessions.Sessions("todoweb_session", sessionStore))

	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	authService := services.NewAuthService(
		globalLogger,
		globalStore,
		globalStore,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	taskService := services.NewTaskService(globalLogger, globalStore)
	handler := web.New(globalLogger, authService, taskService)

	router.GET("/login", handler.HandleLoginForm)
	router.POST("/login", handler.HandleLogin)
	router.GET("/register", handler.HandleRegisterForm)
	router.POST("/register", handler.HandleRegister)
	router.POST("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)

	authed := router.Group("/", handler.HandleAuthMiddleware)
	authed.GET("/", handler.HandleListTasks)
	authed.GET("/add/", handler.HandleAddTaskForm)
	authed.POST("/add/", handler.HandleAddTask)
	authed.GET("/edit/:task_id/", handler.HandleEditTaskForm)
	authed.POST("/edit/:task_id/", handler.HandleEditTask)
	// Soft delete mutates state, so it rides on POST rather than GET.
	authed.POST("/delete/:task_id/", handler.HandleDeleteTask)
	authed.GET("/trash/", handler.HandleListTrash)
}
