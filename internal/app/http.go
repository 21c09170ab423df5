package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/missionctrl/missionctrl-api/internal/config"
	"github.com/missionctrl/missionctrl-api/internal/delivery/http/v1"
	"github.com/missionctrl/missionctrl-api/internal/services"
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

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = httpCfg.AllowedOrigins
	router.Use(cors.New(corsCfg))

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
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
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
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	v1Handler := v1.New(globalLogger, taskService)

	tasksRouter := router.Group("/api/missionTasks")
	tasksRouter.GET("", v1Handler.HandleGetTasks)
	tasksRouter.GET("/board", v1Handler.HandleGetBoard)
	tasksRouter.GET("/:id", v1Handler.HandleGetTask)
	tasksRouter.POST("", v1Handler.HandleCreateTask)
	tasksRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
}
