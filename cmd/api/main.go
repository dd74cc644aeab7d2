// Package main is the entry point for the quizbank API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/roguepikachu/quizbank/internal/config"
	"github.com/roguepikachu/quizbank/internal/data"
	"github.com/roguepikachu/quizbank/internal/http/handler"
	"github.com/roguepikachu/quizbank/internal/http/router"
	"github.com/roguepikachu/quizbank/internal/repository/postgres"
	"github.com/roguepikachu/quizbank/internal/service"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InitLogging()
	config.InitConf()

	pool, err := data.NewPostgresPool(ctx, config.Conf)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal(ctx, "failed to prepare schema: %v", err)
	}

	engine := router.NewRouter(router.Handlers{
		Categories: handler.NewCategoryHandler(service.NewCategoryService(store)),
		Tags:       handler.NewTagHandler(service.NewTagService(store)),
		Questions:  handler.NewQuestionHandler(service.NewQuestionService(store)),
		Health:     handler.NewHealthHandler(pool),
	}, config.Conf.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + config.Conf.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "quizbank API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Conf.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed: %v", err)
	}
}
