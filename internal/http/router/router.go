// Package router sets up the HTTP routes for the quizbank API server.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/quizbank/internal/http/handler"
	"github.com/roguepikachu/quizbank/internal/http/middleware"
	"github.com/roguepikachu/quizbank/internal/validation"
	"github.com/roguepikachu/quizbank/pkg"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Categories *handler.CategoryHandler
	Tags       *handler.TagHandler
	Questions  *handler.QuestionHandler
	Health     *handler.HealthHandler
}

// NewRouter builds the gin engine with middleware and every API route under /api.
func NewRouter(h Handlers, corsOrigins []string) *gin.Engine {
	validation.Register()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(corsOrigins))
	r.NoRoute(handler.NotFound)
	r.NoMethod(handler.MethodNotAllowed)

	api := r.Group(pkg.BasePath)

	categories := api.Group("/categories")
	categories.GET("", h.Categories.List)
	categories.POST("", h.Categories.Create)
	categories.GET("/:id", h.Categories.Get)
	categories.PUT("/:id", h.Categories.Update)
	categories.DELETE("/:id", h.Categories.Delete)

	tags := api.Group("/tags")
	tags.GET("", h.Tags.List)
	tags.POST("", h.Tags.Create)
	tags.GET("/name/:name", h.Tags.GetByName)
	tags.GET("/:id", h.Tags.Get)
	tags.PUT("/:id", h.Tags.Update)
	tags.DELETE("/:id", h.Tags.Delete)

	questions := api.Group("/questions")
	questions.GET("", h.Questions.List)
	questions.POST("", h.Questions.Create)
	questions.GET("/random", h.Questions.Random)
	questions.GET("/count", h.Questions.Count)
	questions.GET("/category/:categoryId", h.Questions.ListByCategory)
	questions.GET("/category/:categoryId/difficulty/:difficulty", h.Questions.ListByCategoryAndDifficulty)
	questions.GET("/:id", h.Questions.Get)
	questions.PUT("/:id", h.Questions.Update)
	questions.DELETE("/:id", h.Questions.Delete)

	api.GET("/health", handler.Health)
	api.GET("/health/ping", handler.Ping)
	api.GET("/livez", h.Health.Liveness)
	api.GET("/readyz", h.Health.Readiness)

	return r
}
