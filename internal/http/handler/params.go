package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/validation"
)

func parseUUID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid %s: '%s' is not a valid UUID", name, raw)
	}
	return id, nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	return parseUUID(name, c.Param(name))
}

// optionalQueryUUID returns nil when the query parameter is absent or empty.
func optionalQueryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalQueryDifficulty(c *gin.Context, name string) (*domain.Difficulty, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDifficulty(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type pageQuery struct {
	Page    int    `form:"page,default=0"`
	Size    int    `form:"size,default=20"`
	SortBy  string `form:"sortBy,default=createdAt"`
	SortDir string `form:"sortDir,default=DESC"`
}

// pageRequest reads page, size, sortBy and sortDir. With sortable false only page and size are
// honored and results are newest first.
func pageRequest(c *gin.Context, sortable bool) (domain.PageRequest, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return domain.PageRequest{}, validation.FromBindError(err)
	}
	if !sortable {
		q.SortBy, q.SortDir = domain.DefaultSortBy, string(domain.SortDesc)
	}
	return domain.NewPageRequest(q.Page, q.Size, q.SortBy, q.SortDir)
}
