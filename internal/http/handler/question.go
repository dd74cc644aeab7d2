package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/service"
	"github.com/roguepikachu/quizbank/internal/validation"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// QuestionService defines the question handler's dependency contract.
type QuestionService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Question, error)
	ListFiltered(ctx context.Context, f domain.QuestionFilter, page domain.PageRequest) (domain.Page[domain.Question], error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, page domain.PageRequest) (domain.Page[domain.Question], error)
	ListByCategoryAndDifficulty(ctx context.Context, categoryID uuid.UUID, d domain.Difficulty, page domain.PageRequest) (domain.Page[domain.Question], error)
	SampleRandom(ctx context.Context, categoryID uuid.UUID, d domain.Difficulty, limit int) ([]domain.Question, error)
	Count(ctx context.Context, f domain.QuestionFilter) (int64, error)
	Create(ctx context.Context, in service.QuestionInput) (domain.Question, error)
	Update(ctx context.Context, id uuid.UUID, in service.QuestionInput) (domain.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestionHandler handles HTTP requests for questions.
type QuestionHandler struct {
	svc QuestionService
}

// NewQuestionHandler constructs a QuestionHandler.
func NewQuestionHandler(svc QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

func inputFromRequest(req domain.QuestionRequestDTO) service.QuestionInput {
	return service.QuestionInput{
		Question:    req.Question,
		Answer:      req.Answer,
		CodeSnippet: req.CodeSnippet,
		Difficulty:  req.Difficulty,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	}
}

func (h *QuestionHandler) respondPage(c *gin.Context, page domain.Page[domain.Question], err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.MapPage(page, toQuestionDTO))
}

// List handles GET /questions with optional categoryId, difficulty and tagId filters. Every
// supplied filter applies.
func (h *QuestionHandler) List(c *gin.Context) {
	page, err := pageRequest(c, true)
	if err != nil {
		respondError(c, err)
		return
	}
	var f domain.QuestionFilter
	if f.CategoryID, err = optionalQueryUUID(c, "categoryId"); err != nil {
		respondError(c, err)
		return
	}
	if f.Difficulty, err = optionalQueryDifficulty(c, "difficulty"); err != nil {
		respondError(c, err)
		return
	}
	if f.TagID, err = optionalQueryUUID(c, "tagId"); err != nil {
		respondError(c, err)
		return
	}
	result, err := h.svc.ListFiltered(c.Request.Context(), f, page)
	if err == nil {
		logger.With(c.Request.Context(), map[string]any{"page": page.Page, "size": page.Size, "total": result.TotalElements}).Debug("questions listed")
	}
	h.respondPage(c, result, err)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuestionDTO(q))
}

// ListByCategory handles GET /questions/category/:categoryId.
func (h *QuestionHandler) ListByCategory(c *gin.Context) {
	categoryID, err := pathUUID(c, "categoryId")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := pageRequest(c, false)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.svc.ListByCategory(c.Request.Context(), categoryID, page)
	h.respondPage(c, result, err)
}

// ListByCategoryAndDifficulty handles GET /questions/category/:categoryId/difficulty/:difficulty.
func (h *QuestionHandler) ListByCategoryAndDifficulty(c *gin.Context) {
	categoryID, err := pathUUID(c, "categoryId")
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := domain.ParseDifficulty(c.Param("difficulty"))
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := pageRequest(c, false)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.svc.ListByCategoryAndDifficulty(c.Request.Context(), categoryID, d, page)
	h.respondPage(c, result, err)
}

// Random handles GET /questions/random for practice sessions.
func (h *QuestionHandler) Random(c *gin.Context) {
	categoryID, err := optionalQueryUUID(c, "categoryId")
	if err != nil {
		respondError(c, err)
		return
	}
	if categoryID == nil {
		respondError(c, apperr.Validation("categoryId is required"))
		return
	}
	d, err := optionalQueryDifficulty(c, "difficulty")
	if err != nil {
		respondError(c, err)
		return
	}
	if d == nil {
		respondError(c, apperr.Validation("difficulty is required"))
		return
	}
	limit := service.SampleDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			respondError(c, apperr.Validationf("limit must be an integer: %s", raw))
			return
		}
	}
	qs, err := h.svc.SampleRandom(c.Request.Context(), *categoryID, *d, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]domain.QuestionResponseDTO, 0, len(qs))
	for _, q := range qs {
		resp = append(resp, toQuestionDTO(q))
	}
	c.JSON(http.StatusOK, resp)
}

// Count handles GET /questions/count and answers with a bare integer.
func (h *QuestionHandler) Count(c *gin.Context) {
	var (
		f   domain.QuestionFilter
		err error
	)
	if f.CategoryID, err = optionalQueryUUID(c, "categoryId"); err != nil {
		respondError(c, err)
		return
	}
	if f.Difficulty, err = optionalQueryDifficulty(c, "difficulty"); err != nil {
		respondError(c, err)
		return
	}
	n, err := h.svc.Count(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req domain.QuestionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err))
		return
	}
	q, err := h.svc.Create(c.Request.Context(), inputFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuestionDTO(q))
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req domain.QuestionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err))
		return
	}
	q, err := h.svc.Update(c.Request.Context(), id, inputFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuestionDTO(q))
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
