package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/validation"
)

// TagService defines the tag handler's dependency contract.
type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	GetByName(ctx context.Context, name string) (domain.Tag, error)
	Create(ctx context.Context, name string) (domain.Tag, error)
	Update(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	svc TagService
}

// NewTagHandler constructs a TagHandler.
func NewTagHandler(svc TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]domain.TagResponseDTO, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, toTagDTO(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TagHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagDTO(t))
}

// GetByName looks a tag up by its case-insensitive name.
func (h *TagHandler) GetByName(c *gin.Context) {
	t, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagDTO(t))
}

func (h *TagHandler) Create(c *gin.Context) {
	var req domain.TagRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err))
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTagDTO(t))
}

func (h *TagHandler) Update(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req domain.TagRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err))
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagDTO(t))
}

func (h *TagHandler) Delete(c *gin.Context) {
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
