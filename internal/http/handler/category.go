package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/validation"
)

// CategoryService defines the category handler's dependency contract.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Category, error)
	Create(ctx context.Context, in domain.Category) (domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, in domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	svc CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func categoryFromRequest(req domain.CategoryRequestDTO) domain.Category {
	return domain.Category{Name: req.Name, Color: req.Color, Icon: req.Icon}
}

// List returns every category.
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]domain.CategoryResponseDTO, 0, len(cats))
	for _, cat := range cats {
		resp = append(resp, toCategoryDTO(cat))
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one category.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	cat, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryDTO(cat))
}

// Create handles the creation of a new category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req domain.CategoryRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err))
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), categoryFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryDTO(cat))
}

// Update replaces a category's name, color and icon.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req domain.CategoryRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err))
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), id, categoryFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryDTO(cat))
}

// Delete removes an empty category.
func (h *CategoryHandler) Delete(c *gin.Context) {
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
