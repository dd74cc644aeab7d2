package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// CategoryService manages categories. The question count is never written from input.
type CategoryService struct {
	store repository.Store
	clock Clock
	newID func() uuid.UUID
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(store repository.Store, opts ...Option) *CategoryService {
	o := newOptions(opts)
	return &CategoryService{store: store, clock: o.clock, newID: o.newID}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, categoryError(err, id)
	}
	return c, nil
}

// Create stores a new category with a zero question count.
func (s *CategoryService) Create(ctx context.Context, in domain.Category) (domain.Category, error) {
	c := domain.Category{
		ID:        s.newID(),
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: s.clock.Now(),
	}
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		exists, err := tx.Categories().ExistsByName(ctx, c.Name)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Duplicate("Category", "name", c.Name)
		}
		if err := tx.Categories().Insert(ctx, c); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return apperr.Duplicate("Category", "name", c.Name).WithCause(err)
			}
			return fmt.Errorf("insert category: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	logger.With(ctx, map[string]any{"category_id": c.ID, "name": c.Name}).Info("category created")
	return c, nil
}

// Update changes name, color and icon.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in domain.Category) (domain.Category, error) {
	var out domain.Category
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		cur, err := tx.Categories().FindByID(ctx, id)
		if err != nil {
			return categoryError(err, id)
		}
		if in.Name != cur.Name {
			exists, err := tx.Categories().ExistsByName(ctx, in.Name)
			if err != nil {
				return err
			}
			if exists {
				return apperr.Duplicate("Category", "name", in.Name)
			}
		}
		cur.Name, cur.Color, cur.Icon = in.Name, in.Color, in.Icon
		if err := tx.Categories().Update(ctx, cur); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return apperr.Duplicate("Category", "name", in.Name).WithCause(err)
			}
			return categoryError(err, id)
		}
		out = cur
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	logger.WithField(ctx, "category_id", id).Info("category updated")
	return out, nil
}

// Delete removes an empty category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		c, err := GuardDeletable(ctx, tx.Categories(), id)
		if err != nil {
			return err
		}
		err = tx.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, sp repository.Store) error {
			return sp.Categories().Delete(ctx, id)
		})
		if err != nil {
			if errors.Is(err, repository.ErrInUse) {
				n, cerr := tx.Questions().Count(ctx, domain.QuestionFilter{CategoryID: &id})
				if cerr != nil {
					return cerr
				}
				return deleteConflict(c.Name, int(n))
			}
			return categoryError(err, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.WithField(ctx, "category_id", id).Info("category deleted")
	return nil
}
