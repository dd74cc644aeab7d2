package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// TagService manages tags directly. Question writes go through TagResolver instead.
type TagService struct {
	store repository.Store
	clock Clock
	newID func() uuid.UUID
}

// NewTagService constructs a TagService.
func NewTagService(store repository.Store, opts ...Option) *TagService {
	o := newOptions(opts)
	return &TagService{store: store, clock: o.clock, newID: o.newID}
}

func tagError(err error, field string, value any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Tag", field, value)
	}
	return fmt.Errorf("tag %v: %w", value, err)
}

func validateExplicitTagName(n string) error {
	if l := utf8.RuneCountInString(n); l < TagNameMinLength || l > TagNameMaxLength {
		return apperr.Validationf("tag name must be between %d and %d characters", TagNameMinLength, TagNameMaxLength)
	}
	return nil
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.store.Tags().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns one tag.
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	t, err := s.store.Tags().FindByID(ctx, id)
	if err != nil {
		return domain.Tag{}, tagError(err, "id", id)
	}
	return t, nil
}

// GetByName looks a tag up by name, ignoring case and surrounding whitespace.
func (s *TagService) GetByName(ctx context.Context, name string) (domain.Tag, error) {
	n := NormalizeTagName(name)
	t, err := s.store.Tags().FindByName(ctx, n)
	if err != nil {
		return domain.Tag{}, tagError(err, "name", n)
	}
	return t, nil
}

// Create stores a new tag. An existing tag with the same normalized name is a duplicate.
func (s *TagService) Create(ctx context.Context, name string) (domain.Tag, error) {
	n := NormalizeTagName(name)
	if err := validateExplicitTagName(n); err != nil {
		return domain.Tag{}, err
	}
	t := domain.Tag{ID: s.newID(), Name: n, CreatedAt: s.clock.Now()}
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Tags().FindByName(ctx, n); err == nil {
			return apperr.Duplicate("Tag", "name", n)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.Tags().Insert(ctx, t); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return apperr.Duplicate("Tag", "name", n).WithCause(err)
			}
			return fmt.Errorf("insert tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Tag{}, err
	}
	logger.With(ctx, map[string]any{"tag_id": t.ID, "name": n}).Info("tag created")
	return t, nil
}

// Update renames a tag.
func (s *TagService) Update(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error) {
	n := NormalizeTagName(name)
	if err := validateExplicitTagName(n); err != nil {
		return domain.Tag{}, err
	}
	var out domain.Tag
	err := s.store.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		cur, err := tx.Tags().FindByID(ctx, id)
		if err != nil {
			return tagError(err, "id", id)
		}
		if other, err := tx.Tags().FindByName(ctx, n); err == nil && other.ID != id {
			return apperr.Duplicate("Tag", "name", n)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		cur.Name = n
		if err := tx.Tags().Update(ctx, cur); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return apperr.Duplicate("Tag", "name", n).WithCause(err)
			}
			return tagError(err, "id", id)
		}
		out = cur
		return nil
	})
	if err != nil {
		return domain.Tag{}, err
	}
	logger.WithField(ctx, "tag_id", id).Info("tag updated")
	return out, nil
}

// Delete removes a tag and its question relations. Questions themselves are untouched.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Tags().Delete(ctx, id); err != nil {
		return tagError(err, "id", id)
	}
	logger.WithField(ctx, "tag_id", id).Info("tag deleted")
	return nil
}
