package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

const (
	// TagNameMinLength applies to explicitly created or renamed tags.
	TagNameMinLength = 2
	// TagNameMaxLength applies to every stored tag.
	TagNameMaxLength = 50

	tagResolveAttempts = 3
)

// NormalizeTagName trims and lower-cases a tag name.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TagResolver maps raw tag names to stored tags, creating missing ones.
type TagResolver struct {
	clock Clock
	newID func() uuid.UUID
}

// NewTagResolver constructs a TagResolver.
func NewTagResolver(opts ...Option) *TagResolver {
	o := newOptions(opts)
	return &TagResolver{clock: o.clock, newID: o.newID}
}

// GetOrCreate returns the tag named name, inserting it when absent. The insert is visible to
// the surrounding transaction immediately. Losing an insert race to a concurrent writer
// falls back to re-reading the winner's row.
func (r *TagResolver) GetOrCreate(ctx context.Context, tags repository.TagRepository, name string) (domain.Tag, error) {
	n := NormalizeTagName(name)
	if n == "" {
		return domain.Tag{}, apperr.Validation("tag name must not be blank")
	}
	if utf8.RuneCountInString(n) > TagNameMaxLength {
		return domain.Tag{}, apperr.Validationf("tag name must be at most %d characters", TagNameMaxLength)
	}
	for attempt := 1; attempt <= tagResolveAttempts; attempt++ {
		t, err := tags.FindByName(ctx, n)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.Tag{}, fmt.Errorf("find tag %q: %w", n, err)
		}
		t = domain.Tag{ID: r.newID(), Name: n, CreatedAt: r.clock.Now()}
		created, err := tags.InsertIfAbsent(ctx, t)
		if err != nil {
			return domain.Tag{}, fmt.Errorf("insert tag %q: %w", n, err)
		}
		if created {
			logger.With(ctx, map[string]any{"tag_id": t.ID, "name": n}).Debug("tag created")
			return t, nil
		}
		logger.With(ctx, map[string]any{"name": n, "attempt": attempt}).Debug("tag insert lost race, re-reading")
	}
	return domain.Tag{}, apperr.Duplicate("Tag", "name", n)
}

// ResolveAll resolves every non-blank name, collapsing names that normalize to the same tag.
func (r *TagResolver) ResolveAll(ctx context.Context, tags repository.TagRepository, names []string) ([]domain.Tag, error) {
	seen := make(map[string]bool, len(names))
	out := make([]domain.Tag, 0, len(names))
	for _, raw := range names {
		n := NormalizeTagName(raw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		t, err := r.GetOrCreate(ctx, tags, n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
