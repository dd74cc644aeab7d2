package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
)

// TagRepository implements repository.TagRepository using Postgres.
type TagRepository struct {
	db dbtx
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()
	res := make([]domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		res = append(res, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return res, nil
}

// FindByID retrieves a tag by its ID.
func (r *TagRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	var t domain.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM tags WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return domain.Tag{}, translate("query tag", err)
	}
	return t, nil
}

// FindByName retrieves a tag by name, ignoring case.
func (r *TagRepository) FindByName(ctx context.Context, name string) (domain.Tag, error) {
	var t domain.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM tags WHERE lower(name) = lower($1)`, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return domain.Tag{}, translate("query tag by name", err)
	}
	return t, nil
}

// Insert adds a new tag, failing with ErrAlreadyExists on a name collision.
func (r *TagRepository) Insert(ctx context.Context, t domain.Tag) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO tags (id, name, created_at) VALUES ($1, $2, $3)`, t.ID, t.Name, t.CreatedAt); err != nil {
		return translate("insert tag", err)
	}
	return nil
}

// InsertIfAbsent adds a tag unless one with the same name already exists.
func (r *TagRepository) InsertIfAbsent(ctx context.Context, t domain.Tag) (bool, error) {
	const q = `
INSERT INTO tags (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT ((lower(name))) DO NOTHING
`
	ct, err := r.db.Exec(ctx, q, t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return false, translate("insert tag", err)
	}
	return ct.RowsAffected() == 1, nil
}

// Update renames a tag.
func (r *TagRepository) Update(ctx context.Context, t domain.Tag) error {
	ct, err := r.db.Exec(ctx, `UPDATE tags SET name = $2 WHERE id = $1`, t.ID, t.Name)
	if err != nil {
		return translate("update tag", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a tag and, by cascade, its question relations.
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return translate("delete tag", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TagRepository = (*TagRepository)(nil)
