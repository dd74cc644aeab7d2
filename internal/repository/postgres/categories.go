package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
)

// CategoryRepository implements repository.CategoryRepository using Postgres.
type CategoryRepository struct {
	db dbtx
}

const categoryColumns = `id, name, color, icon, question_count, created_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var (
		c    domain.Category
		icon *string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &icon, &c.QuestionCount, &c.CreatedAt); err != nil {
		return domain.Category{}, err
	}
	c.Icon = deref(icon)
	return c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	res := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		res = append(res, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return res, nil
}

// FindByID retrieves a category by its ID.
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return domain.Category{}, translate("query category", err)
	}
	return c, nil
}

// FindByIDForUpdate retrieves a category and locks its row for the rest of the transaction.
func (r *CategoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return domain.Category{}, translate("lock category", err)
	}
	return c, nil
}

// ExistsByName reports whether a category with exactly this name exists.
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return exists, nil
}

// Insert adds a new category. The question count starts at the value carried by c.
func (r *CategoryRepository) Insert(ctx context.Context, c domain.Category) error {
	const q = `
INSERT INTO categories (id, name, color, icon, question_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	if _, err := r.db.Exec(ctx, q, c.ID, c.Name, c.Color, nullable(c.Icon), c.QuestionCount, c.CreatedAt); err != nil {
		return translate("insert category", err)
	}
	return nil
}

// Update writes name, color and icon.
func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) error {
	ct, err := r.db.Exec(ctx, `UPDATE categories SET name = $2, color = $3, icon = $4 WHERE id = $1`,
		c.ID, c.Name, c.Color, nullable(c.Icon))
	if err != nil {
		return translate("update category", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a category. Referencing questions block the delete.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("delete category: %w", repository.ErrInUse)
		}
		return translate("delete category", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementQuestionCount adds one to the stored count in a single statement.
func (r *CategoryRepository) IncrementQuestionCount(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `UPDATE categories SET question_count = question_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment question count: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DecrementQuestionCount subtracts one unless the count is already zero.
func (r *CategoryRepository) DecrementQuestionCount(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.db.Exec(ctx, `UPDATE categories SET question_count = question_count - 1 WHERE id = $1 AND question_count > 0`, id)
	if err != nil {
		return false, fmt.Errorf("decrement question count: %w", err)
	}
	if ct.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
