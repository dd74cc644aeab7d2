package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
)

// QuestionRepository implements repository.QuestionRepository using Postgres.
type QuestionRepository struct {
	db dbtx
}

const questionSelect = `
SELECT q.id, q.question, q.answer, q.code_snippet, q.difficulty, q.category_id, c.name, c.color, q.created_at
FROM questions q
JOIN categories c ON c.id = q.category_id
`

// where renders the filter as a WHERE clause with positional arguments.
func where(f domain.QuestionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("q.category_id = $%d", len(args)))
	}
	if f.Difficulty != nil {
		args = append(args, string(*f.Difficulty))
		conds = append(conds, fmt.Sprintf("q.difficulty = $%d", len(args)))
	}
	if f.TagID != nil {
		args = append(args, *f.TagID)
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = q.id AND qt.tag_id = $%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy only emits whitelisted columns.
func orderBy(p domain.PageRequest) string {
	col, ok := domain.QuestionSortColumns[p.SortBy]
	if !ok {
		col = domain.QuestionSortColumns[domain.DefaultSortBy]
	}
	dir := "DESC"
	if p.SortDir == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY q.%s %s, q.id %s", col, dir, dir)
}

func (r *QuestionRepository) collect(ctx context.Context, sql string, args ...any) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()
	res := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		res = append(res, q)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if err := r.loadTags(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q          domain.Question
		snippet    *string
		difficulty string
	)
	err := row.Scan(&q.ID, &q.Question, &q.Answer, &snippet, &difficulty, &q.CategoryID, &q.CategoryName, &q.CategoryColor, &q.CreatedAt)
	if err != nil {
		return domain.Question{}, err
	}
	q.CodeSnippet = deref(snippet)
	q.Difficulty = domain.Difficulty(difficulty)
	return q, nil
}

// loadTags fills the tags of every question in one round trip.
func (r *QuestionRepository) loadTags(ctx context.Context, qs []domain.Question) error {
	if len(qs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(qs))
	index := make(map[uuid.UUID]int, len(qs))
	for i := range qs {
		ids[i] = qs[i].ID
		index[qs[i].ID] = i
		qs[i].Tags = []domain.Tag{}
	}
	const q = `
SELECT qt.question_id, t.id, t.name, t.created_at
FROM question_tags qt
JOIN tags t ON t.id = qt.tag_id
WHERE qt.question_id = ANY($1)
ORDER BY t.name
`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("load question tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			qid uuid.UUID
			t   domain.Tag
		)
		if err := rows.Scan(&qid, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan question tag: %w", err)
		}
		i := index[qid]
		qs[i].Tags = append(qs[i].Tags, t)
	}
	return rows.Err()
}

// FindByID retrieves a question with its category summary and tags.
func (r *QuestionRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, questionSelect+" WHERE q.id = $1", id))
	if err != nil {
		return domain.Question{}, translate("query question", err)
	}
	qs := []domain.Question{q}
	if err := r.loadTags(ctx, qs); err != nil {
		return domain.Question{}, err
	}
	return qs[0], nil
}

// FindByIDForUpdate locks the question row, waiting for concurrent writers, and returns the
// row as they left it.
func (r *QuestionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, questionSelect+" WHERE q.id = $1 FOR UPDATE OF q", id))
	if err != nil {
		return domain.Question{}, translate("lock question", err)
	}
	qs := []domain.Question{q}
	if err := r.loadTags(ctx, qs); err != nil {
		return domain.Question{}, err
	}
	return qs[0], nil
}

// List returns one page of questions matching the filter, plus the total match count.
func (r *QuestionRepository) List(ctx context.Context, f domain.QuestionFilter, page domain.PageRequest) ([]domain.Question, int64, error) {
	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	cond, args := where(f)
	args = append(args, page.Size, page.Offset())
	sql := questionSelect + cond + orderBy(page) + fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	res, err := r.collect(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

// Sample returns up to limit random questions of one category and difficulty.
func (r *QuestionRepository) Sample(ctx context.Context, categoryID uuid.UUID, difficulty domain.Difficulty, limit int) ([]domain.Question, error) {
	sql := questionSelect + " WHERE q.category_id = $1 AND q.difficulty = $2 ORDER BY random() LIMIT $3"
	return r.collect(ctx, sql, categoryID, string(difficulty), limit)
}

// Count returns the number of questions matching the filter.
func (r *QuestionRepository) Count(ctx context.Context, f domain.QuestionFilter) (int64, error) {
	cond, args := where(f)
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM questions q"+cond, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// Insert adds a question row. Tags are written separately with ReplaceTags.
func (r *QuestionRepository) Insert(ctx context.Context, q domain.Question) error {
	const sql = `
INSERT INTO questions (id, question, answer, code_snippet, difficulty, category_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.db.Exec(ctx, sql, q.ID, q.Question, q.Answer, nullable(q.CodeSnippet), string(q.Difficulty), q.CategoryID, q.CreatedAt)
	if err != nil {
		return translate("insert question", err)
	}
	return nil
}

// Update overwrites the scalar fields and category of a question.
func (r *QuestionRepository) Update(ctx context.Context, q domain.Question) error {
	const sql = `
UPDATE questions
SET question = $2, answer = $3, code_snippet = $4, difficulty = $5, category_id = $6
WHERE id = $1
`
	ct, err := r.db.Exec(ctx, sql, q.ID, q.Question, q.Answer, nullable(q.CodeSnippet), string(q.Difficulty), q.CategoryID)
	if err != nil {
		return translate("update question", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a question; its tag relations cascade.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return translate("delete question", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceTags sets the tag relations of a question to exactly tagIDs.
func (r *QuestionRepository) ReplaceTags(ctx context.Context, questionID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM question_tags WHERE question_id = $1`, questionID); err != nil {
		return translate("clear question tags", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	const sql = `
INSERT INTO question_tags (question_id, tag_id)
SELECT $1, unnest($2::uuid[])
ON CONFLICT DO NOTHING
`
	if _, err := r.db.Exec(ctx, sql, questionID, tagIDs); err != nil {
		return translate("insert question tags", err)
	}
	return nil
}

var _ repository.QuestionRepository = (*QuestionRepository)(nil)
