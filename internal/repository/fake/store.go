// Package fake provides an in-memory implementation of repository.Store for testing.
package fake

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
)

type state struct {
	categories   map[uuid.UUID]domain.Category
	tags         map[uuid.UUID]domain.Tag
	questions    map[uuid.UUID]domain.Question
	questionTags map[uuid.UUID][]uuid.UUID
}

func newState() *state {
	return &state{
		categories:   make(map[uuid.UUID]domain.Category),
		tags:         make(map[uuid.UUID]domain.Tag),
		questions:    make(map[uuid.UUID]domain.Question),
		questionTags: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.questions {
		c.questions[k] = v
	}
	for k, v := range s.questionTags {
		c.questionTags[k] = append([]uuid.UUID(nil), v...)
	}
	return c
}

// shared is the state common to the root store and its transactions.
type shared struct {
	mu        sync.Mutex
	committed *state
	shuffle   func(n int, swap func(i, j int))
	failures  map[string]error
}

// Store is an in-memory repository.Store. Transactions are serialized and work on a copy
// that replaces the committed state only when the unit of work succeeds.
type Store struct {
	sh   *shared
	st   *state
	inTx bool
}

// Option configures the fake store.
type Option func(*Store)

// WithCategories seeds the store with the provided categories.
func WithCategories(items ...domain.Category) Option {
	return func(s *Store) {
		for _, c := range items {
			s.sh.committed.categories[c.ID] = c
		}
	}
}

// WithTags seeds the store with the provided tags.
func WithTags(items ...domain.Tag) Option {
	return func(s *Store) {
		for _, t := range items {
			s.sh.committed.tags[t.ID] = t
		}
	}
}

// WithShuffle overrides the permutation used by Sample.
func WithShuffle(f func(n int, swap func(i, j int))) Option {
	return func(s *Store) { s.sh.shuffle = f }
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{sh: &shared{committed: newState(), shuffle: rand.Shuffle, failures: map[string]error{}}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailNext makes the next call of the named operation (e.g. "categories.IncrementQuestionCount")
// return err.
func (s *Store) FailNext(op string, err error) {
	s.sh.mu.Lock()
	defer s.sh.mu.Unlock()
	s.sh.failures[op] = err
}

// Categories implements repository.Store.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

// Tags implements repository.Store.
func (s *Store) Tags() repository.TagRepository { return tagRepo{s} }

// Questions implements repository.Store.
func (s *Store) Questions() repository.QuestionRepository { return questionRepo{s} }

// WithTx implements repository.Store. A nested call behaves like a savepoint: its changes reach
// the outer transaction only when fn succeeds.
func (s *Store) WithTx(ctx context.Context, _ repository.TxOptions, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		sp := &Store{sh: s.sh, st: s.st.clone(), inTx: true}
		if err := fn(ctx, sp); err != nil {
			return err
		}
		*s.st = *sp.st
		return nil
	}
	s.sh.mu.Lock()
	defer s.sh.mu.Unlock()

	tx := &Store{sh: s.sh, st: s.sh.committed.clone(), inTx: true}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.sh.committed = tx.st
	return nil
}

// view runs f against the state visible to s. Outside a transaction it takes the lock and, for
// writes, commits immediately.
func (s *Store) view(f func(st *state) error) error {
	if s.inTx {
		return f(s.st)
	}
	s.sh.mu.Lock()
	defer s.sh.mu.Unlock()
	return f(s.sh.committed)
}

// fail consumes an injected failure for op. Called with the lock held.
func (s *Store) fail(op string) error {
	if err, ok := s.sh.failures[op]; ok {
		delete(s.sh.failures, op)
		return err
	}
	return nil
}

// QuestionCount returns the live number of questions referencing categoryID.
func (s *Store) QuestionCount(categoryID uuid.UUID) int {
	n := 0
	_ = s.view(func(st *state) error {
		for _, q := range st.questions {
			if q.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n
}

// TagCount returns the number of stored tags.
func (s *Store) TagCount() int {
	n := 0
	_ = s.view(func(st *state) error {
		n = len(st.tags)
		return nil
	})
	return n
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.s.view(func(st *state) error {
		out = make([]domain.Category, 0, len(st.categories))
		for _, c := range st.categories {
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r categoryRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Category, error) {
	var c domain.Category
	err := r.s.view(func(st *state) error {
		var ok bool
		if c, ok = st.categories[id]; !ok {
			return repository.ErrNotFound
		}
		return nil
	})
	return c, err
}

func (r categoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	return r.FindByID(ctx, id)
}

func (r categoryRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	found := false
	err := r.s.view(func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r categoryRepo) Insert(_ context.Context, c domain.Category) error {
	return r.s.view(func(st *state) error {
		if err := r.s.fail("categories.Insert"); err != nil {
			return err
		}
		for _, existing := range st.categories {
			if existing.Name == c.Name {
				return repository.ErrAlreadyExists
			}
		}
		st.categories[c.ID] = c
		return nil
	})
}

func (r categoryRepo) Update(_ context.Context, c domain.Category) error {
	return r.s.view(func(st *state) error {
		existing, ok := st.categories[c.ID]
		if !ok {
			return repository.ErrNotFound
		}
		for _, other := range st.categories {
			if other.ID != c.ID && other.Name == c.Name {
				return repository.ErrAlreadyExists
			}
		}
		existing.Name, existing.Color, existing.Icon = c.Name, c.Color, c.Icon
		st.categories[c.ID] = existing
		return nil
	})
}

func (r categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return repository.ErrNotFound
		}
		for _, q := range st.questions {
			if q.CategoryID == id {
				return repository.ErrInUse
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func (r categoryRepo) IncrementQuestionCount(_ context.Context, id uuid.UUID) error {
	return r.s.view(func(st *state) error {
		if err := r.s.fail("categories.IncrementQuestionCount"); err != nil {
			return err
		}
		c, ok := st.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		c.QuestionCount++
		st.categories[id] = c
		return nil
	})
}

func (r categoryRepo) DecrementQuestionCount(_ context.Context, id uuid.UUID) (bool, error) {
	decremented := false
	err := r.s.view(func(st *state) error {
		if err := r.s.fail("categories.DecrementQuestionCount"); err != nil {
			return err
		}
		c, ok := st.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		if c.QuestionCount > 0 {
			c.QuestionCount--
			st.categories[id] = c
			decremented = true
		}
		return nil
	})
	return decremented, err
}

// SetQuestionCount overwrites a stored counter. Tests use it to simulate drift.
func (s *Store) SetQuestionCount(id uuid.UUID, n int) {
	_ = s.view(func(st *state) error {
		c := st.categories[id]
		c.QuestionCount = n
		st.categories[id] = c
		return nil
	})
}

type tagRepo struct{ s *Store }

func (r tagRepo) List(_ context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	err := r.s.view(func(st *state) error {
		out = make([]domain.Tag, 0, len(st.tags))
		for _, t := range st.tags {
			out = append(out, t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r tagRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Tag, error) {
	var t domain.Tag
	err := r.s.view(func(st *state) error {
		var ok bool
		if t, ok = st.tags[id]; !ok {
			return repository.ErrNotFound
		}
		return nil
	})
	return t, err
}

func (r tagRepo) FindByName(_ context.Context, name string) (domain.Tag, error) {
	var t domain.Tag
	err := r.s.view(func(st *state) error {
		if found, ok := findTag(st, name); ok {
			t = found
			return nil
		}
		return repository.ErrNotFound
	})
	return t, err
}

func findTag(st *state, name string) (domain.Tag, bool) {
	for _, t := range st.tags {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return domain.Tag{}, false
}

func (r tagRepo) Insert(_ context.Context, t domain.Tag) error {
	return r.s.view(func(st *state) error {
		if _, ok := findTag(st, t.Name); ok {
			return repository.ErrAlreadyExists
		}
		st.tags[t.ID] = t
		return nil
	})
}

func (r tagRepo) InsertIfAbsent(_ context.Context, t domain.Tag) (bool, error) {
	created := false
	err := r.s.view(func(st *state) error {
		if err := r.s.fail("tags.InsertIfAbsent"); err != nil {
			return err
		}
		if _, ok := findTag(st, t.Name); ok {
			return nil
		}
		st.tags[t.ID] = t
		created = true
		return nil
	})
	return created, err
}

func (r tagRepo) Update(_ context.Context, t domain.Tag) error {
	return r.s.view(func(st *state) error {
		existing, ok := st.tags[t.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if other, ok := findTag(st, t.Name); ok && other.ID != t.ID {
			return repository.ErrAlreadyExists
		}
		existing.Name = t.Name
		st.tags[t.ID] = existing
		return nil
	})
}

func (r tagRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.tags[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.tags, id)
		for qid, ids := range st.questionTags {
			st.questionTags[qid] = without(ids, id)
		}
		return nil
	})
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type questionRepo struct{ s *Store }

// hydrate fills the category summary and tags of q from st.
func hydrate(st *state, q domain.Question) domain.Question {
	if c, ok := st.categories[q.CategoryID]; ok {
		q.CategoryName, q.CategoryColor = c.Name, c.Color
	}
	q.Tags = make([]domain.Tag, 0, len(st.questionTags[q.ID]))
	for _, id := range st.questionTags[q.ID] {
		if t, ok := st.tags[id]; ok {
			q.Tags = append(q.Tags, t)
		}
	}
	sort.Slice(q.Tags, func(i, j int) bool { return q.Tags[i].Name < q.Tags[j].Name })
	return q
}

func matches(st *state, q domain.Question, f domain.QuestionFilter) bool {
	if f.CategoryID != nil && q.CategoryID != *f.CategoryID {
		return false
	}
	if f.Difficulty != nil && q.Difficulty != *f.Difficulty {
		return false
	}
	if f.TagID != nil {
		found := false
		for _, id := range st.questionTags[q.ID] {
			if id == *f.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r questionRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Question, error) {
	var q domain.Question
	err := r.s.view(func(st *state) error {
		stored, ok := st.questions[id]
		if !ok {
			return repository.ErrNotFound
		}
		q = hydrate(st, stored)
		return nil
	})
	return q, err
}

// FindByIDForUpdate implements repository.QuestionRepository. Transactions are already serialized.
func (r questionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Question, error) {
	return r.FindByID(ctx, id)
}

func less(a, b domain.Question, sortBy string) int {
	switch sortBy {
	case "question":
		return strings.Compare(a.Question, b.Question)
	case "difficulty":
		return strings.Compare(string(a.Difficulty), string(b.Difficulty))
	case "id":
		return strings.Compare(a.ID.String(), b.ID.String())
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r questionRepo) List(_ context.Context, f domain.QuestionFilter, page domain.PageRequest) ([]domain.Question, int64, error) {
	var items []domain.Question
	err := r.s.view(func(st *state) error {
		for _, q := range st.questions {
			if matches(st, q, f) {
				items = append(items, hydrate(st, q))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(items, func(i, j int) bool {
		c := less(items[i], items[j], page.SortBy)
		if c == 0 {
			c = strings.Compare(items[i].ID.String(), items[j].ID.String())
		}
		if page.SortDir == domain.SortAsc {
			return c < 0
		}
		return c > 0
	})
	total := int64(len(items))
	start := page.Offset()
	if start >= len(items) {
		return []domain.Question{}, total, nil
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}

func (r questionRepo) Sample(_ context.Context, categoryID uuid.UUID, difficulty domain.Difficulty, limit int) ([]domain.Question, error) {
	var pool []domain.Question
	f := domain.QuestionFilter{CategoryID: &categoryID, Difficulty: &difficulty}
	err := r.s.view(func(st *state) error {
		for _, q := range st.questions {
			if matches(st, q, f) {
				pool = append(pool, hydrate(st, q))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.s.sh.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

func (r questionRepo) Count(_ context.Context, f domain.QuestionFilter) (int64, error) {
	var n int64
	err := r.s.view(func(st *state) error {
		for _, q := range st.questions {
			if matches(st, q, f) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r questionRepo) Insert(_ context.Context, q domain.Question) error {
	return r.s.view(func(st *state) error {
		if err := r.s.fail("questions.Insert"); err != nil {
			return err
		}
		if _, ok := st.categories[q.CategoryID]; !ok {
			return repository.ErrNotFound
		}
		q.Tags = nil
		st.questions[q.ID] = q
		return nil
	})
}

func (r questionRepo) Update(_ context.Context, q domain.Question) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.questions[q.ID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := st.categories[q.CategoryID]; !ok {
			return repository.ErrNotFound
		}
		q.Tags = nil
		st.questions[q.ID] = q
		return nil
	})
}

func (r questionRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.questions[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.questions, id)
		delete(st.questionTags, id)
		return nil
	})
}

func (r questionRepo) ReplaceTags(_ context.Context, questionID uuid.UUID, tagIDs []uuid.UUID) error {
	return r.s.view(func(st *state) error {
		if err := r.s.fail("questions.ReplaceTags"); err != nil {
			return err
		}
		seen := make(map[uuid.UUID]bool, len(tagIDs))
		ids := make([]uuid.UUID, 0, len(tagIDs))
		for _, id := range tagIDs {
			if _, ok := st.tags[id]; !ok {
				return repository.ErrNotFound
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		st.questionTags[questionID] = ids
		return nil
	})
}

var _ repository.Store = (*Store)(nil)
