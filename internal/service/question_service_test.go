package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository/fake"
)

var fixedNow = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *fake.Store
	qs    *QuestionService
	cs    *CategoryService
	a, b  domain.Category
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	a := domain.Category{ID: uuid.New(), Name: "Go", Color: "#00ADD8", CreatedAt: fixedNow}
	b := domain.Category{ID: uuid.New(), Name: "Java", Color: "#F89820", CreatedAt: fixedNow}
	store := fake.NewStore(fake.WithCategories(a, b))
	opts := []Option{WithClock(stubClock{t: fixedNow})}
	return fixture{
		store: store,
		qs:    NewQuestionService(store, opts...),
		cs:    NewCategoryService(store, opts...),
		a:     a,
		b:     b,
	}
}

func (f fixture) count(t *testing.T, id uuid.UUID) int {
	t.Helper()
	c, err := f.cs.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	return c.QuestionCount
}

func (f fixture) create(t *testing.T, cat uuid.UUID, d domain.Difficulty, tags ...string) domain.Question {
	t.Helper()
	q, err := f.qs.Create(context.Background(), QuestionInput{
		Question: "What is a goroutine?", Answer: "A lightweight thread", Difficulty: d, CategoryID: cat, Tags: tags,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return q
}

func (f fixture) assertCounterMatches(t *testing.T) {
	t.Helper()
	for _, c := range []domain.Category{f.a, f.b} {
		if got, want := f.count(t, c.ID), f.store.QuestionCount(c.ID); got != want {
			t.Fatalf("category %s: stored count %d, live count %d", c.Name, got, want)
		}
	}
}

func TestCreate_HydratesAndIncrements(t *testing.T) {
	f := newFixture(t)
	q := f.create(t, f.a.ID, domain.DifficultyBeginner, "Concurrency", "go")

	if q.CategoryName != "Go" || q.CategoryColor != "#00ADD8" {
		t.Fatalf("category summary missing: %+v", q)
	}
	if len(q.Tags) != 2 || q.Tags[0].Name != "concurrency" {
		t.Fatalf("unexpected tags: %+v", q.Tags)
	}
	if !q.CreatedAt.Equal(fixedNow) {
		t.Fatalf("createdAt not from clock: %v", q.CreatedAt)
	}
	if got := f.count(t, f.a.ID); got != 1 {
		t.Fatalf("want count 1, got %d", got)
	}
}

func TestCreate_DuplicateTagNamesCollapse(t *testing.T) {
	f := newFixture(t)
	q := f.create(t, f.a.ID, domain.DifficultyBeginner, "a", "A", " a ")
	if len(q.Tags) != 1 || q.Tags[0].Name != "a" {
		t.Fatalf("want single tag a, got %+v", q.Tags)
	}
	if n := f.store.TagCount(); n != 1 {
		t.Fatalf("want one stored tag, got %d", n)
	}
}

func TestCreate_UnknownCategoryLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	_, err := f.qs.Create(context.Background(), QuestionInput{
		Question: "q", Answer: "a", Difficulty: domain.DifficultySenior, CategoryID: uuid.New(), Tags: []string{"orphan"},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if f.count(t, f.a.ID) != 0 || f.count(t, f.b.ID) != 0 {
		t.Fatalf("counters changed")
	}
	if n := f.store.TagCount(); n != 0 {
		t.Fatalf("want no tags created, got %d", n)
	}
}

func TestCreate_IncrementFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	f.store.FailNext("categories.IncrementQuestionCount", boom)

	_, err := f.qs.Create(context.Background(), QuestionInput{
		Question: "q", Answer: "a", Difficulty: domain.DifficultySenior, CategoryID: f.a.ID, Tags: []string{"x"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	n, _ := f.qs.CountAll(context.Background())
	if n != 0 || f.store.TagCount() != 0 {
		t.Fatalf("partial write survived: questions=%d tags=%d", n, f.store.TagCount())
	}
}

func TestUpdate_MovesCountBetweenCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.create(t, f.a.ID, domain.DifficultyBeginner, "one")
	f.create(t, f.a.ID, domain.DifficultyBeginner)

	in := QuestionInput{Question: "moved", Answer: "yes", Difficulty: domain.DifficultySenior, CategoryID: f.b.ID, Tags: []string{"two"}}

	f.store.FailNext("questions.ReplaceTags", errors.New("crash"))
	if _, err := f.qs.Update(ctx, q.ID, in); err == nil {
		t.Fatalf("want injected failure")
	}
	if f.count(t, f.a.ID) != 2 || f.count(t, f.b.ID) != 0 {
		t.Fatalf("failed update leaked counter changes: a=%d b=%d", f.count(t, f.a.ID), f.count(t, f.b.ID))
	}

	got, err := f.qs.Update(ctx, q.ID, in)
	if err != nil {
		t.Fatalf("retry update: %v", err)
	}
	if f.count(t, f.a.ID) != 1 || f.count(t, f.b.ID) != 1 {
		t.Fatalf("want a=1 b=1, got a=%d b=%d", f.count(t, f.a.ID), f.count(t, f.b.ID))
	}
	if got.CategoryName != "Java" || got.Question != "moved" || got.Difficulty != domain.DifficultySenior {
		t.Fatalf("update not applied: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "two" {
		t.Fatalf("tag set not replaced: %+v", got.Tags)
	}
	f.assertCounterMatches(t)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	q := f.create(t, f.a.ID, domain.DifficultyBeginner)

	_, err := f.qs.Update(context.Background(), uuid.New(), QuestionInput{CategoryID: f.a.ID, Difficulty: domain.DifficultyBeginner})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want question not found, got %v", err)
	}
	_, err = f.qs.Update(context.Background(), q.ID, QuestionInput{CategoryID: uuid.New(), Difficulty: domain.DifficultyBeginner})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want category not found, got %v", err)
	}
	if f.count(t, f.a.ID) != 1 {
		t.Fatalf("counter changed by failed update")
	}
}

func TestDelete_DecrementsAndKeepsTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.create(t, f.a.ID, domain.DifficultyBeginner, "lonely")

	if err := f.qs.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.count(t, f.a.ID); got != 0 {
		t.Fatalf("want count 0, got %d", got)
	}
	if n := f.store.TagCount(); n != 1 {
		t.Fatalf("tag removed with question")
	}
	if err := f.qs.Delete(ctx, q.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found on second delete, got %v", err)
	}
}

func TestDelete_FloorsDriftedCounter(t *testing.T) {
	f := newFixture(t)
	q := f.create(t, f.a.ID, domain.DifficultyBeginner)
	f.store.SetQuestionCount(f.a.ID, 0)

	if err := f.qs.Delete(context.Background(), q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.count(t, f.a.ID); got != 0 {
		t.Fatalf("want floor at 0, got %d", got)
	}
}

func TestCounterInvariant_MixedSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var ids []uuid.UUID
	for i := 0; i < 6; i++ {
		cat := f.a.ID
		if i%3 == 0 {
			cat = f.b.ID
		}
		ids = append(ids, f.create(t, cat, domain.DifficultyIntermediate).ID)
	}
	for _, id := range ids[:2] {
		if _, err := f.qs.Update(ctx, id, QuestionInput{Question: "q", Answer: "a", Difficulty: domain.DifficultyBeginner, CategoryID: f.a.ID}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if err := f.qs.Delete(ctx, ids[4]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	f.assertCounterMatches(t)
}

func TestSampleRandom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.create(t, f.a.ID, domain.DifficultyBeginner)
	}
	f.create(t, f.a.ID, domain.DifficultySenior)
	f.create(t, f.b.ID, domain.DifficultyBeginner)

	got, err := f.qs.SampleRandom(ctx, f.a.ID, domain.DifficultyBeginner, 10)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("want all 5 matches, got %d", len(got))
	}
	seen := map[uuid.UUID]bool{}
	for _, q := range got {
		if q.CategoryID != f.a.ID || q.Difficulty != domain.DifficultyBeginner || seen[q.ID] {
			t.Fatalf("unexpected sample member: %+v", q)
		}
		seen[q.ID] = true
	}

	for _, limit := range []int{0, 101} {
		if _, err := f.qs.SampleRandom(ctx, f.a.ID, domain.DifficultyBeginner, limit); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("limit %d: want validation error, got %v", limit, err)
		}
	}
	if _, err := f.qs.SampleRandom(ctx, uuid.New(), domain.DifficultyBeginner, 5); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found for unknown category, got %v", err)
	}
}

func TestListFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, f.a.ID, domain.DifficultyBeginner, "x")
	f.create(t, f.a.ID, domain.DifficultySenior)
	f.create(t, f.b.ID, domain.DifficultyBeginner, "x")

	page, err := f.qs.ListByCategoryAndDifficulty(ctx, f.a.ID, domain.DifficultyBeginner, domain.DefaultPageRequest())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalElements != 1 || len(page.Content) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}

	page, err = f.qs.ListByDifficulty(ctx, domain.DifficultyBeginner, domain.PageRequest{Page: 0, Size: 1, SortBy: "createdAt", SortDir: domain.SortDesc})
	if err != nil {
		t.Fatalf("list by difficulty: %v", err)
	}
	if page.TotalElements != 2 || page.TotalPages != 2 || !page.First || page.Last {
		t.Fatalf("unexpected envelope: %+v", page)
	}

	if _, err := f.qs.ListByCategory(ctx, uuid.New(), domain.DefaultPageRequest()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found for unknown category, got %v", err)
	}
	if _, err := f.qs.ListByTag(ctx, uuid.New(), domain.DefaultPageRequest()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want not found for unknown tag, got %v", err)
	}

	all, err := f.qs.List(ctx, domain.DefaultPageRequest())
	if err != nil || all.TotalElements != 3 {
		t.Fatalf("list all: total=%d err=%v", all.TotalElements, err)
	}
}

func TestCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, f.a.ID, domain.DifficultyBeginner)
	f.create(t, f.a.ID, domain.DifficultySenior)
	f.create(t, f.b.ID, domain.DifficultySenior)

	checks := []struct {
		name string
		fn   func() (int64, error)
		want int64
	}{
		{"all", func() (int64, error) { return f.qs.CountAll(ctx) }, 3},
		{"category", func() (int64, error) { return f.qs.CountByCategory(ctx, f.a.ID) }, 2},
		{"difficulty", func() (int64, error) { return f.qs.CountByDifficulty(ctx, domain.DifficultySenior) }, 2},
		{"category+difficulty", func() (int64, error) {
			return f.qs.CountByCategoryAndDifficulty(ctx, f.b.ID, domain.DifficultySenior)
		}, 1},
		{"unknown category", func() (int64, error) { return f.qs.CountByCategory(ctx, uuid.New()) }, 0},
	}
	for _, c := range checks {
		got, err := c.fn()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: want %d, got %d", c.name, c.want, got)
		}
	}
}
