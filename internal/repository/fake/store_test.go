package fake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) (*Store, domain.Category, domain.Tag) {
	t.Helper()
	cat := domain.Category{ID: uuid.New(), Name: "Go", Color: "#00ADD8"}
	tag := domain.Tag{ID: uuid.New(), Name: "concurrency"}
	return NewStore(WithCategories(cat), WithTags(tag)), cat, tag
}

func TestStore_ListFiltersSortsAndHydrates(t *testing.T) {
	s, cat, tag := seed(t)
	ctx := context.Background()
	now := time.Now()

	q1 := domain.Question{ID: uuid.New(), Question: "a", Difficulty: domain.DifficultyBeginner, CategoryID: cat.ID, CreatedAt: now}
	q2 := domain.Question{ID: uuid.New(), Question: "b", Difficulty: domain.DifficultySenior, CategoryID: cat.ID, CreatedAt: now.Add(time.Second)}
	require.NoError(t, s.Questions().Insert(ctx, q1))
	require.NoError(t, s.Questions().Insert(ctx, q2))
	require.NoError(t, s.Questions().ReplaceTags(ctx, q2.ID, []uuid.UUID{tag.ID, tag.ID}))

	got, total, err := s.Questions().List(ctx, domain.QuestionFilter{}, domain.DefaultPageRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, q2.ID, got[0].ID, "newest first")
	assert.Equal(t, "Go", got[0].CategoryName)
	require.Len(t, got[0].Tags, 1)

	got, total, err = s.Questions().List(ctx, domain.QuestionFilter{TagID: &tag.ID}, domain.DefaultPageRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, q2.ID, got[0].ID)

	page := domain.PageRequest{Page: 1, Size: 1, SortBy: "question", SortDir: domain.SortAsc}
	got, total, err = s.Questions().List(ctx, domain.QuestionFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Question)
}

func TestStore_WithTxRollsBackOnError(t *testing.T) {
	s, cat, _ := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		q := domain.Question{ID: uuid.New(), CategoryID: cat.ID, Difficulty: domain.DifficultyBeginner}
		if err := tx.Questions().Insert(ctx, q); err != nil {
			return err
		}
		if err := tx.Categories().IncrementQuestionCount(ctx, cat.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Questions().Count(ctx, domain.QuestionFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	got, err := s.Categories().FindByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuestionCount)
}

func TestStore_FailNextIsConsumedOnce(t *testing.T) {
	s, cat, _ := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")
	s.FailNext("categories.IncrementQuestionCount", boom)

	require.ErrorIs(t, s.Categories().IncrementQuestionCount(ctx, cat.ID), boom)
	require.NoError(t, s.Categories().IncrementQuestionCount(ctx, cat.ID))
}

func TestStore_DecrementFloorsAtZero(t *testing.T) {
	s, cat, _ := seed(t)
	ctx := context.Background()

	ok, err := s.Categories().DecrementQuestionCount(ctx, cat.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Categories().DecrementQuestionCount(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_TagNamesAreCaseInsensitive(t *testing.T) {
	s, _, tag := seed(t)
	ctx := context.Background()

	got, err := s.Tags().FindByName(ctx, "CONCURRENCY")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)

	created, err := s.Tags().InsertIfAbsent(ctx, domain.Tag{ID: uuid.New(), Name: "Concurrency"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, s.TagCount())
}

func TestStore_SampleUsesShuffle(t *testing.T) {
	cat := domain.Category{ID: uuid.New(), Name: "Go"}
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	s := NewStore(WithCategories(cat), WithShuffle(reverse))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		q := domain.Question{ID: uuid.New(), CategoryID: cat.ID, Difficulty: domain.DifficultySenior}
		require.NoError(t, s.Questions().Insert(ctx, q))
	}
	require.NoError(t, s.Questions().Insert(ctx, domain.Question{ID: uuid.New(), CategoryID: cat.ID, Difficulty: domain.DifficultyBeginner}))

	got, err := s.Questions().Sample(ctx, cat.ID, domain.DifficultySenior, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, q := range got {
		assert.Equal(t, domain.DifficultySenior, q.Difficulty)
	}
}

func TestStore_NestedWithTxFailureKeepsOuterWork(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	kept := domain.Category{ID: uuid.New(), Name: "kept", Color: "c"}
	dropped := domain.Category{ID: uuid.New(), Name: "dropped", Color: "c"}
	boom := errors.New("boom")

	err := s.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, tx repository.Store) error {
		require.NoError(t, tx.Categories().Insert(ctx, kept))
		inner := tx.WithTx(ctx, repository.TxOptions{}, func(ctx context.Context, sp repository.Store) error {
			require.NoError(t, sp.Categories().Insert(ctx, dropped))
			return boom
		})
		require.ErrorIs(t, inner, boom)
		_, err := tx.Categories().FindByID(ctx, dropped.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
		return nil
	})
	require.NoError(t, err)

	_, err = s.Categories().FindByID(ctx, kept.ID)
	assert.NoError(t, err)
	_, err = s.Categories().FindByID(ctx, dropped.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
