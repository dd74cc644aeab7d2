package handler

import (
	"github.com/roguepikachu/quizbank/internal/domain"
	"github.com/roguepikachu/quizbank/pkg"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toCategoryDTO(c domain.Category) domain.CategoryResponseDTO {
	return domain.CategoryResponseDTO{
		ID:            c.ID.String(),
		Name:          c.Name,
		Color:         c.Color,
		Icon:          optional(c.Icon),
		QuestionCount: c.QuestionCount,
		CreatedAt:     c.CreatedAt.UTC().Format(pkg.TimeFormat),
	}
}

func toTagDTO(t domain.Tag) domain.TagResponseDTO {
	return domain.TagResponseDTO{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedAt: t.CreatedAt.UTC().Format(pkg.TimeFormat),
	}
}

func toQuestionDTO(q domain.Question) domain.QuestionResponseDTO {
	tags := make([]string, len(q.Tags))
	for i, t := range q.Tags {
		tags[i] = t.Name
	}
	return domain.QuestionResponseDTO{
		ID:            q.ID.String(),
		Question:      q.Question,
		Answer:        q.Answer,
		CodeSnippet:   optional(q.CodeSnippet),
		Difficulty:    q.Difficulty,
		CategoryID:    q.CategoryID.String(),
		CategoryName:  q.CategoryName,
		CategoryColor: q.CategoryColor,
		Tags:          tags,
		CreatedAt:     q.CreatedAt.UTC().Format(pkg.TimeFormat),
	}
}
