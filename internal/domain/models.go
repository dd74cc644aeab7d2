// Package domain contains domain models and request/response shapes for the quizbank API.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups questions and carries a maintained count of its members.
type Category struct {
	ID            uuid.UUID
	Name          string
	Color         string
	Icon          string
	QuestionCount int
	CreatedAt     time.Time
}

// Tag is a shared label. Name is stored trimmed and lower-cased.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Question is a single flashcard.
type Question struct {
	ID          uuid.UUID
	Question    string
	Answer      string
	CodeSnippet string
	Difficulty  Difficulty
	CategoryID  uuid.UUID
	// CategoryName and CategoryColor are filled on reads.
	CategoryName  string
	CategoryColor string
	Tags          []Tag
	CreatedAt     time.Time
}

// TagIDs returns the ids of q's tags.
func (q Question) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(q.Tags))
	for i, t := range q.Tags {
		ids[i] = t.ID
	}
	return ids
}

// QuestionFilter narrows question reads. Nil fields are not applied.
type QuestionFilter struct {
	CategoryID *uuid.UUID
	Difficulty *Difficulty
	TagID      *uuid.UUID
}
