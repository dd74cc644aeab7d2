package domain

import "github.com/google/uuid"

// CategoryRequestDTO is the body for creating or updating a category.
type CategoryRequestDTO struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"required,max=50"`
	Icon  string `json:"icon" binding:"omitempty,max=255"`
}

// CategoryResponseDTO represents a category.
type CategoryResponseDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	Icon          *string `json:"icon"`
	QuestionCount int     `json:"questionCount"`
	CreatedAt     string  `json:"createdAt"`
}

// TagRequestDTO is the body for creating or updating a tag.
type TagRequestDTO struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

// TagResponseDTO represents a tag.
type TagResponseDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// QuestionRequestDTO is the body for creating or updating a question.
type QuestionRequestDTO struct {
	Question    string     `json:"question" binding:"required,max=1000"`
	Answer      string     `json:"answer" binding:"required,max=5000"`
	CodeSnippet string     `json:"codeSnippet" binding:"omitempty,max=10000"`
	Difficulty  Difficulty `json:"difficulty" binding:"required"`
	CategoryID  uuid.UUID  `json:"categoryId" binding:"required"`
	Tags        []string   `json:"tags"`
}

// QuestionResponseDTO represents a question with its category summary and tag names.
type QuestionResponseDTO struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Answer        string     `json:"answer"`
	CodeSnippet   *string    `json:"codeSnippet"`
	Difficulty    Difficulty `json:"difficulty"`
	CategoryID    string     `json:"categoryId"`
	CategoryName  string     `json:"categoryName"`
	CategoryColor string     `json:"categoryColor"`
	Tags          []string   `json:"tags"`
	CreatedAt     string     `json:"createdAt"`
}
