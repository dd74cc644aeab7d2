package domain

import (
	"encoding/json"
	"strings"

	"github.com/roguepikachu/quizbank/internal/apperr"
)

// Difficulty is the level of a question.
type Difficulty string

// Difficulty levels.
const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultySenior       Difficulty = "SENIOR"
)

// Difficulties lists every valid level in display order.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultySenior}

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	valid := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		valid[i] = string(d)
	}
	return "", apperr.Validationf("invalid difficulty level: %s. Valid values are: %s", s, strings.Join(valid, ", "))
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts any casing and normalizes to the canonical level.
func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return apperr.Validation("difficulty must be a string")
	}
	if s == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
