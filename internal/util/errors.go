package util

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientCandidates = errors.New("not enough URLs scraped")
	ErrMalformedQuestion      = errors.New("malformed question")
	ErrEmptyArticle           = errors.New("empty article content")
	ErrQuizNotFound           = errors.New("quiz not found")
	ErrDefinitionNotFound     = errors.New("quiz definition not found")
	ErrQuestionIndex          = errors.New("question index not found")
	ErrNoQuizzes              = errors.New("no quizzes found")
)

// NotFoundError lists the requested quiz ids that are absent from the store.
type NotFoundError struct {
	MissingIDs []uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("quiz IDs not found: %v", e.MissingIDs)
}

// RetentionError rejects a delete that would take a week's question total
// below the retention floor. Current is the week total before the delete,
// Remaining the total the week would be left with.
type RetentionError struct {
	WeekID    string
	Current   int
	Remaining int
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf(
		"cannot delete: week %s must keep at least 100 questions (currently %d, would have %d after deletion)",
		e.WeekID, e.Current, e.Remaining,
	)
}
