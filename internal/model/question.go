package model

import "quizentia_backend/internal/util"

// Question is the canonical embedded question shape.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Hint          string   `json:"hint"`
}

// RawQuestion is a question as the generation service emits it. The service
// is not consistent about the answer key: some responses use "answer", some
// "correct_answer".
type RawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
	CorrectAnswer string   `json:"correct_answer"`
	Hint          string   `json:"hint"`
}

// NormalizeQuestion maps a raw generated question into the canonical shape.
// "answer" wins over "correct_answer" when present and non-empty. The
// resolved answer must be one of the options.
func NormalizeQuestion(raw RawQuestion) (Question, error) {
	if raw.Question == "" || len(raw.Options) == 0 || raw.Hint == "" {
		return Question{}, util.ErrMalformedQuestion
	}

	answer := raw.Answer
	if answer == "" {
		answer = raw.CorrectAnswer
	}
	if answer == "" {
		return Question{}, util.ErrMalformedQuestion
	}

	found := false
	for _, opt := range raw.Options {
		if opt == answer {
			found = true
			break
		}
	}
	if !found {
		return Question{}, util.ErrMalformedQuestion
	}

	return Question{
		Question:      raw.Question,
		Options:       raw.Options,
		CorrectAnswer: answer,
		Hint:          raw.Hint,
	}, nil
}
