package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Quiz is the content record: the full question set generated from one article.
type Quiz struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string         `gorm:"index;size:512" json:"title"`
	URL       string         `gorm:"index;size:768" json:"url"`
	Questions datatypes.JSON `gorm:"type:json" json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q *Quiz) QuestionList() ([]Question, error) {
	var questions []Question
	if len(q.Questions) == 0 {
		return questions, nil
	}
	if err := json.Unmarshal(q.Questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *Quiz) SetQuestions(questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = datatypes.JSON(data)
	return nil
}

// QuestionCount returns 0 for rows whose JSON cannot be decoded.
func (q *Quiz) QuestionCount() int {
	questions, err := q.QuestionList()
	if err != nil {
		return 0
	}
	return len(questions)
}

// QuizDefinition links a Quiz to its week bucket. WeekID is empty on legacy
// rows created before week bucketing existed; readers recompute it from
// CreatedAt and never write it back.
type QuizDefinition struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID    uint      `gorm:"index;not null" json:"quiz_id"`
	Title     string    `gorm:"size:512" json:"title"`
	WeekID    string    `gorm:"index;size:6" json:"week_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (QuizDefinition) TableName() string {
	return "quiz_definitions"
}
