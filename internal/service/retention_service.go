package service

import (
	"errors"
	"sync"

	"quizentia_backend/internal/model"
	"quizentia_backend/internal/util"
	"quizentia_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// retentionFloor is the minimum question total a week must keep after any
// admin delete.
const retentionFloor = 100

type QuizStore interface {
	GetByID(id uint) (*model.Quiz, error)
	GetByIDs(ids []uint) ([]*model.Quiz, error)
	Update(quiz *model.Quiz) error
	DeleteWithDefinition(quiz *model.Quiz, def *model.QuizDefinition) error
}

type DefinitionStore interface {
	GetByQuizID(quizID uint) (*model.QuizDefinition, error)
	GetByWeek(weekID string) ([]*model.QuizDefinition, error)
}

// RetentionService guards destructive admin operations behind the week
// retention floor. Check and mutation run under one mutex so two concurrent
// deletes cannot both pass their checks and jointly breach the floor.
type RetentionService struct {
	Quizzes     QuizStore
	Definitions DefinitionStore

	mu sync.Mutex
}

func NewRetentionService(quizzes QuizStore, definitions DefinitionStore) *RetentionService {
	return &RetentionService{
		Quizzes:     quizzes,
		Definitions: definitions,
	}
}

// weekQuestionTotal sums question counts over the given definitions'
// quizzes, excluding excludeQuizID when non-zero.
func (s *RetentionService) weekQuestionTotal(defs []*model.QuizDefinition, excludeQuizID uint) (int, error) {
	ids := make([]uint, 0, len(defs))
	for _, def := range defs {
		if excludeQuizID != 0 && def.QuizID == excludeQuizID {
			continue
		}
		ids = append(ids, def.QuizID)
	}

	quizzes, err := s.Quizzes.GetByIDs(ids)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, quiz := range quizzes {
		total += quiz.QuestionCount()
	}
	return total, nil
}

// DeleteQuiz removes a quiz and its definition. The delete is rejected when
// the week's other quizzes alone hold fewer than 100 questions; the doomed
// quiz's own questions do not count toward the floor it leaves behind. A
// quiz with no definition has no week to protect and is deleted outright.
func (s *RetentionService) DeleteQuiz(quizID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, err := s.Quizzes.GetByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	def, err := s.Definitions.GetByQuizID(quizID)
	if err != nil {
		return err
	}

	if def != nil {
		defs, err := s.Definitions.GetByWeek(def.WeekID)
		if err != nil {
			return err
		}

		remaining, err := s.weekQuestionTotal(defs, quizID)
		if err != nil {
			return err
		}

		if remaining < retentionFloor {
			return &util.RetentionError{
				WeekID:    def.WeekID,
				Current:   remaining + quiz.QuestionCount(),
				Remaining: remaining,
			}
		}
	}

	if err := s.Quizzes.DeleteWithDefinition(quiz, def); err != nil {
		return err
	}

	logger.Log.Info("Admin deleted quiz", zap.Uint("quiz_id", quizID))
	return nil
}

// DeletedQuestion reports a single-question delete back to the caller.
type DeletedQuestion struct {
	Question  model.Question `json:"deleted_question"`
	Remaining int            `json:"remaining_questions"`
	WeekTotal int            `json:"week_total_questions"`
}

// DeleteQuestion removes one question by index. The check here counts the
// whole week including this quiz and rejects at <= 100 — deliberately
// tighter than the quiz-level check, preserved as observed.
func (s *RetentionService) DeleteQuestion(quizID uint, index int) (*DeletedQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, err := s.Quizzes.GetByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	def, err := s.Definitions.GetByQuizID(quizID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, util.ErrDefinitionNotFound
	}

	defs, err := s.Definitions.GetByWeek(def.WeekID)
	if err != nil {
		return nil, err
	}

	total, err := s.weekQuestionTotal(defs, 0)
	if err != nil {
		return nil, err
	}

	if total <= retentionFloor {
		return nil, &util.RetentionError{
			WeekID:    def.WeekID,
			Current:   total,
			Remaining: total - 1,
		}
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(questions) {
		return nil, util.ErrQuestionIndex
	}

	deleted := questions[index]
	questions = append(questions[:index], questions[index+1:]...)
	if err := quiz.SetQuestions(questions); err != nil {
		return nil, err
	}
	if err := s.Quizzes.Update(quiz); err != nil {
		return nil, err
	}

	logger.Log.Info("Admin deleted question",
		zap.Uint("quiz_id", quizID),
		zap.Int("index", index))

	return &DeletedQuestion{
		Question:  deleted,
		Remaining: len(questions),
		WeekTotal: total - 1,
	}, nil
}

// QuestionUpdate carries the optional fields of a question edit; nil fields
// are left untouched.
type QuestionUpdate struct {
	Question      *string   `json:"question"`
	Options       *[]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
	Hint          *string   `json:"hint"`
}

// UpdateQuestion edits one question in place, rewriting the quiz's full
// question sequence. Edits do not change counts, so no retention check.
func (s *RetentionService) UpdateQuestion(quizID uint, index int, update QuestionUpdate) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, err := s.Quizzes.GetByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(questions) {
		return nil, util.ErrQuestionIndex
	}

	if update.Question != nil {
		questions[index].Question = *update.Question
	}
	if update.Options != nil {
		questions[index].Options = *update.Options
	}
	if update.CorrectAnswer != nil {
		questions[index].CorrectAnswer = *update.CorrectAnswer
	}
	if update.Hint != nil {
		questions[index].Hint = *update.Hint
	}

	if err := quiz.SetQuestions(questions); err != nil {
		return nil, err
	}
	if err := s.Quizzes.Update(quiz); err != nil {
		return nil, err
	}

	logger.Log.Info("Admin updated question",
		zap.Uint("quiz_id", quizID),
		zap.Int("index", index))

	updated := questions[index]
	return &updated, nil
}
