package repository

import (
	"quizentia_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// PendingQuiz is one accumulated ingestion item awaiting the batch write.
type PendingQuiz struct {
	Title     string
	URL       string
	Questions []model.Question
}

func (r *QuizRepository) URLExists(url string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Where("url = ?", url).Count(&count).Error
	return count > 0, err
}

func (r *QuizRepository) GetByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetByIDs returns the quizzes that exist; callers decide whether absent ids
// are an error.
func (r *QuizRepository) GetByIDs(ids []uint) ([]*model.Quiz, error) {
	var quizzes []*model.Quiz
	if len(ids) == 0 {
		return quizzes, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) GetLatest(limit int) ([]*model.Quiz, error) {
	var quizzes []*model.Quiz
	err := r.DB.Order("id DESC").Limit(limit).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) List(skip, limit int) ([]*model.Quiz, error) {
	var quizzes []*model.Quiz
	err := r.DB.Offset(skip).Limit(limit).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

// DeleteWithDefinition removes a quiz and, when present, its definition in
// one transaction.
func (r *QuizRepository) DeleteWithDefinition(quiz *model.Quiz, def *model.QuizDefinition) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if def != nil {
			if err := tx.Delete(def).Error; err != nil {
				return err
			}
		}
		return tx.Delete(quiz).Error
	})
}

// CreateBatch persists one ingestion run's pending quizzes in a single
// transaction: each Quiz first, then its QuizDefinition linked by the
// assigned id and stamped with the batch week id. Any failure rolls back
// the whole batch.
func (r *QuizRepository) CreateBatch(items []PendingQuiz, weekID string) ([]uint, error) {
	ids := make([]uint, 0, len(items))
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			quiz := &model.Quiz{
				Title: item.Title,
				URL:   item.URL,
			}
			if err := quiz.SetQuestions(item.Questions); err != nil {
				return err
			}
			if err := tx.Create(quiz).Error; err != nil {
				return err
			}

			def := &model.QuizDefinition{
				QuizID: quiz.ID,
				Title:  item.Title,
				WeekID: weekID,
			}
			if err := tx.Create(def).Error; err != nil {
				return err
			}

			ids = append(ids, quiz.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
