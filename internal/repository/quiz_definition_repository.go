package repository

import (
	"errors"

	"quizentia_backend/internal/model"

	"gorm.io/gorm"
)

type QuizDefinitionRepository struct {
	DB *gorm.DB
}

func NewQuizDefinitionRepository(db *gorm.DB) *QuizDefinitionRepository {
	return &QuizDefinitionRepository{DB: db}
}

// GetByQuizID returns (nil, nil) when no definition exists; legacy quizzes
// may legitimately have none.
func (r *QuizDefinitionRepository) GetByQuizID(quizID uint) (*model.QuizDefinition, error) {
	var def model.QuizDefinition
	err := r.DB.Where("quiz_id = ?", quizID).First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *QuizDefinitionRepository) GetByWeek(weekID string) ([]*model.QuizDefinition, error) {
	var defs []*model.QuizDefinition
	err := r.DB.Where("week_id = ?", weekID).Find(&defs).Error
	return defs, err
}

func (r *QuizDefinitionRepository) GetAllOrdered() ([]*model.QuizDefinition, error) {
	var defs []*model.QuizDefinition
	err := r.DB.Order("created_at DESC").Find(&defs).Error
	return defs, err
}

func (r *QuizDefinitionRepository) List(skip, limit int) ([]*model.QuizDefinition, error) {
	var defs []*model.QuizDefinition
	err := r.DB.Offset(skip).Limit(limit).Find(&defs).Error
	return defs, err
}
