package repository

import (
	"adaptive_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateQuizWithQuestions 一次生成运行的结果整体落库
func (r *QuizRepository) CreateQuizWithQuestions(quiz *model.Quiz, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quiz.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindQuizByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` ASC")
	}).First(&quiz, "id = ?", id).Error
	return &quiz, err
}

func (r *QuizRepository) ListQuizzes(userID uint, page, limit int) ([]model.Quiz, int64, error) {
	var total int64
	query := r.DB.Model(&model.Quiz{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []model.Quiz
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&quizzes).Error
	return quizzes, total, err
}

func (r *QuizRepository) MarkSubmitted(tx *gorm.DB, quizID string) error {
	return tx.Model(&model.Quiz{}).Where("id = ?", quizID).Update("status", "submitted").Error
}

func (r *QuizRepository) CreateAnswers(tx *gorm.DB, answers []model.QuizAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return tx.CreateInBatches(answers, 100).Error
}

func (r *QuizRepository) ListAnswers(quizID string, userID uint) ([]model.QuizAnswer, error) {
	var answers []model.QuizAnswer
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("created_at ASC").Find(&answers).Error
	return answers, err
}
