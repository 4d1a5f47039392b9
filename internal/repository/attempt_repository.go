package repository

import (
	"quizforge_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

// ListByQuiz 某测验的全部答题记录，按完成时间倒序
func (r *AttemptRepository) ListByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("completed_at desc").Find(&attempts).Error
	return attempts, err
}

// ListByQuizAndUser 某测验下指定用户的答题记录，按完成时间倒序
func (r *AttemptRepository) ListByQuizAndUser(quizID, userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("completed_at desc").Find(&attempts).Error
	return attempts, err
}

// ListByUser 用户的答题历史，带上测验标题和配图
func (r *AttemptRepository) ListByUser(userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at desc").
		Preload("Quiz", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "image_id", "topic", "difficulty")
		}).
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountDistinctQuizzes(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID).
		Distinct("quiz_id").Count(&count).Error
	return count, err
}
