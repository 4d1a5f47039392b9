package service

import (
	"quizforge_backend/internal/model"
	"quizforge_backend/internal/repository"
	"quizforge_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newQuizServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Quiz{}, &model.QuizQuestion{}))
	return db
}

func TestEnsureQuizExists(t *testing.T) {
	db := newQuizServiceDB(t)
	svc := &QuizService{QuizRepo: repository.NewQuizRepository(db)}

	assert.ErrorIs(t, svc.EnsureQuizExists(42), util.ErrQuizNotFound)

	quiz := &model.Quiz{Title: "Go Basics", Topic: "go", Difficulty: model.DifficultyMedium}
	require.NoError(t, svc.QuizRepo.Create(quiz))

	assert.NoError(t, svc.EnsureQuizExists(quiz.ID))
}
