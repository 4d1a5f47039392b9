package repository

import (
	"encoding/json"
	"quizforge_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuiz(t *testing.T, repo *QuizRepository) *model.Quiz {
	t.Helper()

	opts, _ := json.Marshal([]string{"Paris", "Lyon"})
	quiz := &model.Quiz{
		Title:      "Capitals",
		Topic:      "geography",
		Difficulty: model.DifficultyEasy,
		Questions: []model.QuizQuestion{
			{Seq: 2, Text: "Second question", Options: opts, CorrectAnswer: "Lyon"},
			{Seq: 1, Text: "What is the capital of France?", Options: opts, CorrectAnswer: "Paris"},
		},
	}
	require.NoError(t, repo.Create(quiz))
	return quiz
}

func TestQuizExists(t *testing.T) {
	db := newTestDB(t, &model.User{}, &model.Quiz{}, &model.QuizQuestion{})
	repo := NewQuizRepository(db)

	exists, err := repo.Exists(99)
	require.NoError(t, err)
	assert.False(t, exists)

	quiz := seedQuiz(t, repo)

	exists, err = repo.Exists(quiz.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestQuizFindByIDOrdersQuestionsBySeq(t *testing.T) {
	db := newTestDB(t, &model.User{}, &model.Quiz{}, &model.QuizQuestion{})
	repo := NewQuizRepository(db)

	quiz := seedQuiz(t, repo)

	found, err := repo.FindByID(quiz.ID)
	require.NoError(t, err)
	require.Len(t, found.Questions, 2)
	assert.Equal(t, 1, found.Questions[0].Seq)
	assert.Equal(t, 2, found.Questions[1].Seq)
}
