package service

import (
	"encoding/json"
	"quizforge_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(seq int, text string, options []string, correct string) model.QuizQuestion {
	raw, _ := json.Marshal(options)
	return model.QuizQuestion{
		Seq:           seq,
		Text:          text,
		Options:       raw,
		CorrectAnswer: correct,
	}
}

func capitalQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		question(1, "What is the capital of France?", []string{"Paris", "Lyon", "Nice", "Lille"}, "Paris"),
		question(2, "What is 2+2?", []string{"3", "4", "5", "6"}, "4"),
	}
}

func TestGradeQuestionsAllCorrect(t *testing.T) {
	result := GradeQuestions(capitalQuestions(), map[string]string{"1": "0", "2": "1"})

	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Feedback, 2)
	assert.Equal(t, "Paris", result.Feedback[0].YourAnswer)
	assert.True(t, result.Feedback[0].IsCorrect)
	assert.Equal(t, "4", result.Feedback[1].YourAnswer)
	assert.True(t, result.Feedback[1].IsCorrect)
}

func TestGradeQuestionsWrongAnswer(t *testing.T) {
	result := GradeQuestions(capitalQuestions(), map[string]string{"1": "1"})

	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Feedback, 2)

	assert.Equal(t, "Lyon", result.Feedback[0].YourAnswer)
	assert.Equal(t, "Paris", result.Feedback[0].CorrectAnswer)
	assert.False(t, result.Feedback[0].IsCorrect)

	// 未作答的题给空答案，同样判错
	assert.Equal(t, "", result.Feedback[1].YourAnswer)
	assert.False(t, result.Feedback[1].IsCorrect)
}

func TestGradeQuestionsEmptyAnswers(t *testing.T) {
	result := GradeQuestions(capitalQuestions(), map[string]string{})

	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Feedback, 2)
	for _, f := range result.Feedback {
		assert.Equal(t, "", f.YourAnswer)
		assert.False(t, f.IsCorrect)
	}
}

func TestGradeQuestionsInvalidIndexes(t *testing.T) {
	// 越界、负数、非数字都按未作答处理，不 panic
	result := GradeQuestions(capitalQuestions(), map[string]string{
		"1": "99",
		"2": "abc",
	})

	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, "", result.Feedback[0].YourAnswer)
	assert.Equal(t, "", result.Feedback[1].YourAnswer)

	result = GradeQuestions(capitalQuestions(), map[string]string{"1": "-1"})
	assert.Equal(t, 0, result.Correct)
}

func TestGradeQuestionsUnknownKeysIgnored(t *testing.T) {
	result := GradeQuestions(capitalQuestions(), map[string]string{
		"1":   "0",
		"7":   "2",
		"foo": "1",
	})

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Feedback, 2)
}

func TestGradeQuestionsEmptyQuiz(t *testing.T) {
	result := GradeQuestions(nil, map[string]string{"1": "0"})

	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Feedback)
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	// 首次答题
	assert.Equal(t, 1, NextStreak(nil, now, 0))

	// 同一天保持不变
	sameDay := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, NextStreak(&sameDay, now, 3))

	// 隔一天加一
	yesterday := time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 4, NextStreak(&yesterday, now, 3))

	// 隔更久重置
	lastWeek := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, NextStreak(&lastWeek, now, 9))
}
