package service

import (
	"quizforge_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attempt(userID uint, correct, total int, completedAt time.Time) model.QuizAttempt {
	return model.QuizAttempt{
		UserID:      userID,
		Correct:     correct,
		Total:       total,
		CompletedAt: completedAt,
	}
}

func TestComputeQuizStatsEmpty(t *testing.T) {
	stats := ComputeQuizStats(nil)

	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Equal(t, 0.0, stats.BestScore)
	assert.Equal(t, 0, stats.UniqueUsers)
}

func TestComputeQuizStats(t *testing.T) {
	now := time.Now()
	attempts := []model.QuizAttempt{
		attempt(1, 4, 4, now), // 100%
		attempt(1, 2, 4, now), // 50%
		attempt(2, 3, 4, now), // 75%
	}

	stats := ComputeQuizStats(attempts)

	assert.Equal(t, 3, stats.TotalAttempts)
	assert.InDelta(t, 75.0, stats.AverageScore, 0.001)
	assert.Equal(t, 100.0, stats.BestScore)
	assert.Equal(t, 2, stats.UniqueUsers)
}

func TestComputeQuizStatsIdempotent(t *testing.T) {
	now := time.Now()
	attempts := []model.QuizAttempt{
		attempt(1, 1, 2, now),
		attempt(2, 2, 2, now),
	}

	first := ComputeQuizStats(attempts)
	second := ComputeQuizStats(attempts)

	assert.Equal(t, first, second)
}

func TestComputeQuizStatsZeroTotalAttempt(t *testing.T) {
	// 空卷的记录按 0 分计，不触发除零
	attempts := []model.QuizAttempt{
		attempt(1, 0, 0, time.Now()),
		attempt(2, 2, 2, time.Now()),
	}

	stats := ComputeQuizStats(attempts)

	assert.Equal(t, 2, stats.TotalAttempts)
	assert.InDelta(t, 50.0, stats.AverageScore, 0.001)
	assert.Equal(t, 100.0, stats.BestScore)
}

func TestComputeUserQuizStatsEmpty(t *testing.T) {
	assert.Nil(t, ComputeUserQuizStats(nil))
}

func TestComputeUserQuizStats(t *testing.T) {
	earlier := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	attempts := []model.QuizAttempt{
		attempt(1, 1, 4, later),   // 25%
		attempt(1, 3, 4, earlier), // 75%
	}

	stats := ComputeUserQuizStats(attempts)

	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Attempts)
	assert.InDelta(t, 50.0, stats.AverageScore, 0.001)
	assert.Equal(t, 75.0, stats.BestScore)
	assert.Equal(t, later, stats.LastAttempt)
}

func TestPercentScore(t *testing.T) {
	a := attempt(1, 3, 4, time.Now())
	assert.Equal(t, 75.0, a.PercentScore())

	empty := attempt(1, 0, 0, time.Now())
	assert.Equal(t, 0.0, empty.PercentScore())
}
