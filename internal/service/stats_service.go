package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quizforge_backend/internal/model"
	"quizforge_backend/internal/repository"
	"quizforge_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	statsCacheTTL = 60 * time.Second
	statsKeyFmt   = "quizforge:stats:quiz:%d"
)

// StatsService 答题统计聚合。聚合是对答题记录集合的纯函数，
// 结果短暂缓存在 Redis 里，写入新记录时失效。
type StatsService struct {
	AttemptRepo *repository.AttemptRepository
	Redis       *redis.Client
}

func NewStatsService(attemptRepo *repository.AttemptRepository, rdb *redis.Client) *StatsService {
	return &StatsService{AttemptRepo: attemptRepo, Redis: rdb}
}

// ComputeQuizStats 测验维度聚合：总次数、平均分、最高分、独立用户数。
// 空集合返回全零。百分比用答题时刻的题目数计算，空卷按 0 分处理。
func ComputeQuizStats(attempts []model.QuizAttempt) model.QuizStats {
	stats := model.QuizStats{}
	if len(attempts) == 0 {
		return stats
	}

	users := make(map[uint]bool)
	var sum float64
	for _, a := range attempts {
		score := a.PercentScore()
		sum += score
		if score > stats.BestScore {
			stats.BestScore = score
		}
		users[a.UserID] = true
	}

	stats.TotalAttempts = len(attempts)
	stats.AverageScore = sum / float64(len(attempts))
	stats.UniqueUsers = len(users)
	return stats
}

// ComputeUserQuizStats 单用户维度聚合，空集合返回 nil。
// lastAttempt 取完成时间最近的一次。
func ComputeUserQuizStats(attempts []model.QuizAttempt) *model.UserQuizStats {
	if len(attempts) == 0 {
		return nil
	}

	stats := &model.UserQuizStats{Attempts: len(attempts)}
	var sum float64
	for _, a := range attempts {
		score := a.PercentScore()
		sum += score
		if score > stats.BestScore {
			stats.BestScore = score
		}
		if a.CompletedAt.After(stats.LastAttempt) {
			stats.LastAttempt = a.CompletedAt
		}
	}
	stats.AverageScore = sum / float64(len(attempts))
	return stats
}

// GetQuizStats 获取测验统计。userID 非零时附带该用户的统计。
// 测验级统计走缓存，用户级统计量小，始终即时计算。
func (s *StatsService) GetQuizStats(ctx context.Context, quizID uint, userID uint) (*model.QuizStats, error) {
	stats, err := s.getQuizStatsCached(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if userID != 0 {
		userAttempts, err := s.AttemptRepo.ListByQuizAndUser(quizID, userID)
		if err != nil {
			return nil, err
		}
		stats.UserAttempts = ComputeUserQuizStats(userAttempts)
	}

	return stats, nil
}

func (s *StatsService) getQuizStatsCached(ctx context.Context, quizID uint) (*model.QuizStats, error) {
	key := fmt.Sprintf(statsKeyFmt, quizID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var stats model.QuizStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	attempts, err := s.AttemptRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	stats := ComputeQuizStats(attempts)

	if s.Redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(ctx, key, data, statsCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache quiz stats", zap.Uint("quizId", quizID), zap.Error(err))
			}
		}
	}

	return &stats, nil
}

// InvalidateQuiz 新答题记录写入后使缓存失效，读取端最终一致
func (s *StatsService) InvalidateQuiz(ctx context.Context, quizID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(statsKeyFmt, quizID)
	if err := s.Redis.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("failed to invalidate quiz stats cache", zap.Uint("quizId", quizID), zap.Error(err))
	}
}
