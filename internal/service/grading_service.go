package service

import (
	"context"
	"encoding/json"
	"errors"
	"quizforge_backend/internal/model"
	"quizforge_backend/internal/repository"
	"quizforge_backend/internal/util"
	"quizforge_backend/pkg/logger"
	"quizforge_backend/pkg/monitoring"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GradingService 判分引擎：把提交的选项下标解析成选项文本并和答案比对，
// 生成一条不可变的答题记录。
type GradingService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	UserRepo    *repository.UserRepository
	Stats       *StatsService
}

func NewGradingService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, userRepo *repository.UserRepository, stats *StatsService) *GradingService {
	return &GradingService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		UserRepo:    userRepo,
		Stats:       stats,
	}
}

// QuestionFeedback 单题判分反馈
type QuestionFeedback struct {
	ID            int    `json:"id"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// GradeResult 整卷判分结果
type GradeResult struct {
	Correct  int                `json:"correct"`
	Total    int                `json:"total"`
	Feedback []QuestionFeedback `json:"feedback"`
}

// GradeQuestions 纯判分：answers 的 key 是题目序号（1 起始，字符串），
// value 是选项下标（字符串）。规则：
//   - 下标解析成功且在选项范围内，才解析成选项文本；越界、非数字、缺失
//     一律按未作答处理，判错，不会 panic；
//   - answers 里指向不存在题目的 key 直接忽略；
//   - total 恒等于卷内题目数。
func GradeQuestions(questions []model.QuizQuestion, answers map[string]string) *GradeResult {
	result := &GradeResult{
		Total:    len(questions),
		Feedback: make([]QuestionFeedback, 0, len(questions)),
	}

	for _, q := range questions {
		yourAnswer := ""
		if raw, ok := answers[strconv.Itoa(q.Seq)]; ok {
			opts := q.OptionList()
			if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(opts) {
				yourAnswer = opts[idx]
			}
		}

		isCorrect := yourAnswer != "" && yourAnswer == q.CorrectAnswer
		if isCorrect {
			result.Correct++
		}

		result.Feedback = append(result.Feedback, QuestionFeedback{
			ID:            q.Seq,
			YourAnswer:    yourAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
		})
	}

	return result
}

// NextStreak 计算提交一次答题后的连续答题天数。
// 与上次答题相隔恰好一天则加一，隔更久重置为 1，同一天保持不变。
func NextStreak(lastQuizDate *time.Time, now time.Time, current int) int {
	if lastQuizDate == nil {
		return 1
	}

	last := time.Date(lastQuizDate.Year(), lastQuizDate.Month(), lastQuizDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayDiff := int(today.Sub(last).Hours() / 24)

	switch {
	case dayDiff == 0:
		return current
	case dayDiff == 1:
		return current + 1
	default:
		return 1
	}
}

// SubmitAttempt 判分并落库。测验不存在返回 ErrQuizNotFound；
// 答题记录创建后不再修改，统计缓存在写入后失效。
func (s *GradingService) SubmitAttempt(ctx context.Context, userID uint, quizID uint, answers map[string]string) (*GradeResult, *model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}

	result := GradeQuestions(quiz.Questions, answers)

	records := make([]model.AttemptAnswer, 0, len(result.Feedback))
	for _, f := range result.Feedback {
		records = append(records, model.AttemptAnswer{
			Seq:        f.ID,
			YourAnswer: f.YourAnswer,
			IsCorrect:  f.IsCorrect,
		})
	}
	answersJSON, err := json.Marshal(records)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	attempt := &model.QuizAttempt{
		QuizID:      quizID,
		UserID:      userID,
		Answers:     answersJSON,
		Correct:     result.Correct,
		Total:       result.Total,
		CompletedAt: now,
	}

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, nil, err
	}

	monitoring.AttemptGraded.Inc()

	// 用户统计和统计缓存失败不影响判分结果
	if err := s.updateUserStats(userID, now); err != nil {
		logger.Log.Warn("failed to update user stats after attempt",
			zap.Uint("userId", userID), zap.Error(err))
	}
	s.Stats.InvalidateQuiz(ctx, quizID)

	return result, attempt, nil
}

func (s *GradingService) updateUserStats(userID uint, now time.Time) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}

	user.CurrentStreak = NextStreak(user.LastQuizDate, now, user.CurrentStreak)
	user.LastQuizDate = &now
	user.TotalQuizzesAttempted++

	return s.UserRepo.Update(user)
}

// History 用户答题历史，按完成时间倒序，带测验摘要
func (s *GradingService) History(userID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUser(userID)
}
