package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"quizforge_backend/internal/model"
	"quizforge_backend/internal/repository"
	"quizforge_backend/internal/util"
	"quizforge_backend/pkg/logger"
	"quizforge_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	BookmarkRepo *repository.BookmarkRepository
	UserRepo     *repository.UserRepository
	AI           *AIService
	Storage      *StorageService
	Stats        *StatsService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	bookmarkRepo *repository.BookmarkRepository,
	userRepo *repository.UserRepository,
	ai *AIService,
	storage *StorageService,
	stats *StatsService,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		BookmarkRepo: bookmarkRepo,
		UserRepo:     userRepo,
		AI:           ai,
		Storage:      storage,
		Stats:        stats,
	}
}

type CreateQuizRequest struct {
	Topic        string `json:"topic" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	NumQuestions int    `json:"numQuestions" binding:"omitempty,min=1,max=20"`
}

// CreateQuiz 生成并保存一份测验。内容和配图并行生成，任何一步失败
// 都不会留下半成品：只有整卷和图片都拿到并通过校验才落库。
func (s *QuizService) CreateQuiz(ctx context.Context, userID uint, req CreateQuizRequest) (*model.Quiz, error) {
	if req.Difficulty == "" {
		req.Difficulty = string(model.DifficultyMedium)
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}

	start := time.Now()

	var (
		wg        sync.WaitGroup
		generated *GeneratedQuiz
		seed      int
		quizErr   error
		imageData []byte
		imageType string
		imageErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		generated, seed, quizErr = s.AI.GenerateQuiz(ctx, req.Topic, req.Difficulty, req.NumQuestions)
	}()
	go func() {
		defer wg.Done()
		imageData, imageType, imageErr = s.AI.GenerateImage(ctx, req.Topic)
	}()
	wg.Wait()

	monitoring.AIGenerationDuration.Observe(time.Since(start).Seconds())

	if quizErr != nil {
		if errors.Is(quizErr, util.ErrMalformedQuiz) {
			monitoring.QuizGenerated.WithLabelValues("malformed").Inc()
		} else {
			monitoring.QuizGenerated.WithLabelValues("upstream_error").Inc()
		}
		logger.Log.Error("quiz generation failed", zap.String("topic", req.Topic), zap.Error(quizErr))
		return nil, quizErr
	}
	if imageErr != nil {
		monitoring.QuizGenerated.WithLabelValues("upstream_error").Inc()
		logger.Log.Error("quiz image generation failed", zap.String("topic", req.Topic), zap.Error(imageErr))
		return nil, util.ErrImageFetch
	}

	imageID := model.GenerateUUID() + ".png"
	if _, err := s.Storage.Upload(ctx, imageID, bytes.NewReader(imageData), int64(len(imageData)), imageType); err != nil {
		monitoring.QuizGenerated.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	questions := make([]model.QuizQuestion, 0, len(generated.Questions))
	for _, q := range generated.Questions {
		optsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		questions = append(questions, model.QuizQuestion{
			Seq:           q.ID,
			Text:          q.Text,
			Options:       optsJSON,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	quiz := &model.Quiz{
		Title:       generated.Title,
		Description: generated.Description,
		Topic:       req.Topic,
		Difficulty:  model.QuizDifficulty(req.Difficulty),
		CreatedBy:   userID,
		ImageID:     imageID,
		ModelUsed:   s.AI.Model(),
		Seed:        seed,
		GeneratedAt: time.Now(),
		Questions:   questions,
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		// 落库失败时回收已上传的图片，尽力而为
		if delErr := s.Storage.Delete(ctx, imageID); delErr != nil {
			logger.Log.Warn("failed to clean up quiz image", zap.String("imageId", imageID), zap.Error(delErr))
		}
		return nil, err
	}

	if err := s.UserRepo.IncrementQuizzesCreated(userID); err != nil {
		logger.Log.Warn("failed to increment quizzes created", zap.Uint("userId", userID), zap.Error(err))
	}

	monitoring.QuizGenerated.WithLabelValues("ok").Inc()
	return quiz, nil
}

// StudentQuestion 答题视图里的题目，不带答案
type StudentQuestion struct {
	Seq     int      `json:"seq"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizDetail 测验详情（答题视图）
type QuizDetail struct {
	ID           uint                 `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Topic        string               `json:"topic"`
	Difficulty   model.QuizDifficulty `json:"difficulty"`
	ImageID      string               `json:"imageId"`
	CreatedAt    time.Time            `json:"createdAt"`
	Questions    []StudentQuestion    `json:"questions"`
	IsBookmarked bool                 `json:"isBookmarked"`
}

// GetQuiz 测验详情。答案不下发，判分只在服务端进行。
// userID 非零时附带收藏标记。
func (s *QuizService) GetQuiz(quizID uint, userID uint) (*QuizDetail, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	detail := &QuizDetail{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Topic:       quiz.Topic,
		Difficulty:  quiz.Difficulty,
		ImageID:     quiz.ImageID,
		CreatedAt:   quiz.CreatedAt,
		Questions:   make([]StudentQuestion, 0, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		detail.Questions = append(detail.Questions, StudentQuestion{
			Seq:     q.Seq,
			Text:    q.Text,
			Options: q.OptionList(),
		})
	}

	if userID != 0 {
		bookmarked, err := s.BookmarkRepo.IsBookmarked(userID, quizID)
		if err == nil {
			detail.IsBookmarked = bookmarked
		}
	}

	return detail, nil
}

// QuizSummary 列表视图的测验摘要，带聚合统计
type QuizSummary struct {
	ID            uint                 `json:"id"`
	Title         string               `json:"title"`
	Topic         string               `json:"topic"`
	Difficulty    model.QuizDifficulty `json:"difficulty"`
	ImageID       string               `json:"imageId"`
	CreatedAt     time.Time            `json:"createdAt"`
	QuestionCount int                  `json:"questionCount"`
	Stats         *model.QuizStats     `json:"stats,omitempty"`
	IsBookmarked  bool                 `json:"isBookmarked"`
}

// ListQuizzes 测验列表，最新在前。userID 非零时附带收藏标记和个人统计。
func (s *QuizService) ListQuizzes(ctx context.Context, page, limit int, userID uint) ([]QuizSummary, int64, error) {
	quizzes, total, err := s.QuizRepo.List(page, limit)
	if err != nil {
		return nil, 0, err
	}

	var bookmarked map[uint]bool
	if userID != 0 {
		bookmarked, err = s.BookmarkRepo.QuizIDSet(userID)
		if err != nil {
			return nil, 0, err
		}
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summary := QuizSummary{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Topic:         quiz.Topic,
			Difficulty:    quiz.Difficulty,
			ImageID:       quiz.ImageID,
			CreatedAt:     quiz.CreatedAt,
			QuestionCount: len(quiz.Questions),
			IsBookmarked:  bookmarked[quiz.ID],
		}

		stats, err := s.Stats.GetQuizStats(ctx, quiz.ID, userID)
		if err != nil {
			logger.Log.Warn("failed to load quiz stats", zap.Uint("quizId", quiz.ID), zap.Error(err))
		} else {
			summary.Stats = stats
		}

		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

// ListBookmarked 用户收藏的测验
func (s *QuizService) ListBookmarked(ctx context.Context, userID uint) ([]QuizSummary, error) {
	ids, err := s.BookmarkRepo.QuizIDs(userID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.QuizRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summary := QuizSummary{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Topic:         quiz.Topic,
			Difficulty:    quiz.Difficulty,
			ImageID:       quiz.ImageID,
			CreatedAt:     quiz.CreatedAt,
			QuestionCount: len(quiz.Questions),
			IsBookmarked:  true,
		}

		stats, err := s.Stats.GetQuizStats(ctx, quiz.ID, userID)
		if err == nil {
			summary.Stats = stats
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Bookmark 收藏。重复收藏是无操作，照常返回成功。
func (s *QuizService) Bookmark(userID, quizID uint) error {
	if err := s.EnsureQuizExists(quizID); err != nil {
		return err
	}
	return s.BookmarkRepo.Add(userID, quizID)
}

// Unbookmark 取消收藏。未收藏时同样视为成功。
func (s *QuizService) Unbookmark(userID, quizID uint) error {
	if err := s.EnsureQuizExists(quizID); err != nil {
		return err
	}
	return s.BookmarkRepo.Remove(userID, quizID)
}

// EnsureQuizExists 轻量存在性检查，不加载题目也不组装答题视图。
// 收藏和统计入口用它把不存在的测验映射成 ErrQuizNotFound。
func (s *QuizService) EnsureQuizExists(quizID uint) error {
	exists, err := s.QuizRepo.Exists(quizID)
	if err != nil {
		return err
	}
	if !exists {
		return util.ErrQuizNotFound
	}
	return nil
}

// DeleteQuiz 管理员删除测验，配图一并回收
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID uint) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	if err := s.QuizRepo.Delete(quizID); err != nil {
		return err
	}

	if quiz.ImageID != "" {
		if err := s.Storage.Delete(ctx, quiz.ImageID); err != nil {
			logger.Log.Warn("failed to delete quiz image", zap.String("imageId", quiz.ImageID), zap.Error(err))
		}
	}

	return nil
}
