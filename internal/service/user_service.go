package service

import (
	"errors"
	"quizforge_backend/internal/model"
	"quizforge_backend/internal/repository"
	"quizforge_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo    *repository.UserRepository
	AttemptRepo *repository.AttemptRepository
}

func NewUserService(userRepo *repository.UserRepository, attemptRepo *repository.AttemptRepository) *UserService {
	return &UserService{UserRepo: userRepo, AttemptRepo: attemptRepo}
}

// UserProfile 个人资料视图，嵌入累计统计
type UserProfile struct {
	ID                    uint           `json:"id"`
	Name                  string         `json:"name"`
	Email                 string         `json:"email"`
	Role                  model.UserRole `json:"role"`
	Avatar                string         `json:"avatar"`
	TotalQuizzesCreated   int            `json:"totalQuizzesCreated"`
	TotalQuizzesAttempted int            `json:"totalQuizzesAttempted"`
	UniqueQuizzesTaken    int64          `json:"uniqueQuizzesTaken"`
	CurrentStreak         int            `json:"currentStreak"`
	LastQuizDate          *time.Time     `json:"lastQuizDate,omitempty"`
}

func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	uniqueQuizzes, err := s.AttemptRepo.CountDistinctQuizzes(userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:                    user.ID,
		Name:                  user.Name,
		Email:                 user.Email,
		Role:                  user.Role,
		Avatar:                user.Avatar,
		TotalQuizzesCreated:   user.TotalQuizzesCreated,
		TotalQuizzesAttempted: user.TotalQuizzesAttempted,
		UniqueQuizzesTaken:    uniqueQuizzes,
		CurrentStreak:         user.CurrentStreak,
		LastQuizDate:          user.LastQuizDate,
	}, nil
}

type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
