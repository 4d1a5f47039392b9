package repository

import (
	"quizforge_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkRepository struct {
	DB *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{DB: db}
}

// Add 幂等添加，重复收藏直接忽略冲突
func (r *BookmarkRepository) Add(userID, quizID uint) error {
	bookmark := model.Bookmark{UserID: userID, QuizID: quizID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&bookmark).Error
}

// Remove 幂等删除，不存在时同样视为成功
func (r *BookmarkRepository) Remove(userID, quizID uint) error {
	return r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Delete(&model.Bookmark{}).Error
}

func (r *BookmarkRepository) IsBookmarked(userID, quizID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Bookmark{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).Count(&count).Error
	return count > 0, err
}

// QuizIDSet 返回用户收藏的测验 ID 集合，用于批量打 isBookmarked 标记
func (r *BookmarkRepository) QuizIDSet(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.Bookmark{}).Where("user_id = ?", userID).
		Order("created_at desc").Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// QuizIDs 收藏的测验 ID 列表，按收藏时间倒序
func (r *BookmarkRepository) QuizIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Bookmark{}).Where("user_id = ?", userID).
		Order("created_at desc").Pluck("quiz_id", &ids).Error
	return ids, err
}
