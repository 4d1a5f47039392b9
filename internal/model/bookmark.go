package model

import "time"

// Bookmark 用户收藏的测验，(user, quiz) 唯一，增删都幂等。
// 不使用软删除，取消收藏直接物理删除，避免唯一索引被占位。
type Bookmark struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"type:bigint unsigned;uniqueIndex:idx_user_quiz,priority:1" json:"userId"`
	QuizID    uint      `gorm:"type:bigint unsigned;uniqueIndex:idx_user_quiz,priority:2" json:"quizId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
