package model

import (
	"encoding/json"
	"time"
)

// QuizAttempt 一次答题记录。判分时创建一次，之后不再修改，
// 同一用户对同一测验可以有多条记录。
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID      uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	Quiz        *Quiz           `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	UserID      uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	Answers     json.RawMessage `gorm:"type:json" json:"answers"` // JSON: []AttemptAnswer
	Correct     int             `gorm:"not null" json:"correct"`
	Total       int             `gorm:"not null" json:"total"` // 判分时刻的题目数量
	CompletedAt time.Time       `gorm:"index" json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AttemptAnswer 单题作答结果，随 Attempt 固化存储
type AttemptAnswer struct {
	Seq        int    `json:"seq"`
	YourAnswer string `json:"yourAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// PercentScore 单次答题的百分制得分，空卷按 0 处理
func (a *QuizAttempt) PercentScore() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Total) * 100
}

// QuizStats 测验维度的聚合统计，读取时即时计算，不落库
// swagger:model QuizStats
type QuizStats struct {
	TotalAttempts int              `json:"totalAttempts"`
	AverageScore  float64          `json:"averageScore"`
	BestScore     float64          `json:"bestScore"`
	UniqueUsers   int              `json:"uniqueUsers"`
	UserAttempts  *UserQuizStats   `json:"userAttempts,omitempty"`
}

// UserQuizStats 同一测验下单个用户的统计
// swagger:model UserQuizStats
type UserQuizStats struct {
	Attempts     int       `json:"attempts"`
	AverageScore float64   `json:"averageScore"`
	BestScore    float64   `json:"bestScore"`
	LastAttempt  time.Time `json:"lastAttempt"`
}
