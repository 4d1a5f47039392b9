package model

import (
	"encoding/json"
	"time"
)

type QuizDifficulty string

const (
	DifficultyEasy   QuizDifficulty = "easy"
	DifficultyMedium QuizDifficulty = "medium"
	DifficultyHard   QuizDifficulty = "hard"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Topic       string         `gorm:"size:255;not null;index" json:"topic"`
	Difficulty  QuizDifficulty `gorm:"type:varchar(10);default:'medium'" json:"difficulty"`
	CreatedBy   uint           `gorm:"index;type:bigint unsigned" json:"createdBy"`
	Creator     *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	ImageID     string         `gorm:"size:64" json:"imageId"` // 对象存储中的图片 key

	// AI 生成元数据
	ModelUsed   string    `gorm:"size:100" json:"modelUsed"`
	Seed        int       `gorm:"default:0" json:"seed"`
	GeneratedAt time.Time `json:"generatedAt"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 题目以 Seq（题内 1 起始序号）作为答题寻址方式，
// 选项顺序稳定，正确答案存的是选项文本而不是下标。
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID        uint            `gorm:"type:bigint unsigned;uniqueIndex:idx_quiz_seq,priority:1" json:"quizId"`
	Seq           int             `gorm:"not null;uniqueIndex:idx_quiz_seq,priority:2" json:"seq"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Options       json.RawMessage `gorm:"type:json" json:"options"` // JSON: []string
	CorrectAnswer string          `gorm:"type:text;not null" json:"-"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// OptionList 反序列化选项数组，坏数据返回空切片而不是报错
func (q *QuizQuestion) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &opts)
	}
	return opts
}
