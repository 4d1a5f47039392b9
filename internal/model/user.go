package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(10);default:'user'" json:"role"`
	Avatar   string   `gorm:"size:255" json:"avatar"`
	Disabled bool     `gorm:"default:false" json:"disabled"`

	// 累计统计，随创建/答题实时更新
	TotalQuizzesCreated   int        `gorm:"default:0" json:"totalQuizzesCreated"`
	TotalQuizzesAttempted int        `gorm:"default:0" json:"totalQuizzesAttempted"`
	CurrentStreak         int        `gorm:"default:0" json:"currentStreak"` // 连续答题天数
	LastQuizDate          *time.Time `json:"lastQuizDate,omitempty"`         // 最近一次答题日期，用于计算连续天数

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
