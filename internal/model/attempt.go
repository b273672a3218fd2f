package model

import (
	"time"
)

// Attempt 一次完整提交，(QuizID, StudentID) 在业务上唯一，
// 由提交流程在同一事务内校验。提交后只有作文评分会再改动 Score。
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	QuizID      uint      `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	StudentID   uint      `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	SubmittedAt time.Time `json:"submittedAt"`
	Score       *float64  `json:"score"`
	Student     *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Answers     []Answer  `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}
