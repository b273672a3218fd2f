package model

// Quiz 测验，TotalPoints 为派生缓存值：
// 任何题目增删改分都必须在同一事务内重算，保持与题目分值之和一致。
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Published   bool       `gorm:"default:true" json:"published"`
	ClassroomID uint       `gorm:"index;type:bigint unsigned" json:"classroomId"`
	TeacherID   uint       `gorm:"index;type:bigint unsigned" json:"teacherId"`
	TotalPoints float64    `gorm:"default:0" json:"totalPoints"`
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	Attempts    []Attempt  `gorm:"foreignKey:QuizID" json:"attempts,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
