package model

// Answer 一道题的作答记录。Correct 是自动判分结果；
// 作文题用 EssayScore + Graded 两个独立字段承载人工评分，
// Graded 为 true 表示已批改，EssayScore 为实际得分。
// swagger:model Answer
type Answer struct {
	UUIDBase
	AttemptID  string    `gorm:"index;type:varchar(36);not null" json:"attemptId"`
	QuestionID uint      `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	ChoiceID   *uint     `gorm:"type:bigint unsigned" json:"choiceId,omitempty"`
	GivenText  string    `gorm:"type:text" json:"givenText"`
	Correct    bool      `gorm:"default:false" json:"correct"`
	Graded     bool      `gorm:"default:false" json:"graded"`
	EssayScore *float64  `json:"essayScore,omitempty"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (Answer) TableName() string {
	return "answers"
}
