package model

type QuestionType string

const (
	MCQ            QuestionType = "MCQ"
	TrueFalse      QuestionType = "TRUE_FALSE"
	Identification QuestionType = "IDENTIFICATION"
	Coding         QuestionType = "CODING"
	Essay          QuestionType = "ESSAY"
)

// Question 题目。MCQ 题的答案由 Choices 表达，CorrectAnswer 留空；
// ESSAY 题没有标准答案，由教师人工评分。
// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint         `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Type          QuestionType `gorm:"size:20;not null" json:"type"`
	Text          string       `gorm:"type:text;not null" json:"text"`
	CorrectAnswer string       `gorm:"type:text" json:"correctAnswer,omitempty"`
	QIndex        int          `gorm:"default:0" json:"qIndex"`
	Points        float64      `gorm:"default:1" json:"points"`
	Choices       []Choice     `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
