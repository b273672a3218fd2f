package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type QuizService struct {
	Repo    *repository.QuizRepository
	Reports *ReportService
	DB      *gorm.DB
}

func NewQuizService(repo *repository.QuizRepository, reports *ReportService, db *gorm.DB) *QuizService {
	return &QuizService{Repo: repo, Reports: reports, DB: db}
}

type QuizReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Published   *bool   `json:"published"`
}

type QuestionReq struct {
	Type          model.QuestionType `json:"type" binding:"required"`
	Text          string             `json:"text" binding:"required"`
	CorrectAnswer string             `json:"correctAnswer"`
	Points        *float64           `json:"points"`
	// MCQ 专用
	Choices       []string `json:"choices"`
	CorrectChoice string   `json:"correctChoice"`
}

type QuestionUpdateReq struct {
	Text          *string  `json:"text"`
	CorrectAnswer *string  `json:"correctAnswer"`
	Points        *float64 `json:"points"`
}

func (s *QuizService) CreateQuiz(classroomID, teacherID uint, title, description string) (*model.Quiz, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title is required")
	}

	quiz := &model.Quiz{
		Title:       title,
		Description: description,
		Published:   true,
		ClassroomID: classroomID,
		TeacherID:   teacherID,
		TotalPoints: 0,
	}

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByIDWithQuestions(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

func (s *QuizService) ListByClassroom(classroomID uint) ([]model.Quiz, error) {
	return s.Repo.FindByClassroomID(classroomID)
}

func (s *QuizService) UpdateQuiz(quizID uint, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Published != nil {
		quiz.Published = *req.Published
	}

	if err := s.Repo.Save(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz 删除试卷及其题目、选项、提交和作答，单事务完成
func (s *QuizService) DeleteQuiz(quizID uint) error {
	if _, err := s.Repo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id IN (?)",
			tx.Model(&model.Question{}).Select("id").Where("quiz_id = ?", quizID),
		).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attempt_id IN (?)",
			tx.Model(&model.Attempt{}).Select("id").Where("quiz_id = ?", quizID),
		).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, quizID).Error
	})
	if err != nil {
		return err
	}

	s.Reports.InvalidateQuiz(quizID)
	return nil
}

// AddQuestion 追加非选择题。MCQ 必须走 AddQuestionWithChoices。
// 题序取当前题目数，总分在同一事务内重算。
func (s *QuizService) AddQuestion(quizID uint, req QuestionReq) (*model.Question, error) {
	if req.Type == model.MCQ {
		return s.AddQuestionWithChoices(quizID, req)
	}

	quiz, err := s.Repo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		QuizID:        quiz.ID,
		Type:          req.Type,
		Text:          req.Text,
		CorrectAnswer: req.CorrectAnswer,
		Points:        normalizePoints(req.Points),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count).Error; err != nil {
			return err
		}
		question.QIndex = int(count)

		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return recomputeTotalPoints(tx, quiz.ID)
	})
	if err != nil {
		return nil, err
	}

	s.Reports.InvalidateQuiz(quiz.ID)
	return question, nil
}

// AddQuestionWithChoices 追加选择题，空白选项被跳过，
// 与标准选项文本去空格后忽略大小写相等的选项标记为正确。
func (s *QuizService) AddQuestionWithChoices(quizID uint, req QuestionReq) (*model.Question, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(req.Choices))
	for _, t := range req.Choices {
		if strings.TrimSpace(t) != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return nil, util.ErrChoicesRequired
	}

	question := &model.Question{
		QuizID: quiz.ID,
		Type:   model.MCQ,
		Text:   req.Text,
		Points: normalizePoints(req.Points),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count).Error; err != nil {
			return err
		}
		question.QIndex = int(count)

		if err := tx.Create(question).Error; err != nil {
			return err
		}

		want := strings.TrimSpace(strings.ToLower(req.CorrectChoice))
		for _, t := range texts {
			choice := &model.Choice{
				QuestionID: question.ID,
				Text:       t,
				IsCorrect:  strings.TrimSpace(strings.ToLower(t)) == want,
			}
			if err := tx.Create(choice).Error; err != nil {
				return err
			}
			question.Choices = append(question.Choices, *choice)
		}
		return recomputeTotalPoints(tx, quiz.ID)
	})
	if err != nil {
		return nil, err
	}

	s.Reports.InvalidateQuiz(quiz.ID)
	return question, nil
}

func (s *QuizService) UpdateQuestion(questionID uint, req QuestionUpdateReq) (*model.Question, error) {
	question, err := s.Repo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Points != nil && *req.Points <= 0 {
		return nil, util.ErrInvalidPoints
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	pointsChanged := req.Points != nil && *req.Points != question.Points
	if req.Points != nil {
		question.Points = *req.Points
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if pointsChanged {
			return recomputeTotalPoints(tx, question.QuizID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Reports.InvalidateQuiz(question.QuizID)
	return question, nil
}

// DeleteQuestion 删除题目及其选项和作答记录，并在同一事务内重算总分
func (s *QuizService) DeleteQuestion(questionID uint) error {
	question, err := s.Repo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	}
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Question{}, question.ID).Error; err != nil {
			return err
		}
		return recomputeTotalPoints(tx, question.QuizID)
	})
	if err != nil {
		return err
	}

	s.Reports.InvalidateQuiz(question.QuizID)
	return nil
}

func normalizePoints(p *float64) float64 {
	if p == nil || *p <= 0 {
		return 1.0
	}
	return *p
}

// recomputeTotalPoints 把试卷总分重算为当前题目的分值之和。
// 必须在引起变化的同一事务内调用。
func recomputeTotalPoints(tx *gorm.DB, quizID uint) error {
	var total float64
	err := tx.Model(&model.Question{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	return tx.Model(&model.Quiz{}).Where("id = ?", quizID).Update("total_points", total).Error
}

// StudentQuizView 学生视角的试卷，不含标准答案和选项正确性
type StudentQuizView struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	ClassroomID uint                  `json:"classroomId"`
	TotalPoints float64               `json:"totalPoints"`
	Questions   []StudentQuestionView `json:"questions"`
}

type StudentQuestionView struct {
	ID      uint                `json:"id"`
	Type    model.QuestionType  `json:"type"`
	Text    string              `json:"text"`
	QIndex  int                 `json:"qIndex"`
	Points  float64             `json:"points"`
	Choices []StudentChoiceView `json:"choices,omitempty"`
}

type StudentChoiceView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// GetQuizForStudent 返回脱敏后的试卷详情
func (s *QuizService) GetQuizForStudent(quizID uint) (*StudentQuizView, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	view := &StudentQuizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		ClassroomID: quiz.ClassroomID,
		TotalPoints: quiz.TotalPoints,
		Questions:   make([]StudentQuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qv := StudentQuestionView{
			ID:     q.ID,
			Type:   q.Type,
			Text:   q.Text,
			QIndex: q.QIndex,
			Points: q.Points,
		}
		for _, c := range q.Choices {
			qv.Choices = append(qv.Choices, StudentChoiceView{ID: c.ID, Text: c.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}
