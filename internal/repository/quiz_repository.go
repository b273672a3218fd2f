package repository

import (
	"classquiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) Save(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

// FindByIDWithQuestions 加载试卷及其题目（按题序）与选项
func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.q_index asc")
		}).
		Preload("Questions.Choices").
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByClassroomID(classroomID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("classroom_id = ?", classroomID).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindByTeacherID(teacherID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CountQuestions(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Choices").First(&question, id).Error
	return &question, err
}
