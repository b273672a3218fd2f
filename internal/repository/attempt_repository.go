package repository

import (
	"classquiz_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) ExistsByQuizAndStudent(quizID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at asc")
		}).
		Preload("Answers.Question").
		First(&attempt, "id = ?", id).Error
	return &attempt, err
}

func (r *AttemptRepository) FindByQuizID(quizID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Preload("Student").
		Where("quiz_id = ?", quizID).
		Order("submitted_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindByQuizAndStudent(quizID, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at asc")
		}).
		Preload("Answers.Question").
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&attempt).Error
	return &attempt, err
}

func (r *AttemptRepository) FindByStudentID(studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("student_id = ?", studentID).
		Order("submitted_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindAnswerByID(id string) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.Preload("Question").First(&answer, "id = ?", id).Error
	return &answer, err
}

// ListUngradedEssayAnswers 列出某试卷下尚未批改的主观题作答
func (r *AttemptRepository) ListUngradedEssayAnswers(quizID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.
		Joins("JOIN attempts ON attempts.id = answers.attempt_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("attempts.quiz_id = ? AND questions.type = ? AND answers.graded = ?",
			quizID, model.Essay, false).
		Preload("Question").
		Find(&answers).Error
	return answers, err
}
