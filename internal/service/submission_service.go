package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/monitoring"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// EnrollmentChecker 提交流程依赖的入班谓词，由班级模块实现
type EnrollmentChecker interface {
	IsEnrolled(studentID, classroomID uint) (bool, error)
}

type SubmissionService struct {
	Repo       *repository.AttemptRepository
	QuizRepo   *repository.QuizRepository
	Enrollment EnrollmentChecker
	Reports    *ReportService
	DB         *gorm.DB
}

func NewSubmissionService(
	repo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	enrollment EnrollmentChecker,
	reports *ReportService,
	db *gorm.DB,
) *SubmissionService {
	return &SubmissionService{
		Repo:       repo,
		QuizRepo:   quizRepo,
		Enrollment: enrollment,
		Reports:    reports,
		DB:         db,
	}
}

// SubmitQuiz 学生提交试卷。answers 的键为 q_<题目ID>。
// 资格校验（试卷归属、入班、未重复提交）通过后，
// 在一个事务内对全部题目判分并落库，重复提交校验也在事务内。
func (s *SubmissionService) SubmitQuiz(classroomID, quizID, studentID uint, answers map[string]string) (*model.Attempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if quiz.ClassroomID != classroomID {
		return nil, util.ErrQuizNotFound
	}

	enrolled, err := s.Enrollment.IsEnrolled(studentID, classroomID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		monitoring.QuizSubmissionCounter.WithLabelValues("not_enrolled").Inc()
		return nil, util.ErrNotEnrolled
	}

	attempt := &model.Attempt{
		QuizID:      quiz.ID,
		StudentID:   studentID,
		SubmittedAt: time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Attempt{}).
			Where("quiz_id = ? AND student_id = ?", quiz.ID, studentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrAlreadySubmitted
		}

		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		// 事务内重取题目，中途被删的题直接跳过
		var questions []model.Question
		if err := tx.Preload("Choices").
			Where("quiz_id = ?", quiz.ID).
			Order("q_index asc").
			Find(&questions).Error; err != nil {
			return err
		}

		total := 0.0
		for i := range questions {
			q := &questions[i]
			raw := answers[util.AnswerKeyPrefix+strconv.FormatUint(uint64(q.ID), 10)]
			ev := EvaluateAnswer(q, raw)
			total += ev.Awarded

			answer := &model.Answer{
				AttemptID:  attempt.ID,
				QuestionID: q.ID,
				ChoiceID:   ev.ChoiceID,
				GivenText:  raw,
				Correct:    ev.Correct,
			}
			if err := tx.Create(answer).Error; err != nil {
				return err
			}
			attempt.Answers = append(attempt.Answers, *answer)
		}

		attempt.Score = &total
		return tx.Model(&model.Attempt{}).Where("id = ?", attempt.ID).Update("score", total).Error
	})
	if err != nil {
		if errors.Is(err, util.ErrAlreadySubmitted) {
			monitoring.QuizSubmissionCounter.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	monitoring.QuizSubmissionCounter.WithLabelValues("accepted").Inc()
	s.Reports.InvalidateQuiz(quiz.ID)
	return attempt, nil
}

// GradeEssay 教师给作文题评分。校验失败时保留原有评分不动。
// 评分写入与尝试总分重算在同一事务内完成。
func (s *SubmissionService) GradeEssay(answerID string, score float64) (*model.Answer, error) {
	answer, err := s.Repo.FindAnswerByID(answerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}

	if answer.Question == nil || answer.Question.Type != model.Essay {
		return nil, util.ErrNotEssayQuestion
	}
	if score < 0 || score > answer.Question.Points {
		return nil, util.ErrScoreOutOfRange
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Answer{}).Where("id = ?", answer.ID).
			Updates(map[string]interface{}{"essay_score": score, "graded": true}).Error; err != nil {
			return err
		}
		return recomputeAttemptScore(tx, answer.AttemptID)
	})
	if err != nil {
		return nil, err
	}

	answer.EssayScore = &score
	answer.Graded = true

	var attempt model.Attempt
	if err := s.DB.First(&attempt, "id = ?", answer.AttemptID).Error; err == nil {
		s.Reports.InvalidateQuiz(attempt.QuizID)
	}
	return answer, nil
}

// RecomputeAttemptScore 重算一次提交的总分
func (s *SubmissionService) RecomputeAttemptScore(attemptID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return recomputeAttemptScore(tx, attemptID)
	})
}

// recomputeAttemptScore 总分 = 客观题答对的分值之和 + 已批改作文题的评分之和。
// 这是提交定稿后唯一会改动 Score 的路径。
func recomputeAttemptScore(tx *gorm.DB, attemptID string) error {
	var answers []model.Answer
	if err := tx.Preload("Question").
		Where("attempt_id = ?", attemptID).
		Find(&answers).Error; err != nil {
		return err
	}

	total := 0.0
	for _, a := range answers {
		if a.Question == nil {
			continue
		}
		if a.Question.Type == model.Essay {
			if a.Graded && a.EssayScore != nil {
				total += *a.EssayScore
			}
			continue
		}
		if a.Correct {
			total += a.Question.Points
		}
	}

	return tx.Model(&model.Attempt{}).Where("id = ?", attemptID).Update("score", total).Error
}

// ListPendingEssays 某试卷下待批改的作文题作答
func (s *SubmissionService) ListPendingEssays(quizID uint) ([]model.Answer, error) {
	return s.Repo.ListUngradedEssayAnswers(quizID)
}

func (s *SubmissionService) GetAttempt(attemptID string) (*model.Attempt, error) {
	attempt, err := s.Repo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}

// GetStudentAttempt 学生查看自己在某试卷的提交
func (s *SubmissionService) GetStudentAttempt(quizID, studentID uint) (*model.Attempt, error) {
	attempt, err := s.Repo.FindByQuizAndStudent(quizID, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}
