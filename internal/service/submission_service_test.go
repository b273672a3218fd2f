package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"errors"
	"testing"
)

// 搭一份混合题型的试卷：选择(2分) + 填空(1分) + 作文(10分)
func setupMixedQuiz(t *testing.T, env *testEnv) (*model.Classroom, *model.Quiz, *model.User) {
	t.Helper()

	teacher := createTestUser(t, env.db, "teacher", model.Teacher)
	classroom := createTestClassroom(t, env, teacher.ID)
	quiz, err := env.quizzes.CreateQuiz(classroom.ID, teacher.ID, "综合测验", "")
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	if _, err := env.quizzes.AddQuestion(quiz.ID, QuestionReq{
		Type:          model.MCQ,
		Text:          "后进先出的结构是?",
		Choices:       []string{"队列", "栈"},
		CorrectChoice: "栈",
		Points:        floatPtr(2),
	}); err != nil {
		t.Fatalf("add MCQ: %v", err)
	}
	if _, err := env.quizzes.AddQuestion(quiz.ID, QuestionReq{
		Type: model.Identification, Text: "法国的首都?", CorrectAnswer: "Paris", Points: floatPtr(1),
	}); err != nil {
		t.Fatalf("add identification: %v", err)
	}
	if _, err := env.quizzes.AddQuestion(quiz.ID, QuestionReq{
		Type: model.Essay, Text: "谈谈对递归的理解", Points: floatPtr(10),
	}); err != nil {
		t.Fatalf("add essay: %v", err)
	}

	student := createTestUser(t, env.db, "student", model.Student)
	enrollStudent(t, env, classroom, student)
	return classroom, quiz, student
}

func mixedAnswers(t *testing.T, env *testEnv, quizID uint) map[string]string {
	t.Helper()

	quiz, err := env.quizzes.GetQuiz(quizID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	answers := map[string]string{}
	for _, q := range quiz.Questions {
		key := util.AnswerKeyPrefix + itoa(q.ID)
		switch q.Type {
		case model.MCQ:
			for _, c := range q.Choices {
				if c.IsCorrect {
					answers[key] = itoa(c.ID)
				}
			}
		case model.Identification:
			answers[key] = "  Paris "
		case model.Essay:
			answers[key] = "递归就是函数调用自身"
		}
	}
	return answers
}

func TestSubmitQuizScoresObjectiveQuestions(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	attempt, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, mixedAnswers(t, env, quiz.ID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if attempt.Score == nil || *attempt.Score != 3 {
		t.Errorf("score = %v, want 3 (essay pending)", attempt.Score)
	}
	if len(attempt.Answers) != 3 {
		t.Errorf("answers = %d, want 3", len(attempt.Answers))
	}

	for _, a := range attempt.Answers {
		if a.Graded {
			t.Error("no answer should be marked graded at submission time")
		}
	}
}

func TestSubmitQuizRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	answers := mixedAnswers(t, env, quiz.ID)
	if _, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, answers); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, answers)
	if !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Errorf("err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitQuizRejectsUnenrolledStudent(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, _ := setupMixedQuiz(t, env)

	outsider := createTestUser(t, env.db, "outsider", model.Student)
	_, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, outsider.ID, map[string]string{})
	if !errors.Is(err, util.ErrNotEnrolled) {
		t.Errorf("err = %v, want ErrNotEnrolled", err)
	}
}

func TestSubmitQuizWrongClassroom(t *testing.T) {
	env := newTestEnv(t)
	_, quiz, student := setupMixedQuiz(t, env)

	_, err := env.submission.SubmitQuiz(quiz.ClassroomID+100, quiz.ID, student.ID, map[string]string{})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}

// 缺答按答错处理，不报错
func TestSubmitQuizMissingAnswers(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	attempt, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, map[string]string{})
	if err != nil {
		t.Fatalf("submit with no answers: %v", err)
	}
	if attempt.Score == nil || *attempt.Score != 0 {
		t.Errorf("score = %v, want 0", attempt.Score)
	}
	if len(attempt.Answers) != 3 {
		t.Errorf("answers = %d, want one per question", len(attempt.Answers))
	}
}

// 作答期间被删除的题目在提交时直接跳过，总分只对幸存题目求和
func TestSubmitQuizSkipsDeletedQuestion(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	// 学生拿到三道题并作答
	answers := mixedAnswers(t, env, quiz.ID)
	if len(answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(answers))
	}

	// 提交前教师删掉作文题
	full, err := env.quizzes.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	for _, q := range full.Questions {
		if q.Type == model.Essay {
			if err := env.quizzes.DeleteQuestion(q.ID); err != nil {
				t.Fatalf("delete question: %v", err)
			}
		}
	}

	attempt, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, answers)
	if err != nil {
		t.Fatalf("submit after deletion: %v", err)
	}

	if len(attempt.Answers) != 2 {
		t.Errorf("answers persisted = %d, want 2 (deleted question skipped)", len(attempt.Answers))
	}
	if attempt.Score == nil || *attempt.Score != 3 {
		t.Errorf("score = %v, want 3 (sum over surviving questions)", attempt.Score)
	}

	pending, err := env.submission.ListPendingEssays(quiz.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending essays = %d, want 0 for deleted question", len(pending))
	}
}

func findEssayAnswer(t *testing.T, env *testEnv, attemptID string) *model.Answer {
	t.Helper()

	attempt, err := env.submission.GetAttempt(attemptID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	for i := range attempt.Answers {
		if attempt.Answers[i].Question != nil && attempt.Answers[i].Question.Type == model.Essay {
			return &attempt.Answers[i]
		}
	}
	t.Fatal("essay answer not found")
	return nil
}

func TestGradeEssayUpdatesAttemptScore(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	attempt, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, mixedAnswers(t, env, quiz.ID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	essay := findEssayAnswer(t, env, attempt.ID)

	graded, err := env.submission.GradeEssay(essay.ID, 7.5)
	if err != nil {
		t.Fatalf("grade essay: %v", err)
	}
	if !graded.Graded || graded.EssayScore == nil || *graded.EssayScore != 7.5 {
		t.Errorf("graded answer = {Graded:%v EssayScore:%v}, want {true 7.5}", graded.Graded, graded.EssayScore)
	}

	after, _ := env.submission.GetAttempt(attempt.ID)
	if after.Score == nil || *after.Score != 10.5 {
		t.Errorf("attempt score = %v, want 10.5", after.Score)
	}
}

func TestGradeEssayOutOfRangeLeavesPriorScore(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	attempt, _ := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, mixedAnswers(t, env, quiz.ID))
	essay := findEssayAnswer(t, env, attempt.ID)

	if _, err := env.submission.GradeEssay(essay.ID, 6); err != nil {
		t.Fatalf("first grade: %v", err)
	}

	// 越界评分被拒，原有评分保留
	if _, err := env.submission.GradeEssay(essay.ID, 15); !errors.Is(err, util.ErrScoreOutOfRange) {
		t.Errorf("err = %v, want ErrScoreOutOfRange", err)
	}
	if _, err := env.submission.GradeEssay(essay.ID, -1); !errors.Is(err, util.ErrScoreOutOfRange) {
		t.Errorf("err = %v, want ErrScoreOutOfRange", err)
	}

	kept, err := env.submission.GetAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if kept.Score == nil || *kept.Score != 9 {
		t.Errorf("score after rejected grades = %v, want 9", kept.Score)
	}

	reloaded := findEssayAnswer(t, env, attempt.ID)
	if !reloaded.Graded || reloaded.EssayScore == nil || *reloaded.EssayScore != 6 {
		t.Errorf("essay grade overwritten: {Graded:%v EssayScore:%v}", reloaded.Graded, reloaded.EssayScore)
	}
}

func TestGradeEssayRejectsNonEssay(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	attempt, _ := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, mixedAnswers(t, env, quiz.ID))

	full, _ := env.submission.GetAttempt(attempt.ID)
	for _, a := range full.Answers {
		if a.Question != nil && a.Question.Type == model.Identification {
			if _, err := env.submission.GradeEssay(a.ID, 1); !errors.Is(err, util.ErrNotEssayQuestion) {
				t.Errorf("err = %v, want ErrNotEssayQuestion", err)
			}
		}
	}
}

func TestListPendingEssays(t *testing.T) {
	env := newTestEnv(t)
	classroom, quiz, student := setupMixedQuiz(t, env)

	if _, err := env.submission.SubmitQuiz(classroom.ID, quiz.ID, student.ID, mixedAnswers(t, env, quiz.ID)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	pending, err := env.submission.ListPendingEssays(quiz.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	if _, err := env.submission.GradeEssay(pending[0].ID, 8); err != nil {
		t.Fatalf("grade: %v", err)
	}

	pending, _ = env.submission.ListPendingEssays(quiz.ID)
	if len(pending) != 0 {
		t.Errorf("pending after grading = %d, want 0", len(pending))
	}
}
