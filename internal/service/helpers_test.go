package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/pkg/database"
	"fmt"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	db         *gorm.DB
	classrooms *ClassroomService
	quizzes    *QuizService
	submission *SubmissionService
	reports    *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	classroomRepo := repository.NewClassroomRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	reports := NewReportService(quizRepo, attemptRepo, nil)
	classrooms := NewClassroomService(classroomRepo, nil)
	quizzes := NewQuizService(quizRepo, reports, db)
	submission := NewSubmissionService(attemptRepo, quizRepo, classrooms, reports, db)

	return &testEnv{
		db:         db,
		classrooms: classrooms,
		quizzes:    quizzes,
		submission: submission,
		reports:    reports,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func createTestClassroom(t *testing.T, env *testEnv, teacherID uint) *model.Classroom {
	t.Helper()

	classroom, err := env.classrooms.CreateClassroom(teacherID, "数据结构一班", nil)
	if err != nil {
		t.Fatalf("create classroom: %v", err)
	}
	return classroom
}

func enrollStudent(t *testing.T, env *testEnv, classroom *model.Classroom, student *model.User) {
	t.Helper()

	if _, err := env.classrooms.JoinClassroom(student.ID, classroom.Code, student); err != nil {
		t.Fatalf("join classroom: %v", err)
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
