package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"errors"
	"regexp"
	"testing"
)

var joinCodeRe = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestCreateClassroomGeneratesJoinCode(t *testing.T) {
	env := newTestEnv(t)
	teacher := createTestUser(t, env.db, "teacher", model.Teacher)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		classroom, err := env.classrooms.CreateClassroom(teacher.ID, "班级", nil)
		if err != nil {
			t.Fatalf("create classroom: %v", err)
		}
		if !joinCodeRe.MatchString(classroom.Code) {
			t.Errorf("join code %q does not match [A-Z0-9]{6}", classroom.Code)
		}
		if seen[classroom.Code] {
			t.Errorf("duplicate join code %q", classroom.Code)
		}
		seen[classroom.Code] = true
	}
}

func TestCreateClassroomRequiresName(t *testing.T) {
	env := newTestEnv(t)
	teacher := createTestUser(t, env.db, "teacher", model.Teacher)

	if _, err := env.classrooms.CreateClassroom(teacher.ID, "   ", nil); err == nil {
		t.Error("blank name should be rejected")
	}
}

func TestJoinClassroomRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	teacher := createTestUser(t, env.db, "teacher", model.Teacher)
	classroom := createTestClassroom(t, env, teacher.ID)
	student := createTestUser(t, env.db, "student", model.Student)

	joined, err := env.classrooms.JoinClassroom(student.ID, classroom.Code, student)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != classroom.ID {
		t.Errorf("joined classroom %d, want %d", joined.ID, classroom.ID)
	}

	enrolled, err := env.classrooms.IsEnrolled(student.ID, classroom.ID)
	if err != nil {
		t.Fatalf("is enrolled: %v", err)
	}
	if !enrolled {
		t.Error("student should be enrolled after join")
	}

	mine, err := env.classrooms.ListByStudent(student.ID)
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != classroom.ID {
		t.Errorf("student classrooms = %v", mine)
	}
}

// 加入码不区分大小写、允许首尾空格
func TestJoinClassroomNormalizesCode(t *testing.T) {
	env := newTestEnv(t)
	teacher := createTestUser(t, env.db, "teacher", model.Teacher)
	classroom := createTestClassroom(t, env, teacher.ID)
	student := createTestUser(t, env.db, "student", model.Student)

	sloppy := "  " + classroom.Code + " "
	if _, err := env.classrooms.JoinClassroom(student.ID, sloppy, student); err != nil {
		t.Errorf("padded code rejected: %v", err)
	}
}

func TestJoinClassroomInvalidCode(t *testing.T) {
	env := newTestEnv(t)
	student := createTestUser(t, env.db, "student", model.Student)

	_, err := env.classrooms.JoinClassroom(student.ID, "NOSUCH", student)
	if !errors.Is(err, util.ErrInvalidJoinCode) {
		t.Errorf("err = %v, want ErrInvalidJoinCode", err)
	}
}

func TestJoinClassroomTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	teacher := createTestUser(t, env.db, "teacher", model.Teacher)
	classroom := createTestClassroom(t, env, teacher.ID)
	student := createTestUser(t, env.db, "student", model.Student)

	if _, err := env.classrooms.JoinClassroom(student.ID, classroom.Code, student); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := env.classrooms.JoinClassroom(student.ID, classroom.Code, student)
	if !errors.Is(err, util.ErrAlreadyJoined) {
		t.Errorf("err = %v, want ErrAlreadyJoined", err)
	}
}

func TestIsEnrolledFalseForOutsider(t *testing.T) {
	env := newTestEnv(t)
	teacher := createTestUser(t, env.db, "teacher", model.Teacher)
	classroom := createTestClassroom(t, env, teacher.ID)
	outsider := createTestUser(t, env.db, "outsider", model.Student)

	enrolled, err := env.classrooms.IsEnrolled(outsider.ID, classroom.ID)
	if err != nil {
		t.Fatalf("is enrolled: %v", err)
	}
	if enrolled {
		t.Error("outsider should not be enrolled")
	}
}
