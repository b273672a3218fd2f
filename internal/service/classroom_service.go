package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"context"
	"crypto/rand"
	"errors"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"
)

const (
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeLength   = 6
	joinCodeRetries  = 10
)

type ClassroomService struct {
	Repo    *repository.ClassroomRepository
	Storage *StorageService
}

func NewClassroomService(repo *repository.ClassroomRepository, storage *StorageService) *ClassroomService {
	return &ClassroomService{Repo: repo, Storage: storage}
}

// CreateClassroom 创建班级并生成唯一加入码，横幅图可选
func (s *ClassroomService) CreateClassroom(teacherID uint, name string, banner *multipart.FileHeader) (*model.Classroom, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("classroom name is required")
	}

	code, err := s.generateJoinCode()
	if err != nil {
		return nil, err
	}

	classroom := &model.Classroom{
		Name:      name,
		Code:      code,
		TeacherID: teacherID,
	}

	if banner != nil {
		url, err := s.Storage.UploadBanner(context.Background(), banner)
		if err != nil {
			return nil, err
		}
		classroom.BannerURL = url
	}

	if err := s.Repo.Create(classroom); err != nil {
		return nil, err
	}
	return classroom, nil
}

// generateJoinCode 随机生成 6 位 A-Z0-9 加入码，撞码时重试
func (s *ClassroomService) generateJoinCode() (string, error) {
	for i := 0; i < joinCodeRetries; i++ {
		buf := make([]byte, joinCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for j := range buf {
			buf[j] = joinCodeAlphabet[int(buf[j])%len(joinCodeAlphabet)]
		}
		code := string(buf)

		exists, err := s.Repo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique join code")
}

// JoinClassroom 学生按加入码入班，码无效或重复加入时报错
func (s *ClassroomService) JoinClassroom(studentID uint, code string, student *model.User) (*model.Classroom, error) {
	classroom, err := s.Repo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidJoinCode
	}
	if err != nil {
		return nil, err
	}

	joined, err := s.Repo.IsEnrolled(studentID, classroom.ID)
	if err != nil {
		return nil, err
	}
	if joined {
		return nil, util.ErrAlreadyJoined
	}

	if err := s.Repo.AddStudent(classroom, student); err != nil {
		return nil, err
	}
	return classroom, nil
}

// IsEnrolled 入班谓词，提交流程通过 EnrollmentChecker 注入使用
func (s *ClassroomService) IsEnrolled(studentID, classroomID uint) (bool, error) {
	return s.Repo.IsEnrolled(studentID, classroomID)
}

func (s *ClassroomService) GetClassroom(classroomID uint) (*model.Classroom, error) {
	classroom, err := s.Repo.FindByID(classroomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrClassroomNotFound
	}
	return classroom, err
}

func (s *ClassroomService) ListByTeacher(teacherID uint) ([]model.Classroom, error) {
	return s.Repo.FindByTeacherID(teacherID)
}

func (s *ClassroomService) ListByStudent(studentID uint) ([]model.Classroom, error) {
	return s.Repo.FindByStudentID(studentID)
}
