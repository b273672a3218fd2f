package repository

import (
	"classquiz_backend/internal/model"

	"gorm.io/gorm"
)

type ClassroomRepository struct {
	DB *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{DB: db}
}

func (r *ClassroomRepository) Create(classroom *model.Classroom) error {
	return r.DB.Create(classroom).Error
}

func (r *ClassroomRepository) FindByID(id uint) (*model.Classroom, error) {
	var c model.Classroom
	err := r.DB.Preload("Teacher").Preload("Students").First(&c, id).Error
	return &c, err
}

func (r *ClassroomRepository) FindByCode(code string) (*model.Classroom, error) {
	var c model.Classroom
	err := r.DB.Where("code = ?", code).First(&c).Error
	return &c, err
}

func (r *ClassroomRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Classroom{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *ClassroomRepository) FindByTeacherID(teacherID uint) ([]model.Classroom, error) {
	var classrooms []model.Classroom
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&classrooms).Error
	return classrooms, err
}

func (r *ClassroomRepository) FindByStudentID(studentID uint) ([]model.Classroom, error) {
	var classrooms []model.Classroom
	err := r.DB.
		Joins("JOIN classroom_students cs ON cs.classroom_id = classrooms.id").
		Where("cs.user_id = ?", studentID).
		Order("classrooms.created_at desc").
		Find(&classrooms).Error
	return classrooms, err
}

func (r *ClassroomRepository) AddStudent(classroom *model.Classroom, student *model.User) error {
	return r.DB.Model(classroom).Association("Students").Append(student)
}

// IsEnrolled 按关联表判定学生是否在班级中，作为提交流程的入班谓词
func (r *ClassroomRepository) IsEnrolled(studentID, classroomID uint) (bool, error) {
	var count int64
	err := r.DB.Table("classroom_students").
		Where("classroom_id = ? AND user_id = ?", classroomID, studentID).
		Count(&count).Error
	return count > 0, err
}
