package model

// Classroom 教师创建的班级，学生凭加入码加入
// swagger:model Classroom
type Classroom struct {
	BaseModel
	Name      string `gorm:"size:150;not null" json:"name"`
	Code      string `gorm:"size:50;uniqueIndex" json:"code"`
	BannerURL string `gorm:"size:255" json:"bannerUrl"`
	TeacherID uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Teacher   *User  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Students  []User `gorm:"many2many:classroom_students" json:"students,omitempty"`
}

func (Classroom) TableName() string {
	return "classrooms"
}
