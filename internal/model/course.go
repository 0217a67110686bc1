package model

import (
	"time"
)

const DefaultCourseCapacity = 30

// Course 培训课程
type Course struct {
	BaseModel
	Title           string          `gorm:"size:200;not null;index" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	InstructorID    *uint           `gorm:"index" json:"instructorId"`
	Instructor      *User           `gorm:"constraint:OnDelete:SET NULL" json:"instructor,omitempty"`
	ImageURL        string          `gorm:"size:500" json:"imageUrl"`
	DurationHours   int             `gorm:"not null" json:"durationHours"`
	Capacity        int             `gorm:"default:30;not null" json:"capacity"`
	Price           float64         `gorm:"type:decimal(10,2);default:0" json:"price"`
	DifficultyLevel DifficultyLevel `gorm:"size:20;default:'beginner'" json:"difficultyLevel"`
	StartDate       *time.Time      `json:"startDate"`
	EndDate         *time.Time      `json:"endDate"`
	Skills          []Skill         `gorm:"many2many:course_skills;constraint:OnDelete:CASCADE" json:"skills"`
	Modules         []CourseModule  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule 课程章节，同一课程内 order 唯一
type CourseModule struct {
	BaseModel
	CourseID        uint    `gorm:"uniqueIndex:idx_course_order;not null" json:"courseId"`
	Course          *Course `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title           string  `gorm:"size:200;not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	Order           int     `gorm:"uniqueIndex:idx_course_order;default:1" json:"order"`
	DurationMinutes int     `gorm:"default:60" json:"durationMinutes"`
	VideoURL        string  `gorm:"size:500" json:"videoUrl"`
	Content         string  `gorm:"type:text" json:"content"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
