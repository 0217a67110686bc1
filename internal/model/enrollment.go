package model

import (
	"time"
)

type EnrollmentStatus string

const (
	StatusEnrolled   EnrollmentStatus = "enrolled"
	StatusInProgress EnrollmentStatus = "in_progress"
	StatusCompleted  EnrollmentStatus = "completed"
	StatusDropped    EnrollmentStatus = "dropped"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case StatusEnrolled, StatusInProgress, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// CanTransitionTo enrolled -> in_progress -> completed，任意未退课状态可转为 dropped
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	switch next {
	case StatusInProgress:
		return s == StatusEnrolled
	case StatusCompleted:
		return s == StatusInProgress
	case StatusDropped:
		return s != StatusDropped
	}
	return false
}

// Enrollment 员工选课记录，(worker, course) 唯一
type Enrollment struct {
	BaseModel
	WorkerID           uint             `gorm:"uniqueIndex:idx_worker_course;not null" json:"workerId"`
	Worker             *Worker          `gorm:"constraint:OnDelete:CASCADE" json:"worker,omitempty"`
	CourseID           uint             `gorm:"uniqueIndex:idx_worker_course;not null;index" json:"courseId"`
	Course             *Course          `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	EnrolledDate       time.Time        `json:"enrolledDate"`
	CompletedDate      *time.Time       `json:"completedDate"`
	Status             EnrollmentStatus `gorm:"size:20;default:'enrolled';index" json:"status"`
	ProgressPercentage int              `gorm:"default:0" json:"progressPercentage"`
	CertificateIssued  bool             `gorm:"default:false" json:"certificateIssued"`
	CertificateFileURL string           `gorm:"size:500" json:"certificateFileUrl"`
	Rating             *int             `json:"rating"`
	Review             string           `gorm:"type:text" json:"review"`
	ModuleProgress     []CourseProgress `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE" json:"moduleProgress,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CourseProgress 章节学习进度，(enrollment, module) 唯一
type CourseProgress struct {
	BaseModel
	EnrollmentID     uint          `gorm:"uniqueIndex:idx_enrollment_module;not null" json:"enrollmentId"`
	Enrollment       *Enrollment   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ModuleID         uint          `gorm:"uniqueIndex:idx_enrollment_module;not null" json:"moduleId"`
	Module           *CourseModule `gorm:"constraint:OnDelete:CASCADE" json:"module,omitempty"`
	Completed        bool          `gorm:"default:false" json:"completed"`
	CompletedDate    *time.Time    `json:"completedDate"`
	TimeSpentMinutes int           `gorm:"default:0" json:"timeSpentMinutes"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}
