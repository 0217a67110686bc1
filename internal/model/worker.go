package model

import (
	"time"
)

const (
	DefaultWorkerDepartment = "General"
	DefaultWorkerPosition   = "Employee"
)

// Worker 员工档案，与 User 一一对应
type Worker struct {
	BaseModel
	UserID            uint          `gorm:"uniqueIndex;not null" json:"userId"`
	User              *User         `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	EmployeeID        string        `gorm:"size:50;uniqueIndex;not null" json:"employeeId"`
	Department        string        `gorm:"size:100;index" json:"department"`
	Position          string        `gorm:"size:100" json:"position"`
	Phone             string        `gorm:"size:20" json:"phone"`
	ProfilePictureURL string        `gorm:"size:500" json:"profilePictureUrl"`
	Bio               string        `gorm:"type:text" json:"bio"`
	DateOfJoining     time.Time     `gorm:"type:date" json:"dateOfJoining"`
	WorkerSkills      []WorkerSkill `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"workerSkills,omitempty"`
}

func (Worker) TableName() string {
	return "workers"
}

// WorkerSkill 员工-技能关联，附带熟练度
type WorkerSkill struct {
	BaseModel
	WorkerID          uint            `gorm:"uniqueIndex:idx_worker_skill;not null" json:"workerId"`
	Worker            *Worker         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SkillID           uint            `gorm:"uniqueIndex:idx_worker_skill;not null" json:"skillId"`
	Skill             *Skill          `gorm:"constraint:OnDelete:CASCADE" json:"skill,omitempty"`
	ProficiencyLevel  DifficultyLevel `gorm:"size:20;default:'beginner'" json:"proficiencyLevel"`
	CertificationDate *time.Time      `gorm:"type:date" json:"certificationDate"`
	Notes             string          `gorm:"type:text" json:"notes"`
}

func (WorkerSkill) TableName() string {
	return "worker_skills"
}
