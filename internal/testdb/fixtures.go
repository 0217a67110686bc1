package testdb

import (
	"fmt"
	"testing"
	"time"

	"skilldev_backend/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		BaseModel: model.BaseModel{IsActive: true},
		Username:  username,
		FirstName: username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  "not-a-real-hash",
		Role:      role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateWorker(t *testing.T, db *gorm.DB, user *model.User, employeeID, department string) *model.Worker {
	t.Helper()
	worker := &model.Worker{
		BaseModel:     model.BaseModel{IsActive: true},
		UserID:        user.ID,
		EmployeeID:    employeeID,
		Department:    department,
		Position:      model.DefaultWorkerPosition,
		DateOfJoining: time.Now(),
	}
	require.NoError(t, db.Create(worker).Error)
	return worker
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *model.SkillCategory {
	t.Helper()
	category := &model.SkillCategory{
		BaseModel:   model.BaseModel{IsActive: true},
		Name:        name,
		Description: name + " skills",
		Icon:        "fas fa-tag",
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateSkill(t *testing.T, db *gorm.DB, category *model.SkillCategory, name string, level model.DifficultyLevel, prerequisites ...*model.Skill) *model.Skill {
	t.Helper()
	skill := &model.Skill{
		BaseModel:              model.BaseModel{IsActive: true},
		Name:                   name,
		Description:            "Learn " + name,
		CategoryID:             category.ID,
		DifficultyLevel:        level,
		EstimatedDurationHours: 40,
		Prerequisites:          prerequisites,
	}
	require.NoError(t, db.Create(skill).Error)
	return skill
}

func CreateCourse(t *testing.T, db *gorm.DB, title string, capacity int, instructor *model.User, skills ...model.Skill) *model.Course {
	t.Helper()
	course := &model.Course{
		BaseModel:       model.BaseModel{IsActive: true},
		Title:           title,
		Description:     "About " + title,
		DurationHours:   10,
		Capacity:        capacity,
		DifficultyLevel: model.Beginner,
		Skills:          skills,
	}
	if instructor != nil {
		course.InstructorID = &instructor.ID
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func CreateModule(t *testing.T, db *gorm.DB, course *model.Course, order int) *model.CourseModule {
	t.Helper()
	module := &model.CourseModule{
		BaseModel:       model.BaseModel{IsActive: true},
		CourseID:        course.ID,
		Title:           fmt.Sprintf("Module %d", order),
		Order:           order,
		DurationMinutes: 60,
	}
	require.NoError(t, db.Create(module).Error)
	return module
}

// Deactivate 将记录置为停用
func Deactivate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Model(value).Update("is_active", false).Error)
}
