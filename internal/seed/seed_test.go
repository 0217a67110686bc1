package seed

import (
	"testing"
	"time"

	"skilldev_backend/internal/config"
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	auth := service.NewAuthService(repository.NewUserRepository(db), &config.JWTConfig{Secret: "test", ExpireTime: time.Hour})

	first, err := NewSeeder(db, auth, 1).Run()
	require.NoError(t, err)
	assert.Equal(t, len(categories), first.Categories)
	assert.Equal(t, len(skills), first.Skills)
	assert.Equal(t, len(instructors), first.Instructors)
	assert.Equal(t, len(courses), first.Courses)
	assert.Equal(t, len(workers), first.Workers)

	second, err := NewSeeder(db, auth, 2).Run()
	require.NoError(t, err)
	assert.Equal(t, Result{}, *second)

	assert.Equal(t, int64(len(skills)), countRows(t, db, &model.Skill{}))
	assert.Equal(t, int64(len(courses)), countRows(t, db, &model.Course{}))
	assert.Equal(t, int64(len(workers)), countRows(t, db, &model.Worker{}))
	assert.Equal(t, int64(len(instructors)+len(workers)), countRows(t, db, &model.User{}))

	var edges int64
	require.NoError(t, db.Table("skill_prerequisites").Count(&edges).Error)
	assert.Equal(t, int64(6), edges)
}

func TestSeededData(t *testing.T) {
	db := testdb.New(t)
	auth := service.NewAuthService(repository.NewUserRepository(db), &config.JWTConfig{Secret: "test", ExpireTime: time.Hour})
	_, err := NewSeeder(db, auth, 42).Run()
	require.NoError(t, err)

	skillRepo := repository.NewSkillRepository(db)
	ml, err := skillRepo.FindByName("Machine Learning")
	require.NoError(t, err)
	detail, err := skillRepo.FindByID(ml.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Prerequisites, 2)

	courseRepo := repository.NewCourseRepository(db)
	python, err := courseRepo.FindByTitle("Complete Python Programming Masterclass")
	require.NoError(t, err)
	full, err := courseRepo.FindByID(python.ID)
	require.NoError(t, err)
	assert.Len(t, full.Skills, 3)
	require.NotNil(t, full.Instructor)
	assert.Equal(t, model.Instructor, full.Instructor.Role)
	modules, err := courseRepo.FindModules(python.ID)
	require.NoError(t, err)
	assert.Len(t, modules, 4)
	assert.Equal(t, 1, modules[0].Order)

	workerRepo := repository.NewWorkerRepository(db)
	userRepo := repository.NewUserRepository(db)
	user, err := userRepo.FindByUsername("johnsmith")
	require.NoError(t, err)
	worker, err := workerRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", worker.EmployeeID)
	assert.Contains(t, departments, worker.Department)
	assert.Contains(t, positions[worker.Department], worker.Position)
	workerSkills, err := workerRepo.FindSkills(worker.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(workerSkills), 2)
	assert.LessOrEqual(t, len(workerSkills), 4)

	_, err = auth.Login(service.LoginRequest{Login: "jane_smith", Password: defaultPassword})
	assert.NoError(t, err)
}
