package repository

import (
	"errors"
	"testing"
	"time"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func enroll(t *testing.T, repo *EnrollmentRepository, worker *model.Worker, course *model.Course) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{
		BaseModel:    model.BaseModel{IsActive: true},
		WorkerID:     worker.ID,
		CourseID:     course.ID,
		EnrolledDate: time.Now(),
		Status:       model.StatusEnrolled,
	}
	require.NoError(t, repo.Create(enrollment))
	return enrollment
}

func TestEnrollmentUniquePerWorkerAndCourse(t *testing.T) {
	db := testdb.New(t)
	repo := NewEnrollmentRepository(db)
	user := testdb.CreateUser(t, db, "xavier", model.WorkerRole)
	worker := testdb.CreateWorker(t, db, user, "EMP10001", "Engineering")
	course := testdb.CreateCourse(t, db, "Course", 10, nil)

	enroll(t, repo, worker, course)
	err := repo.Create(&model.Enrollment{
		BaseModel:    model.BaseModel{IsActive: true},
		WorkerID:     worker.ID,
		CourseID:     course.ID,
		EnrolledDate: time.Now(),
		Status:       model.StatusEnrolled,
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestCountActiveByCourses(t *testing.T) {
	db := testdb.New(t)
	repo := NewEnrollmentRepository(db)
	a := testdb.CreateCourse(t, db, "A", 10, nil)
	b := testdb.CreateCourse(t, db, "B", 10, nil)
	empty := testdb.CreateCourse(t, db, "C", 10, nil)

	for i, id := range []string{"EMP1", "EMP2", "EMP3"} {
		user := testdb.CreateUser(t, db, id, model.WorkerRole)
		worker := testdb.CreateWorker(t, db, user, id, "Sales")
		e := enroll(t, repo, worker, a)
		if i == 2 {
			testdb.Deactivate(t, db, e)
		}
		if i == 0 {
			enroll(t, repo, worker, b)
		}
	}

	counts, err := repo.CountActiveByCourses([]uint{a.ID, b.ID, empty.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[a.ID])
	assert.Equal(t, int64(1), counts[b.ID])
	assert.Equal(t, int64(0), counts[empty.ID])

	single, err := repo.CountActive(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), single)

	counts, err = repo.CountActiveByCourses(nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestWorkerSkillUpsertAndOrdering(t *testing.T) {
	db := testdb.New(t)
	repo := NewWorkerRepository(db)
	user := testdb.CreateUser(t, db, "yara", model.WorkerRole)
	worker := testdb.CreateWorker(t, db, user, "EMP20002", "Design")
	category := testdb.CreateCategory(t, db, "Design")
	figma := testdb.CreateSkill(t, db, category, "Figma", model.Beginner)
	sketch := testdb.CreateSkill(t, db, category, "Sketch", model.Beginner)

	upsert := func(skill *model.Skill, level model.DifficultyLevel) {
		require.NoError(t, repo.UpsertSkill(&model.WorkerSkill{
			BaseModel:        model.BaseModel{IsActive: true},
			WorkerID:         worker.ID,
			SkillID:          skill.ID,
			ProficiencyLevel: level,
		}))
	}
	upsert(figma, model.Beginner)
	upsert(sketch, model.Intermediate)
	upsert(figma, model.Expert)

	skills, err := repo.FindSkills(worker.ID)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Figma", skills[0].Skill.Name)
	assert.Equal(t, model.Expert, skills[0].ProficiencyLevel)

	affected, err := repo.DeleteSkill(worker.ID, sketch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestNextModuleOrder(t *testing.T) {
	db := testdb.New(t)
	repo := NewCourseRepository(db)
	course := testdb.CreateCourse(t, db, "Ordered", 10, nil)

	next, err := repo.NextModuleOrder(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	testdb.CreateModule(t, db, course, 3)
	next, err = repo.NextModuleOrder(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestDeleteCourseCascades(t *testing.T) {
	db := testdb.New(t)
	courseRepo := NewCourseRepository(db)
	enrollmentRepo := NewEnrollmentRepository(db)
	category := testdb.CreateCategory(t, db, "Technology")
	skill := testdb.CreateSkill(t, db, category, "Go", model.Beginner)
	course := testdb.CreateCourse(t, db, "Doomed", 10, nil, *skill)
	module := testdb.CreateModule(t, db, course, 1)
	user := testdb.CreateUser(t, db, "zoe", model.WorkerRole)
	worker := testdb.CreateWorker(t, db, user, "EMP30003", "HR")
	enrollment := enroll(t, enrollmentRepo, worker, course)
	require.NoError(t, enrollmentRepo.SaveProgress(&model.CourseProgress{
		BaseModel:        model.BaseModel{IsActive: true},
		EnrollmentID:     enrollment.ID,
		ModuleID:         module.ID,
		Completed:        true,
		TimeSpentMinutes: 10,
	}))

	require.NoError(t, courseRepo.Delete(course.ID))

	for _, value := range []interface{}{&model.CourseModule{}, &model.Enrollment{}, &model.CourseProgress{}} {
		var n int64
		require.NoError(t, db.Model(value).Count(&n).Error)
		assert.Zero(t, n)
	}
	_, err := NewSkillRepository(db).FindByID(skill.ID)
	assert.NoError(t, err)
}

func TestDeleteUserCascadesToWorkerData(t *testing.T) {
	db := testdb.New(t)
	workerRepo := NewWorkerRepository(db)
	enrollmentRepo := NewEnrollmentRepository(db)
	category := testdb.CreateCategory(t, db, "Technology")
	skill := testdb.CreateSkill(t, db, category, "Go", model.Beginner)
	course := testdb.CreateCourse(t, db, "Kept", 10, nil, *skill)
	module := testdb.CreateModule(t, db, course, 1)
	user := testdb.CreateUser(t, db, "leaver", model.WorkerRole)
	worker := testdb.CreateWorker(t, db, user, "EMP40004", "Sales")

	require.NoError(t, workerRepo.UpsertSkill(&model.WorkerSkill{
		BaseModel:        model.BaseModel{IsActive: true},
		WorkerID:         worker.ID,
		SkillID:          skill.ID,
		ProficiencyLevel: model.Advanced,
	}))
	enrollment := enroll(t, enrollmentRepo, worker, course)
	require.NoError(t, enrollmentRepo.SaveProgress(&model.CourseProgress{
		BaseModel:    model.BaseModel{IsActive: true},
		EnrollmentID: enrollment.ID,
		ModuleID:     module.ID,
		Completed:    true,
	}))

	require.NoError(t, db.Delete(&model.User{}, user.ID).Error)

	for _, value := range []interface{}{&model.Worker{}, &model.WorkerSkill{}, &model.Enrollment{}, &model.CourseProgress{}} {
		var n int64
		require.NoError(t, db.Model(value).Count(&n).Error)
		assert.Zero(t, n)
	}
	for _, value := range []interface{}{&model.Course{}, &model.CourseModule{}, &model.Skill{}} {
		var n int64
		require.NoError(t, db.Model(value).Count(&n).Error)
		assert.EqualValues(t, 1, n)
	}
}

func TestDeleteWorkerCascades(t *testing.T) {
	db := testdb.New(t)
	workerRepo := NewWorkerRepository(db)
	category := testdb.CreateCategory(t, db, "Business")
	skill := testdb.CreateSkill(t, db, category, "Negotiation", model.Beginner)
	user := testdb.CreateUser(t, db, "mover", model.WorkerRole)
	worker := testdb.CreateWorker(t, db, user, "EMP50005", "Sales")
	require.NoError(t, workerRepo.UpsertSkill(&model.WorkerSkill{
		BaseModel: model.BaseModel{IsActive: true},
		WorkerID:  worker.ID,
		SkillID:   skill.ID,
	}))

	require.NoError(t, db.Delete(&model.Worker{}, worker.ID).Error)

	var n int64
	require.NoError(t, db.Model(&model.WorkerSkill{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestForeignKeysCascadeOnDelete(t *testing.T) {
	db := testdb.New(t)

	type foreignKey struct {
		Table    string `gorm:"column:table"`
		From     string `gorm:"column:from"`
		OnDelete string `gorm:"column:on_delete"`
	}
	cases := map[string]string{
		"course_modules":  "course_id",
		"course_progress": "enrollment_id",
		"worker_skills":   "worker_id",
		"skills":          "category_id",
	}
	for table, column := range cases {
		var keys []foreignKey
		require.NoError(t, db.Raw(`SELECT "table", "from", on_delete FROM pragma_foreign_key_list(?)`, table).Scan(&keys).Error)

		found := false
		for _, k := range keys {
			if k.From != column {
				continue
			}
			found = true
			assert.Equal(t, "CASCADE", k.OnDelete, "%s.%s -> %s", table, k.From, k.Table)
		}
		assert.True(t, found, "no foreign key on %s.%s", table, column)
	}
}
