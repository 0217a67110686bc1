package service

import (
	"testing"

	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/testdb"

	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	worker     *WorkerService
	enrollment *EnrollmentService
	course     *CourseService
	skill      *SkillService
	dashboard  *DashboardService
	storage    *StorageService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testdb.New(t)

	skillRepo := repository.NewSkillRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	storage := &StorageService{Provider: &LocalStorageProvider{Root: t.TempDir()}}
	cache := NewCatalogCache(nil, 0)

	workerService := NewWorkerService(workerRepo, skillRepo, enrollmentRepo)
	return &testServices{
		db:         db,
		worker:     workerService,
		enrollment: NewEnrollmentService(enrollmentRepo, courseRepo, workerService, storage),
		course:     NewCourseService(courseRepo, skillRepo, workerRepo, enrollmentRepo, storage, cache),
		skill:      NewSkillService(skillRepo, cache),
		dashboard:  NewDashboardService(workerService, enrollmentRepo, skillRepo, courseRepo, workerRepo, cache),
		storage:    storage,
	}
}
