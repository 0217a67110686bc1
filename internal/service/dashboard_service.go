package service

import (
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
)

const (
	dashboardRecentEnrollments = 5
	overviewSkills             = 6
	overviewCourses            = 12
)

type DashboardService struct {
	WorkerService  *WorkerService
	EnrollmentRepo *repository.EnrollmentRepository
	SkillRepo      *repository.SkillRepository
	CourseRepo     *repository.CourseRepository
	WorkerRepo     *repository.WorkerRepository
	Cache          *CatalogCache
}

func NewDashboardService(
	workerService *WorkerService,
	enrollmentRepo *repository.EnrollmentRepository,
	skillRepo *repository.SkillRepository,
	courseRepo *repository.CourseRepository,
	workerRepo *repository.WorkerRepository,
	cache *CatalogCache,
) *DashboardService {
	return &DashboardService{
		WorkerService:  workerService,
		EnrollmentRepo: enrollmentRepo,
		SkillRepo:      skillRepo,
		CourseRepo:     courseRepo,
		WorkerRepo:     workerRepo,
		Cache:          cache,
	}
}

// Dashboard 员工个人首页
type Dashboard struct {
	Worker            *model.Worker       `json:"worker"`
	WorkerCreated     bool                `json:"workerCreated"`
	RecentEnrollments []model.Enrollment  `json:"recentEnrollments"`
	CompletedCourses  int64               `json:"completedCourses"`
	Skills            []model.WorkerSkill `json:"skills"`
}

func (s *DashboardService) GetDashboard(userID uint) (*Dashboard, error) {
	worker, created, err := s.WorkerService.GetOrCreateWorker(userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListByWorker(worker.ID, dashboardRecentEnrollments)
	if err != nil {
		return nil, err
	}
	completed, err := s.EnrollmentRepo.CountByWorkerAndStatus(worker.ID, model.StatusCompleted)
	if err != nil {
		return nil, err
	}
	skills, err := s.WorkerRepo.FindSkills(worker.ID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Worker:            worker,
		WorkerCreated:     created,
		RecentEnrollments: enrollments,
		CompletedCourses:  completed,
		Skills:            skills,
	}, nil
}

// Overview 公开首页
type Overview struct {
	Skills      []model.Skill  `json:"skills"`
	Courses     []model.Course `json:"courses"`
	WorkerCount int64          `json:"workerCount"`
	SkillCount  int            `json:"skillCount"`
	CourseCount int            `json:"courseCount"`
}

func (s *DashboardService) GetOverview() (*Overview, error) {
	var overview Overview
	if s.Cache.Load(cacheKeyOverview, &overview) {
		return &overview, nil
	}

	skills, err := s.SkillRepo.FindFirst(overviewSkills)
	if err != nil {
		return nil, err
	}
	courses, err := s.CourseRepo.FindLatest(overviewCourses)
	if err != nil {
		return nil, err
	}
	workers, err := s.WorkerRepo.CountActive()
	if err != nil {
		return nil, err
	}

	overview = Overview{
		Skills:      skills,
		Courses:     courses,
		WorkerCount: workers,
		SkillCount:  len(skills),
		CourseCount: len(courses),
	}
	s.Cache.Store(cacheKeyOverview, overview)
	return &overview, nil
}
