package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/logger"
	"skilldev_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollmentService 选课引擎：名额与唯一性校验、状态流转、学习进度
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	WorkerService  *WorkerService
	Storage        *StorageService

	now func() time.Time
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	workerService *WorkerService,
	storage *StorageService,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		WorkerService:  workerService,
		Storage:        storage,
		now:            time.Now,
	}
}

// EnrollResult 选课结果；WorkerCreated 为 true 时 Worker.EmployeeID 需要提示给用户
type EnrollResult struct {
	Enrollment    *model.Enrollment `json:"enrollment"`
	Worker        *model.Worker     `json:"worker"`
	WorkerCreated bool              `json:"workerCreated"`
}

// Actor 发起操作的身份
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.Admin
}

// Enroll 校验顺序：课程启用 -> 未重复选课 -> 名额未满
// 名额检查与写入之间不加锁，临界名额下的并发请求可能超额一人
func (s *EnrollmentService) Enroll(userID, courseID uint) (*EnrollResult, error) {
	course, err := s.CourseRepo.FindActiveByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.EnrollmentAttempts.WithLabelValues(monitoring.ResultNotFound).Inc()
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	worker, created, err := s.WorkerService.GetOrCreateWorker(userID)
	if err != nil {
		return nil, err
	}
	result := &EnrollResult{Worker: worker, WorkerCreated: created}

	existing, err := s.EnrollmentRepo.FindByWorkerAndCourse(worker.ID, course.ID)
	reactivate := false
	switch {
	case err == nil && existing.IsActive:
		monitoring.EnrollmentAttempts.WithLabelValues(monitoring.ResultAlreadyEnrolled).Inc()
		return result, util.ErrAlreadyEnrolled
	case err == nil:
		reactivate = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.CountActive(course.ID)
	if err != nil {
		return nil, err
	}
	if enrolled >= int64(course.Capacity) {
		monitoring.EnrollmentAttempts.WithLabelValues(monitoring.ResultCourseFull).Inc()
		return result, util.ErrCourseFull
	}

	now := s.now()
	if reactivate {
		// (worker, course) 在库中唯一，退课后再次选课复用原记录
		existing.IsActive = true
		existing.Status = model.StatusEnrolled
		existing.ProgressPercentage = 0
		existing.EnrolledDate = now
		existing.CompletedDate = nil
		existing.CertificateIssued = false
		existing.CertificateFileURL = ""
		if err := s.EnrollmentRepo.Update(existing); err != nil {
			return nil, err
		}
		result.Enrollment = existing
	} else {
		enrollment := &model.Enrollment{
			BaseModel:    model.BaseModel{IsActive: true},
			WorkerID:     worker.ID,
			CourseID:     course.ID,
			EnrolledDate: now,
			Status:       model.StatusEnrolled,
		}
		if err := s.EnrollmentRepo.Create(enrollment); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				monitoring.EnrollmentAttempts.WithLabelValues(monitoring.ResultAlreadyEnrolled).Inc()
				return result, util.ErrAlreadyEnrolled
			}
			return nil, err
		}
		result.Enrollment = enrollment
	}

	monitoring.EnrollmentAttempts.WithLabelValues(monitoring.ResultAdmitted).Inc()
	logger.Log.Info("选课成功",
		zap.Uint("worker_id", worker.ID),
		zap.Uint("course_id", course.ID),
		zap.Int64("enrolled_before", enrolled),
		zap.Int("capacity", course.Capacity),
	)
	result.Enrollment.Course = course
	return result, nil
}

// GetCourseEnrollment 课程详情页展示当前用户的选课状态，不触发自动建档
func (s *EnrollmentService) GetCourseEnrollment(userID, courseID uint) (*model.Enrollment, error) {
	worker, err := s.WorkerService.WorkerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindActiveByWorkerAndCourse(worker.ID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return enrollment, nil
}

// MyCourses 当前用户的有效选课，最新在前
type MyCourses struct {
	Enrollments   []model.Enrollment `json:"enrollments"`
	Worker        *model.Worker      `json:"worker"`
	WorkerCreated bool               `json:"workerCreated"`
}

func (s *EnrollmentService) ListMyEnrollments(userID uint) (*MyCourses, error) {
	worker, created, err := s.WorkerService.GetOrCreateWorker(userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.EnrollmentRepo.ListByWorker(worker.ID, 0)
	if err != nil {
		return nil, err
	}
	return &MyCourses{Enrollments: enrollments, Worker: worker, WorkerCreated: created}, nil
}

// ListCourseEnrollments 课程讲师或管理员查看选课名单
func (s *EnrollmentService) ListCourseEnrollments(actor Actor, courseID uint) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !canManageCourse(actor, course) {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.ListByCourse(course.ID)
}

// loadOwned 加载属于当前用户的选课记录，不属于时按不存在处理
func (s *EnrollmentService) loadOwned(userID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.load(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Worker == nil || enrollment.Worker.UserID != userID {
		return nil, util.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *EnrollmentService) load(enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}

// Drop 员工退课，释放名额
func (s *EnrollmentService) Drop(userID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.loadOwned(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(enrollment, model.StatusDropped); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Start 员工开始学习 enrolled -> in_progress
func (s *EnrollmentService) Start(userID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.loadOwned(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(enrollment, model.StatusInProgress); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpdateStatus 课程讲师或管理员推进状态
func (s *EnrollmentService) UpdateStatus(actor Actor, enrollmentID uint, status model.EnrollmentStatus) (*model.Enrollment, error) {
	if !status.Valid() {
		return nil, util.ErrInvalidTransition
	}
	enrollment, err := s.load(enrollmentID)
	if err != nil {
		return nil, err
	}
	if !canManageCourse(actor, enrollment.Course) {
		return nil, util.ErrPermissionDenied
	}
	if err := s.transition(enrollment, status); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// transition 维护不变量：completed_date 当且仅当状态为 completed 时有值
func (s *EnrollmentService) transition(enrollment *model.Enrollment, next model.EnrollmentStatus) error {
	if !enrollment.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, enrollment.Status, next)
	}

	enrollment.Status = next
	switch next {
	case model.StatusCompleted:
		now := s.now()
		enrollment.CompletedDate = &now
	case model.StatusDropped:
		enrollment.CompletedDate = nil
		enrollment.IsActive = false
	default:
		enrollment.CompletedDate = nil
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return err
	}
	monitoring.EnrollmentTransitions.WithLabelValues(string(next)).Inc()
	return nil
}

// UpdateProgress 进度独立于状态，不会自动流转
func (s *EnrollmentService) UpdateProgress(userID, enrollmentID uint, percentage int) (*model.Enrollment, error) {
	if percentage < 0 || percentage > 100 {
		return nil, util.ErrInvalidProgress
	}
	enrollment, err := s.loadOwned(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !enrollment.IsActive {
		return nil, util.ErrEnrollmentNotFound
	}

	enrollment.ProgressPercentage = percentage
	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Rate 评分 1-5，附带评价
func (s *EnrollmentService) Rate(userID, enrollmentID uint, rating int, review string) (*model.Enrollment, error) {
	if rating < 1 || rating > 5 {
		return nil, util.ErrInvalidRating
	}
	enrollment, err := s.loadOwned(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !enrollment.IsActive {
		return nil, util.ErrEnrollmentNotFound
	}

	enrollment.Rating = &rating
	enrollment.Review = review
	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CertificateFile 证书附件，可选
type CertificateFile struct {
	Filename    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// IssueCertificate 仅已完成的选课可颁发证书
func (s *EnrollmentService) IssueCertificate(ctx context.Context, actor Actor, enrollmentID uint, file *CertificateFile) (*model.Enrollment, error) {
	enrollment, err := s.load(enrollmentID)
	if err != nil {
		return nil, err
	}
	if !canManageCourse(actor, enrollment.Course) {
		return nil, util.ErrPermissionDenied
	}
	if enrollment.Status != model.StatusCompleted {
		return nil, util.ErrCertificateNotAllowed
	}

	var objectName string
	if file != nil {
		objectName = ObjectName(fmt.Sprintf("certificates/%d", enrollment.ID), file.Filename)
		url, err := s.Storage.Upload(ctx, objectName, file.Reader, file.Size, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload certificate: %w", err)
		}
		enrollment.CertificateFileURL = url
	}

	enrollment.CertificateIssued = true
	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		if objectName != "" {
			if delErr := s.Storage.Delete(ctx, objectName); delErr != nil {
				logger.Log.Warn("清理已上传证书失败", zap.String("object", objectName), zap.Error(delErr))
			}
		}
		return nil, err
	}
	return enrollment, nil
}

// CompleteModule 标记章节完成并累加学习时长，不改变选课状态
func (s *EnrollmentService) CompleteModule(userID, enrollmentID, moduleID uint, minutes int) (*model.CourseProgress, error) {
	if minutes < 0 {
		minutes = 0
	}
	enrollment, err := s.loadOwned(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !enrollment.IsActive {
		return nil, util.ErrEnrollmentNotFound
	}

	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil || module.CourseID != enrollment.CourseID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	now := s.now()
	progress := &model.CourseProgress{
		BaseModel:        model.BaseModel{IsActive: true},
		EnrollmentID:     enrollment.ID,
		ModuleID:         module.ID,
		Completed:        true,
		CompletedDate:    &now,
		TimeSpentMinutes: minutes,
	}
	if err := s.EnrollmentRepo.SaveProgress(progress); err != nil {
		return nil, err
	}
	progress.Module = module
	return progress, nil
}

// ListModuleProgress 当前用户某次选课的章节进度
func (s *EnrollmentService) ListModuleProgress(userID, enrollmentID uint) ([]model.CourseProgress, error) {
	enrollment, err := s.loadOwned(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	return s.EnrollmentRepo.ListProgress(enrollment.ID)
}

func canManageCourse(actor Actor, course *model.Course) bool {
	if actor.IsAdmin() {
		return true
	}
	if course == nil || course.InstructorID == nil {
		return false
	}
	return actor.Role == model.Instructor && *course.InstructorID == actor.UserID
}
