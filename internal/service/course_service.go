package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const relatedCoursesLimit = 4

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	SkillRepo      *repository.SkillRepository
	WorkerRepo     *repository.WorkerRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
	Cache          *CatalogCache

	// Probe 读取视频时长
	Probe util.VideoProbe
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	skillRepo *repository.SkillRepository,
	workerRepo *repository.WorkerRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storage *StorageService,
	cache *CatalogCache,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		SkillRepo:      skillRepo,
		WorkerRepo:     workerRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
		Cache:          cache,
		Probe:          util.GetVideoInfo,
	}
}

// CourseSummary 课程及名额占用情况
type CourseSummary struct {
	model.Course
	EnrolledCount  int64 `json:"enrolledCount"`
	AvailableSpots int64 `json:"availableSpots"`
	IsFull         bool  `json:"isFull"`
}

func newCourseSummary(course model.Course, enrolled int64) CourseSummary {
	available := int64(course.Capacity) - enrolled
	if available < 0 {
		available = 0
	}
	return CourseSummary{
		Course:         course,
		EnrolledCount:  enrolled,
		AvailableSpots: available,
		IsFull:         enrolled >= int64(course.Capacity),
	}
}

// ListCourses skill 为 "none" 时视为未筛选
func (s *CourseService) ListCourses(filter repository.CourseFilter) ([]CourseSummary, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if strings.EqualFold(strings.TrimSpace(filter.Skill), "none") {
		filter.Skill = ""
	}

	courses, err := s.CourseRepo.List(filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	counts, err := s.EnrollmentRepo.CountActiveByCourses(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, newCourseSummary(c, counts[c.ID]))
	}
	return summaries, nil
}

// CourseDetail 课程详情
type CourseDetail struct {
	CourseSummary
	Modules          []model.CourseModule `json:"modules"`
	Related          []model.Course       `json:"related"`
	Enrollment       *model.Enrollment    `json:"enrollment"`
	IsEnrolled       bool                 `json:"isEnrolled"`
	ModuleCount      int                  `json:"moduleCount"`
	TotalModuleHours float64              `json:"totalModuleHours"`
}

// GetCourseDetail userID 为 0 表示匿名访问；查询调用者选课状态时不自动建档
func (s *CourseService) GetCourseDetail(id, userID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindActiveByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	modules, err := s.CourseRepo.FindModules(course.ID)
	if err != nil {
		return nil, err
	}
	related, err := s.CourseRepo.FindRelated(course, relatedCoursesLimit)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.EnrollmentRepo.CountActive(course.ID)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{
		CourseSummary: newCourseSummary(*course, enrolled),
		Modules:       modules,
		Related:       related,
		ModuleCount:   len(modules),
	}
	minutes := 0
	for _, m := range modules {
		minutes += m.DurationMinutes
	}
	detail.TotalModuleHours = float64(minutes) / 60

	if userID == 0 {
		return detail, nil
	}
	worker, err := s.WorkerRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return detail, nil
	} else if err != nil {
		return nil, err
	}
	enrollment, err := s.EnrollmentRepo.FindActiveByWorkerAndCourse(worker.ID, course.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return detail, nil
	} else if err != nil {
		return nil, err
	}
	detail.Enrollment = enrollment
	detail.IsEnrolled = true
	return detail, nil
}

// CourseRequest 创建或更新课程
// swagger:model CourseRequest
type CourseRequest struct {
	Title           string                `json:"title" binding:"required,max=200"`
	Description     string                `json:"description"`
	ImageURL        string                `json:"imageUrl"`
	DurationHours   int                   `json:"durationHours" binding:"required,min=1"`
	Capacity        int                   `json:"capacity"`
	Price           float64               `json:"price" binding:"min=0"`
	DifficultyLevel model.DifficultyLevel `json:"difficultyLevel"`
	StartDate       *time.Time            `json:"startDate"`
	EndDate         *time.Time            `json:"endDate"`
	SkillIDs        []uint                `json:"skillIds"`
}

func (r *CourseRequest) normalize() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Capacity == 0 {
		r.Capacity = model.DefaultCourseCapacity
	}
	if r.Capacity < 0 {
		return util.ErrInvalidCapacity
	}
	if r.DifficultyLevel == "" {
		r.DifficultyLevel = model.Beginner
	}
	if !r.DifficultyLevel.Valid() {
		return util.ErrInvalidDifficulty
	}
	return nil
}

func (s *CourseService) loadSkills(ids []uint) ([]model.Skill, error) {
	skills, err := s.SkillRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(skills) != len(uniqueIDs(ids)) {
		return nil, util.ErrSkillNotFound
	}
	return skills, nil
}

func (s *CourseService) CreateCourse(actor Actor, req CourseRequest) (*model.Course, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	skills, err := s.loadSkills(req.SkillIDs)
	if err != nil {
		return nil, err
	}

	instructorID := actor.UserID
	course := &model.Course{
		BaseModel:       model.BaseModel{IsActive: true},
		Title:           req.Title,
		Description:     req.Description,
		InstructorID:    &instructorID,
		ImageURL:        req.ImageURL,
		DurationHours:   req.DurationHours,
		Capacity:        req.Capacity,
		Price:           req.Price,
		DifficultyLevel: req.DifficultyLevel,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Skills:          skills,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(cacheKeyOverview)
	logger.Log.Info("创建课程", zap.Uint("course_id", course.ID), zap.Uint("instructor_id", actor.UserID))
	return course, nil
}

// loadManaged 讲师只能管理自己的课程，管理员不受限
func (s *CourseService) loadManaged(actor Actor, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !canManageCourse(actor, course) {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// UpdateCourse 容量下调不影响已有选课
func (s *CourseService) UpdateCourse(actor Actor, id uint, req CourseRequest) (*model.Course, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	course, err := s.loadManaged(actor, id)
	if err != nil {
		return nil, err
	}
	skills, err := s.loadSkills(req.SkillIDs)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.ImageURL = req.ImageURL
	course.DurationHours = req.DurationHours
	course.Capacity = req.Capacity
	course.Price = req.Price
	course.DifficultyLevel = req.DifficultyLevel
	course.StartDate = req.StartDate
	course.EndDate = req.EndDate

	if err := s.CourseRepo.Update(course, skills); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(cacheKeyOverview)
	return course, nil
}

// DeleteCourse 章节、选课记录与学习进度随课程一并删除
func (s *CourseService) DeleteCourse(actor Actor, id uint) error {
	course, err := s.loadManaged(actor, id)
	if err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(course.ID); err != nil {
		return err
	}
	s.Cache.Invalidate(cacheKeyOverview)
	logger.Log.Info("删除课程", zap.Uint("course_id", course.ID), zap.Uint("operator", actor.UserID))
	return nil
}

// ModuleRequest 新增课程章节，Order 为 0 时追加到末尾
// swagger:model ModuleRequest
type ModuleRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description"`
	Order           int    `json:"order" binding:"min=0"`
	DurationMinutes int    `json:"durationMinutes" binding:"min=0"`
	VideoURL        string `json:"videoUrl"`
	Content         string `json:"content"`
}

func (s *CourseService) AddModule(actor Actor, courseID uint, req ModuleRequest) (*model.CourseModule, error) {
	course, err := s.loadManaged(actor, courseID)
	if err != nil {
		return nil, err
	}

	if req.Order == 0 {
		next, err := s.CourseRepo.NextModuleOrder(course.ID)
		if err != nil {
			return nil, err
		}
		req.Order = next
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 60
	}

	module := &model.CourseModule{
		BaseModel:       model.BaseModel{IsActive: true},
		CourseID:        course.ID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Order:           req.Order,
		DurationMinutes: req.DurationMinutes,
		VideoURL:        req.VideoURL,
		Content:         req.Content,
	}
	if err := s.CourseRepo.CreateModule(module); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateModuleOrder
		}
		return nil, err
	}
	return module, nil
}

// UploadModuleVideo 上传章节视频，用 ffprobe 读取的时长覆盖章节时长
func (s *CourseService) UploadModuleVideo(ctx context.Context, actor Actor, moduleID uint, header *multipart.FileHeader) (*model.CourseModule, error) {
	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if _, err := s.loadManaged(actor, module.CourseID); err != nil {
		return nil, err
	}
	if !util.HasAllowedExtension(header.Filename, util.AllowedVideoExtensions) {
		return nil, fmt.Errorf("%w: unsupported video format", util.ErrInvalidUpload)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}
	if contentType != util.MimeOctetStream && !util.IsVideo(contentType) {
		return nil, fmt.Errorf("%w: content type %s", util.ErrInvalidUpload, contentType)
	}

	tempPath, err := saveTemp(header)
	if err != nil {
		return nil, fmt.Errorf("save video: %w", err)
	}
	defer os.Remove(tempPath)

	if info, err := s.Probe(tempPath); err != nil {
		logger.Log.Warn("读取视频时长失败，保留原章节时长", zap.Uint("module_id", module.ID), zap.Error(err))
	} else {
		module.DurationMinutes = info.DurationMinutes()
	}

	objectName := ObjectName(fmt.Sprintf("videos/course-%d", module.CourseID), header.Filename)
	url, err := s.Storage.UploadFile(ctx, objectName, tempPath, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	module.VideoURL = url
	if err := s.CourseRepo.UpdateModule(module); err != nil {
		if delErr := s.Storage.Delete(ctx, objectName); delErr != nil {
			logger.Log.Warn("清理已上传视频失败", zap.String("object", objectName), zap.Error(delErr))
		}
		return nil, err
	}
	return module, nil
}

func saveTemp(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "module-video-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
