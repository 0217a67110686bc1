package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/logger"
	"skilldev_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	employeeIDAttempts = 100
	employeeIDMin      = 10000
	employeeIDMax      = 99999
	recentEnrollments  = 5
)

// WorkerService 员工档案，包含首次访问时的自动建档
type WorkerService struct {
	WorkerRepo     *repository.WorkerRepository
	SkillRepo      *repository.SkillRepository
	EnrollmentRepo *repository.EnrollmentRepository

	// randomID 返回 [10000, 99999] 内的随机数，now 返回当前时间；测试中替换
	randomID func() int
	now      func() time.Time
}

func NewWorkerService(
	workerRepo *repository.WorkerRepository,
	skillRepo *repository.SkillRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *WorkerService {
	return &WorkerService{
		WorkerRepo:     workerRepo,
		SkillRepo:      skillRepo,
		EnrollmentRepo: enrollmentRepo,
		randomID: func() int {
			return employeeIDMin + rand.Intn(employeeIDMax-employeeIDMin+1)
		},
		now: time.Now,
	}
}

// GetOrCreateWorker 返回身份对应的员工档案，不存在时自动创建
// created 为 true 表示本次新建，调用方据此展示工号提示
func (s *WorkerService) GetOrCreateWorker(userID uint) (worker *model.Worker, created bool, err error) {
	worker, err = s.WorkerRepo.FindByUserID(userID)
	if err == nil {
		return worker, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	employeeID, fallback, err := s.generateEmployeeID()
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	worker = &model.Worker{
		BaseModel:     model.BaseModel{IsActive: true},
		UserID:        userID,
		EmployeeID:    employeeID,
		Department:    model.DefaultWorkerDepartment,
		Position:      model.DefaultWorkerPosition,
		DateOfJoining: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}

	if err := s.WorkerRepo.Create(worker); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		// 同一身份并发首次访问：另一请求已建档
		existing, findErr := s.WorkerRepo.FindByUserID(userID)
		if findErr == nil {
			return existing, false, nil
		}
		logger.Log.Error("员工工号冲突，自动建档失败",
			zap.Uint("user_id", userID),
			zap.String("employee_id", employeeID),
			zap.Bool("fallback", fallback),
		)
		return nil, false, fmt.Errorf("%w: %s", util.ErrEmployeeIDConflict, employeeID)
	}

	source := "random"
	if fallback {
		source = "timestamp"
	}
	monitoring.WorkersProvisioned.WithLabelValues(source).Inc()
	logger.Log.Info("自动创建员工档案", zap.Uint("user_id", userID), zap.String("employee_id", employeeID))

	return worker, true, nil
}

// generateEmployeeID 随机工号最多尝试 100 次，全部冲突时退回到时间戳（不保证唯一）
func (s *WorkerService) generateEmployeeID() (string, bool, error) {
	for i := 0; i < employeeIDAttempts; i++ {
		candidate := fmt.Sprintf("EMP%d", s.randomID())
		exists, err := s.WorkerRepo.ExistsEmployeeID(candidate)
		if err != nil {
			return "", false, err
		}
		if !exists {
			return candidate, false, nil
		}
	}

	logger.Log.Warn("随机工号重试耗尽，使用时间戳工号", zap.Int("attempts", employeeIDAttempts))
	return fmt.Sprintf("EMP%d", s.now().Unix()), true, nil
}

// WorkerDetail 员工详情页
type WorkerDetail struct {
	Worker      *model.Worker       `json:"worker"`
	FullName    string              `json:"fullName"`
	Email       string              `json:"email"`
	Skills      []model.WorkerSkill `json:"skills"`
	Enrollments []model.Enrollment  `json:"enrollments"`
}

// MyProfile 当前用户的档案页
type MyProfile struct {
	WorkerDetail
	Created bool `json:"created"`
}

func (s *WorkerService) ListWorkers(filter repository.WorkerFilter, page, limit int) ([]model.Worker, int64, error) {
	return s.WorkerRepo.List(filter, page, limit)
}

func (s *WorkerService) ListDepartments() ([]string, error) {
	return s.WorkerRepo.Departments()
}

func (s *WorkerService) GetWorkerDetail(id uint) (*WorkerDetail, error) {
	worker, err := s.WorkerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWorkerNotFound
		}
		return nil, err
	}
	return s.buildDetail(worker, recentEnrollments)
}

func (s *WorkerService) GetMyProfile(userID uint) (*MyProfile, error) {
	worker, created, err := s.GetOrCreateWorker(userID)
	if err != nil {
		return nil, err
	}
	detail, err := s.buildDetail(worker, 0)
	if err != nil {
		return nil, err
	}
	return &MyProfile{WorkerDetail: *detail, Created: created}, nil
}

func (s *WorkerService) buildDetail(worker *model.Worker, enrollmentLimit int) (*WorkerDetail, error) {
	skills, err := s.WorkerRepo.FindSkills(worker.ID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.EnrollmentRepo.ListByWorker(worker.ID, enrollmentLimit)
	if err != nil {
		return nil, err
	}

	detail := &WorkerDetail{
		Worker:      worker,
		Skills:      skills,
		Enrollments: enrollments,
	}
	if worker.User != nil {
		detail.FullName = worker.User.FullName()
		detail.Email = worker.User.Email
	}
	return detail, nil
}

// ProfileUpdateRequest 员工可自行修改的档案字段
// swagger:model ProfileUpdateRequest
type ProfileUpdateRequest struct {
	Department        *string `json:"department" binding:"omitempty,max=100"`
	Position          *string `json:"position" binding:"omitempty,max=100"`
	Phone             *string `json:"phone" binding:"omitempty,max=20"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profilePictureUrl" binding:"omitempty,url"`
}

func (s *WorkerService) UpdateMyProfile(userID uint, req ProfileUpdateRequest) (*model.Worker, error) {
	worker, _, err := s.GetOrCreateWorker(userID)
	if err != nil {
		return nil, err
	}

	if req.Department != nil {
		worker.Department = *req.Department
	}
	if req.Position != nil {
		worker.Position = *req.Position
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.Bio != nil {
		worker.Bio = *req.Bio
	}
	if req.ProfilePictureURL != nil {
		worker.ProfilePictureURL = *req.ProfilePictureURL
	}

	if err := s.WorkerRepo.Update(worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// WorkerSkillRequest 设置技能熟练度
// swagger:model WorkerSkillRequest
type WorkerSkillRequest struct {
	ProficiencyLevel  model.DifficultyLevel `json:"proficiencyLevel" binding:"required"`
	CertificationDate *time.Time            `json:"certificationDate"`
	Notes             string                `json:"notes"`
}

func (s *WorkerService) SetWorkerSkill(userID, skillID uint, req WorkerSkillRequest) (*model.WorkerSkill, error) {
	if !req.ProficiencyLevel.Valid() {
		return nil, util.ErrInvalidDifficulty
	}

	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}

	worker, _, err := s.GetOrCreateWorker(userID)
	if err != nil {
		return nil, err
	}

	ws := &model.WorkerSkill{
		BaseModel:         model.BaseModel{IsActive: true},
		WorkerID:          worker.ID,
		SkillID:           skill.ID,
		ProficiencyLevel:  req.ProficiencyLevel,
		CertificationDate: req.CertificationDate,
		Notes:             req.Notes,
	}
	if err := s.WorkerRepo.UpsertSkill(ws); err != nil {
		return nil, err
	}
	ws.Skill = skill
	return ws, nil
}

func (s *WorkerService) RemoveWorkerSkill(userID, skillID uint) error {
	worker, _, err := s.GetOrCreateWorker(userID)
	if err != nil {
		return err
	}
	affected, err := s.WorkerRepo.DeleteSkill(worker.ID, skillID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrSkillNotFound
	}
	return nil
}
