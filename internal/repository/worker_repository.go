package repository

import (
	"errors"

	"skilldev_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkerFilter 员工列表筛选条件
type WorkerFilter struct {
	Query      string
	Department string
}

type WorkerRepository struct {
	DB *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{DB: db}
}

func (r *WorkerRepository) Create(worker *model.Worker) error {
	return r.DB.Create(worker).Error
}

func (r *WorkerRepository) Update(worker *model.Worker) error {
	return r.DB.Omit(clause.Associations).Save(worker).Error
}

func (r *WorkerRepository) FindByUserID(userID uint) (*model.Worker, error) {
	var worker model.Worker
	err := r.DB.Preload("User").Where("user_id = ?", userID).First(&worker).Error
	return &worker, err
}

func (r *WorkerRepository) FindByID(id uint) (*model.Worker, error) {
	var worker model.Worker
	err := r.DB.Preload("User").Where("is_active = ?", true).First(&worker, id).Error
	return &worker, err
}

func (r *WorkerRepository) ExistsEmployeeID(employeeID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Worker{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

func (r *WorkerRepository) List(filter WorkerFilter, page, limit int) ([]model.Worker, int64, error) {
	query := r.DB.Model(&model.Worker{}).
		Joins("JOIN users ON users.id = workers.user_id").
		Where("workers.is_active = ?", true)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"users.first_name LIKE ? OR users.last_name LIKE ? OR workers.employee_id LIKE ? OR workers.department LIKE ? OR workers.position LIKE ?",
			like, like, like, like, like,
		)
	}
	if filter.Department != "" {
		query = query.Where("workers.department = ?", filter.Department)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []model.Worker
	err := query.Preload("User").
		Order("workers.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&workers).Error
	return workers, total, err
}

func (r *WorkerRepository) Departments() ([]string, error) {
	var departments []string
	err := r.DB.Model(&model.Worker{}).
		Where("is_active = ?", true).
		Distinct().
		Order("department asc").
		Pluck("department", &departments).Error
	return departments, err
}

func (r *WorkerRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Worker{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// FindSkills 熟练度从高到低，其次按技能名
func (r *WorkerRepository) FindSkills(workerID uint) ([]model.WorkerSkill, error) {
	var skills []model.WorkerSkill
	err := r.DB.Preload("Skill").
		Joins("JOIN skills ON skills.id = worker_skills.skill_id").
		Where("worker_skills.worker_id = ? AND worker_skills.is_active = ?", workerID, true).
		Order("CASE worker_skills.proficiency_level WHEN 'expert' THEN 4 WHEN 'advanced' THEN 3 WHEN 'intermediate' THEN 2 ELSE 1 END DESC").
		Order("skills.name asc").
		Find(&skills).Error
	return skills, err
}

// UpsertSkill 以 (worker, skill) 为键新增或更新熟练度
func (r *WorkerRepository) UpsertSkill(ws *model.WorkerSkill) error {
	var existing model.WorkerSkill
	err := r.DB.Where("worker_id = ? AND skill_id = ?", ws.WorkerID, ws.SkillID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(ws).Error
	}
	if err != nil {
		return err
	}

	ws.ID = existing.ID
	ws.CreatedAt = existing.CreatedAt
	return r.DB.Model(&existing).Updates(map[string]interface{}{
		"proficiency_level":  ws.ProficiencyLevel,
		"certification_date": ws.CertificationDate,
		"notes":              ws.Notes,
		"is_active":          true,
	}).Error
}

func (r *WorkerRepository) DeleteSkill(workerID, skillID uint) (int64, error) {
	result := r.DB.Where("worker_id = ? AND skill_id = ?", workerID, skillID).Delete(&model.WorkerSkill{})
	return result.RowsAffected, result.Error
}
