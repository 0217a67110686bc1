package repository

import (
	"errors"

	"skilldev_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// CountActive 课程当前占用名额数
func (r *EnrollmentRepository) CountActive(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Count(&count).Error
	return count, err
}

// CountActiveByCourses 批量统计，列表页使用
func (r *EnrollmentRepository) CountActiveByCourses(courseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID uint
		Total    int64
	}
	err := r.DB.Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ? AND is_active = ?", courseIDs, true).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts, nil
}

// FindByWorkerAndCourse 返回该组合的唯一记录（含已退课的停用记录）
func (r *EnrollmentRepository) FindByWorkerAndCourse(workerID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("worker_id = ? AND course_id = ?", workerID, courseID).First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindActiveByWorkerAndCourse(workerID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("worker_id = ? AND course_id = ? AND is_active = ?", workerID, courseID, true).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Preload("Course").Preload("Worker").First(&enrollment, id).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Omit(clause.Associations).Create(enrollment).Error
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Omit(clause.Associations).Save(enrollment).Error
}

// ListByWorker limit <= 0 表示不限制
func (r *EnrollmentRepository) ListByWorker(workerID uint, limit int) ([]model.Enrollment, error) {
	query := r.DB.Preload("Course").
		Where("worker_id = ? AND is_active = ?", workerID, true).
		Order("enrolled_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var enrollments []model.Enrollment
	err := query.Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Worker.User").
		Where("course_id = ?", courseID).
		Order("enrolled_date DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CountByWorkerAndStatus(workerID uint, status model.EnrollmentStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("worker_id = ? AND status = ?", workerID, status).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) FindProgress(enrollmentID, moduleID uint) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).First(&progress).Error
	return &progress, err
}

func (r *EnrollmentRepository) ListProgress(enrollmentID uint) ([]model.CourseProgress, error) {
	var records []model.CourseProgress
	err := r.DB.Preload("Module").
		Joins("JOIN course_modules ON course_modules.id = course_progress.module_id").
		Where("course_progress.enrollment_id = ?", enrollmentID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "course_modules", Name: "order"}}).
		Find(&records).Error
	return records, err
}

// SaveProgress 以 (enrollment, module) 为键写入，学习时长累加
func (r *EnrollmentRepository) SaveProgress(progress *model.CourseProgress) error {
	existing, err := r.FindProgress(progress.EnrollmentID, progress.ModuleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.DB.Omit(clause.Associations).Create(progress).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// 并发写入同一章节，退回到更新路径
		existing, err = r.FindProgress(progress.EnrollmentID, progress.ModuleID)
	}
	if err != nil {
		return err
	}

	existing.Completed = progress.Completed
	existing.CompletedDate = progress.CompletedDate
	existing.TimeSpentMinutes += progress.TimeSpentMinutes
	existing.IsActive = true
	if err := r.DB.Omit(clause.Associations).Save(existing).Error; err != nil {
		return err
	}
	*progress = *existing
	return nil
}
