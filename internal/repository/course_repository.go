package repository

import (
	"database/sql"
	"strconv"
	"strings"

	"skilldev_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseFilter 课程列表筛选条件
// Skill 为纯数字时按技能 ID 精确匹配，否则按技能名模糊匹配
type CourseFilter struct {
	Query      string
	Difficulty model.DifficultyLevel
	Skill      string
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) List(filter CourseFilter) ([]model.Course, error) {
	sub := r.DB.Model(&model.Course{}).Select("courses.id").Where("courses.is_active = ?", true)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		sub = sub.Where("courses.title LIKE ? OR courses.description LIKE ?", like, like)
	}
	if filter.Difficulty != "" {
		sub = sub.Where("courses.difficulty_level = ?", filter.Difficulty)
	}
	if skill := strings.TrimSpace(filter.Skill); skill != "" {
		sub = sub.Joins("JOIN course_skills cs ON cs.course_id = courses.id")
		if id, err := strconv.ParseUint(skill, 10, 64); err == nil {
			sub = sub.Where("cs.skill_id = ?", id)
		} else {
			sub = sub.Joins("JOIN skills ON skills.id = cs.skill_id").
				Where("skills.name LIKE ?", "%"+skill+"%")
		}
	}

	var courses []model.Course
	err := r.DB.Preload("Skills").Preload("Instructor").
		Where("id IN (?)", sub).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// FindByID 不区分启用状态，讲师管理自己的课程时使用
func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Skills").Preload("Instructor").First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindActiveByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Skills").Preload("Instructor").
		Where("is_active = ?", true).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByTitle(title string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("title = ?", title).First(&course).Error
	return &course, err
}

func (r *CourseRepository) FindLatest(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("is_active = ?", true).Order("created_at DESC").Limit(limit).Find(&courses).Error
	return courses, err
}

// FindRelated 与给定课程共享至少一个技能的其他启用课程
func (r *CourseRepository) FindRelated(course *model.Course, limit int) ([]model.Course, error) {
	var courses []model.Course
	if len(course.Skills) == 0 {
		return courses, nil
	}

	skillIDs := make([]uint, 0, len(course.Skills))
	for _, s := range course.Skills {
		skillIDs = append(skillIDs, s.ID)
	}

	sub := r.DB.Table("course_skills").Select("course_id").Where("skill_id IN ?", skillIDs)
	err := r.DB.
		Where("id IN (?) AND id <> ? AND is_active = ?", sub, course.ID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// Update 保存基础字段并替换技能关联
func (r *CourseRepository) Update(course *model.Course, skills []model.Skill) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(course).Error; err != nil {
			return err
		}
		if skills == nil {
			return nil
		}
		if err := tx.Model(course).Association("Skills").Replace(skills); err != nil {
			return err
		}
		course.Skills = skills
		return nil
	})
}

// Delete 物理删除，章节、选课、进度由外键级联删除
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM course_skills WHERE course_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) FindModules(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.
		Where("course_id = ? AND is_active = ?", courseID, true).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("title asc").
		Find(&modules).Error
	return modules, err
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.Where("is_active = ?", true).First(&module, id).Error
	return &module, err
}

func (r *CourseRepository) NextModuleOrder(courseID uint) (int, error) {
	var maxOrder sql.NullInt64
	err := r.DB.Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Select("MAX(?)", clause.Column{Name: "order"}).
		Row().
		Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 1, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (r *CourseRepository) CreateModule(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *CourseRepository) UpdateModule(module *model.CourseModule) error {
	return r.DB.Omit(clause.Associations).Save(module).Error
}
