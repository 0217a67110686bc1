package repository

import (
	"skilldev_backend/internal/model"

	"gorm.io/gorm"
)

// SkillFilter 技能列表筛选条件
type SkillFilter struct {
	Query      string
	CategoryID uint
	Difficulty model.DifficultyLevel
}

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) FindCategories() ([]model.SkillCategory, error) {
	var categories []model.SkillCategory
	err := r.DB.Where("is_active = ?", true).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *SkillRepository) FindCategoryByID(id uint) (*model.SkillCategory, error) {
	var category model.SkillCategory
	err := r.DB.Where("is_active = ?", true).First(&category, id).Error
	return &category, err
}

func (r *SkillRepository) FindCategoryByName(name string) (*model.SkillCategory, error) {
	var category model.SkillCategory
	err := r.DB.Where("name = ?", name).First(&category).Error
	return &category, err
}

func (r *SkillRepository) CreateCategory(category *model.SkillCategory) error {
	return r.DB.Create(category).Error
}

func (r *SkillRepository) List(filter SkillFilter) ([]model.Skill, error) {
	query := r.DB.Model(&model.Skill{}).Where("is_active = ?", true)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty_level = ?", filter.Difficulty)
	}

	var skills []model.Skill
	err := query.Preload("Category").Order("name asc").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Preload("Category").
		Preload("Prerequisites", "is_active = ?", true).
		Where("is_active = ?", true).
		First(&skill, id).Error
	return &skill, err
}

func (r *SkillRepository) FindByIDs(ids []uint) ([]model.Skill, error) {
	var skills []model.Skill
	if len(ids) == 0 {
		return skills, nil
	}
	err := r.DB.Where("id IN ? AND is_active = ?", ids, true).Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByName(name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Where("name = ?", name).First(&skill).Error
	return &skill, err
}

// FindRequiredFor 以 skillID 作为前置技能的技能（反向视图）
func (r *SkillRepository) FindRequiredFor(skillID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.
		Joins("JOIN skill_prerequisites sp ON sp.skill_id = skills.id").
		Where("sp.prerequisite_id = ? AND skills.is_active = ?", skillID, true).
		Order("skills.name asc").
		Find(&skills).Error
	return skills, err
}

// FindRelated 同分类下的其他技能
func (r *SkillRepository) FindRelated(categoryID, excludeID uint, limit int) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, excludeID, true).
		Order("name asc").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindFirst(limit int) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Where("is_active = ?", true).Order("name asc").Limit(limit).Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) AddPrerequisite(skill, prerequisite *model.Skill) error {
	return r.DB.Model(skill).Association("Prerequisites").Append(prerequisite)
}

func (r *SkillRepository) RemovePrerequisite(skill, prerequisite *model.Skill) error {
	return r.DB.Model(skill).Association("Prerequisites").Delete(prerequisite)
}
