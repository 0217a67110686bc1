package service

import (
	"errors"
	"strings"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const relatedSkillsLimit = 4

type SkillService struct {
	SkillRepo *repository.SkillRepository
	Cache     *CatalogCache
}

func NewSkillService(skillRepo *repository.SkillRepository, cache *CatalogCache) *SkillService {
	return &SkillService{SkillRepo: skillRepo, Cache: cache}
}

// SkillDetail 技能详情：前置技能、依赖本技能的技能、同分类推荐
type SkillDetail struct {
	Skill       *model.Skill  `json:"skill"`
	RequiredFor []model.Skill `json:"requiredFor"`
	Related     []model.Skill `json:"related"`
}

func (s *SkillService) ListSkills(filter repository.SkillFilter) ([]model.Skill, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.SkillRepo.List(filter)
}

func (s *SkillService) GetSkillDetail(id uint) (*SkillDetail, error) {
	skill, err := s.SkillRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}
	if skill.Prerequisites == nil {
		skill.Prerequisites = []*model.Skill{}
	}

	requiredFor, err := s.SkillRepo.FindRequiredFor(skill.ID)
	if err != nil {
		return nil, err
	}
	related, err := s.SkillRepo.FindRelated(skill.CategoryID, skill.ID, relatedSkillsLimit)
	if err != nil {
		return nil, err
	}

	return &SkillDetail{Skill: skill, RequiredFor: requiredFor, Related: related}, nil
}

func (s *SkillService) ListCategories() ([]model.SkillCategory, error) {
	var categories []model.SkillCategory
	if s.Cache.Load(cacheKeyCategories, &categories) {
		return categories, nil
	}

	categories, err := s.SkillRepo.FindCategories()
	if err != nil {
		return nil, err
	}
	s.Cache.Store(cacheKeyCategories, categories)
	return categories, nil
}

// CategoryRequest 创建技能分类
// swagger:model CategoryRequest
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=50"`
}

func (s *SkillService) CreateCategory(req CategoryRequest) (*model.SkillCategory, error) {
	category := &model.SkillCategory{
		BaseModel:   model.BaseModel{IsActive: true},
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.SkillRepo.CreateCategory(category); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(cacheKeyCategories)
	return category, nil
}

// SkillRequest 创建技能，可同时指定前置技能
// swagger:model SkillRequest
type SkillRequest struct {
	Name                   string                `json:"name" binding:"required,max=200"`
	Description            string                `json:"description"`
	CategoryID             uint                  `json:"categoryId" binding:"required"`
	ImageURL               string                `json:"imageUrl"`
	DifficultyLevel        model.DifficultyLevel `json:"difficultyLevel"`
	EstimatedDurationHours int                   `json:"estimatedDurationHours" binding:"omitempty,min=1"`
	PrerequisiteIDs        []uint                `json:"prerequisiteIds"`
}

func (s *SkillService) CreateSkill(req SkillRequest) (*model.Skill, error) {
	if req.DifficultyLevel == "" {
		req.DifficultyLevel = model.Beginner
	}
	if !req.DifficultyLevel.Valid() {
		return nil, util.ErrInvalidDifficulty
	}
	if req.EstimatedDurationHours == 0 {
		req.EstimatedDurationHours = 40
	}

	category, err := s.SkillRepo.FindCategoryByID(req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}

	prerequisites, err := s.SkillRepo.FindByIDs(req.PrerequisiteIDs)
	if err != nil {
		return nil, err
	}
	if len(prerequisites) != len(uniqueIDs(req.PrerequisiteIDs)) {
		return nil, util.ErrSkillNotFound
	}

	skill := &model.Skill{
		BaseModel:              model.BaseModel{IsActive: true},
		Name:                   strings.TrimSpace(req.Name),
		Description:            req.Description,
		CategoryID:             category.ID,
		ImageURL:               req.ImageURL,
		DifficultyLevel:        req.DifficultyLevel,
		EstimatedDurationHours: req.EstimatedDurationHours,
		Prerequisites:          []*model.Skill{},
	}
	for i := range prerequisites {
		skill.Prerequisites = append(skill.Prerequisites, &prerequisites[i])
	}

	if err := s.SkillRepo.Create(skill); err != nil {
		return nil, err
	}
	skill.Category = category
	s.Cache.Invalidate(cacheKeyOverview)
	return skill, nil
}

// AddPrerequisite 添加依赖边，允许形成环
func (s *SkillService) AddPrerequisite(skillID, prerequisiteID uint) (*model.Skill, error) {
	skill, prerequisite, err := s.loadEdge(skillID, prerequisiteID)
	if err != nil {
		return nil, err
	}
	if err := s.SkillRepo.AddPrerequisite(skill, prerequisite); err != nil {
		return nil, err
	}
	logger.Log.Info("添加前置技能", zap.Uint("skill_id", skillID), zap.Uint("prerequisite_id", prerequisiteID))
	return s.SkillRepo.FindByID(skillID)
}

func (s *SkillService) RemovePrerequisite(skillID, prerequisiteID uint) (*model.Skill, error) {
	skill, prerequisite, err := s.loadEdge(skillID, prerequisiteID)
	if err != nil {
		return nil, err
	}
	if err := s.SkillRepo.RemovePrerequisite(skill, prerequisite); err != nil {
		return nil, err
	}
	return s.SkillRepo.FindByID(skillID)
}

func (s *SkillService) loadEdge(skillID, prerequisiteID uint) (*model.Skill, *model.Skill, error) {
	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSkillNotFound
		}
		return nil, nil, err
	}
	prerequisite, err := s.SkillRepo.FindByID(prerequisiteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSkillNotFound
		}
		return nil, nil, err
	}
	return skill, prerequisite, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
