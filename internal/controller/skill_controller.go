package controller

import (
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// ListSkills godoc
// @Summary 技能列表
// @Tags 技能
// @Produce json
// @Param q query string false "名称或描述关键字"
// @Param category query int false "分类ID"
// @Param difficulty query string false "难度" Enums(beginner, intermediate, advanced, expert)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/skills [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	filter := repository.SkillFilter{
		Query:      ctx.Query("q"),
		CategoryID: util.MustParseUint(ctx.Query("category")),
		Difficulty: model.DifficultyLevel(ctx.Query("difficulty")),
	}

	skills, err := c.SkillService.ListSkills(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}

	page, limit := util.ParsePage(ctx)
	util.Success(ctx, util.Paginate(skills, page, limit))
}

// GetSkill godoc
// @Summary 技能详情
// @Description 包含前置技能、依赖该技能的技能以及同分类推荐
// @Tags 技能
// @Produce json
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response{data=service.SkillDetail}
// @Failure 404 {object} util.Response
// @Router /api/skills/{id} [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.SkillService.GetSkillDetail(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// ListCategories godoc
// @Summary 技能分类
// @Tags 技能
// @Produce json
// @Success 200 {object} util.Response{data=[]model.SkillCategory}
// @Router /api/skill-categories [get]
func (c *SkillController) ListCategories(ctx *gin.Context) {
	categories, err := c.SkillService.ListCategories()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// CreateCategory godoc
// @Summary 创建技能分类
// @Tags 管理
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CategoryRequest true "分类"
// @Success 201 {object} util.Response{data=model.SkillCategory}
// @Router /api/admin/skill-categories [post]
func (c *SkillController) CreateCategory(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.SkillService.CreateCategory(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// CreateSkill godoc
// @Summary 创建技能
// @Tags 管理
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.SkillRequest true "技能"
// @Success 201 {object} util.Response{data=model.Skill}
// @Router /api/admin/skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	var req service.SkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill, err := c.SkillService.CreateSkill(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, skill)
}

// AddPrerequisite godoc
// @Summary 添加前置技能
// @Description 不校验依赖环
// @Tags 管理
// @Security BearerAuth
// @Produce json
// @Param id path int true "技能ID"
// @Param prereqId path int true "前置技能ID"
// @Success 200 {object} util.Response{data=model.Skill}
// @Router /api/admin/skills/{id}/prerequisites/{prereqId} [post]
func (c *SkillController) AddPrerequisite(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	prereqID, ok := idParam(ctx, "prereqId")
	if !ok {
		return
	}

	skill, err := c.SkillService.AddPrerequisite(id, prereqID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// RemovePrerequisite godoc
// @Summary 移除前置技能
// @Tags 管理
// @Security BearerAuth
// @Produce json
// @Param id path int true "技能ID"
// @Param prereqId path int true "前置技能ID"
// @Success 200 {object} util.Response{data=model.Skill}
// @Router /api/admin/skills/{id}/prerequisites/{prereqId} [delete]
func (c *SkillController) RemovePrerequisite(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	prereqID, ok := idParam(ctx, "prereqId")
	if !ok {
		return
	}

	skill, err := c.SkillService.RemovePrerequisite(id, prereqID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}
