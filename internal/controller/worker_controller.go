package controller

import (
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorkerController struct {
	WorkerService *service.WorkerService
}

func NewWorkerController(workerService *service.WorkerService) *WorkerController {
	return &WorkerController{WorkerService: workerService}
}

// ListWorkers godoc
// @Summary 员工目录
// @Tags 员工
// @Produce json
// @Param q query string false "姓名、工号、部门或职位关键字"
// @Param department query string false "部门"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/workers [get]
func (c *WorkerController) ListWorkers(ctx *gin.Context) {
	filter := repository.WorkerFilter{
		Query:      ctx.Query("q"),
		Department: ctx.Query("department"),
	}
	page, limit := util.ParsePage(ctx)

	workers, total, err := c.WorkerService.ListWorkers(filter, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  workers,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 部门列表
// @Tags 员工
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/workers/departments [get]
func (c *WorkerController) ListDepartments(ctx *gin.Context) {
	departments, err := c.WorkerService.ListDepartments()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, departments)
}

// GetWorker godoc
// @Summary 员工详情
// @Tags 员工
// @Produce json
// @Param id path int true "员工ID"
// @Success 200 {object} util.Response{data=service.WorkerDetail}
// @Failure 404 {object} util.Response
// @Router /api/workers/{id} [get]
func (c *WorkerController) GetWorker(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.WorkerService.GetWorkerDetail(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// MyProfile godoc
// @Summary 我的员工档案
// @Description 首次访问时自动创建档案，data.notice 提示分配的工号
// @Tags 员工
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=service.MyProfile}
// @Router /api/my-profile [get]
func (c *WorkerController) MyProfile(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	profile, err := c.WorkerService.GetMyProfile(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if profile.Created {
		util.Success(ctx, gin.H{
			"profile": profile,
			"notice":  workerCreatedNotice(profile.Worker),
		})
		return
	}
	util.Success(ctx, gin.H{"profile": profile})
}

// UpdateMyProfile godoc
// @Summary 更新我的员工档案
// @Tags 员工
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.ProfileUpdateRequest true "档案字段"
// @Success 200 {object} util.Response{data=model.Worker}
// @Router /api/my-profile [put]
func (c *WorkerController) UpdateMyProfile(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req service.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	worker, err := c.WorkerService.UpdateMyProfile(claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, worker)
}

// SetSkill godoc
// @Summary 设置我的技能熟练度
// @Tags 员工
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param skillId path int true "技能ID"
// @Param body body service.WorkerSkillRequest true "熟练度"
// @Success 200 {object} util.Response{data=model.WorkerSkill}
// @Router /api/my-profile/skills/{skillId} [put]
func (c *WorkerController) SetSkill(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	skillID, ok := idParam(ctx, "skillId")
	if !ok {
		return
	}

	var req service.WorkerSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ws, err := c.WorkerService.SetWorkerSkill(claims.UserID, skillID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, ws)
}

// @Summary 移除我的技能
// @Tags 员工
// @Security BearerAuth
// @Produce json
// @Param skillId path int true "技能ID"
// @Success 200 {object} util.Response
// @Router /api/my-profile/skills/{skillId} [delete]
func (c *WorkerController) RemoveSkill(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	skillID, ok := idParam(ctx, "skillId")
	if !ok {
		return
	}

	if err := c.WorkerService.RemoveWorkerSkill(claims.UserID, skillID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"skillId": skillID})
}
