package controller

import (
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCourses godoc
// @Summary 课程列表
// @Description skill 可以是技能ID或技能名关键字，取值 none 时忽略
// @Tags 课程
// @Produce json
// @Param q query string false "标题或描述关键字"
// @Param difficulty query string false "难度"
// @Param skill query string false "技能"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	filter := repository.CourseFilter{
		Query:      ctx.Query("q"),
		Difficulty: model.DifficultyLevel(ctx.Query("difficulty")),
		Skill:      ctx.Query("skill"),
	}

	courses, err := c.CourseService.ListCourses(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}

	page, limit := util.ParsePage(ctx)
	util.Success(ctx, util.Paginate(courses, page, limit))
}

// GetCourse godoc
// @Summary 课程详情
// @Description 登录用户会返回自己的选课状态
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	detail, err := c.CourseService.GetCourseDetail(id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 讲师
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CourseRequest true "课程"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(actor, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 讲师
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param body body service.CourseRequest true "课程"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(actor, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 章节、选课和学习进度一并删除
// @Tags 讲师
// @Security BearerAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.DeleteCourse(actor, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// AddModule godoc
// @Summary 新增章节
// @Tags 讲师
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param body body service.ModuleRequest true "章节"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Failure 409 {object} util.Response "章节序号重复"
// @Router /api/instructor/courses/{id}/modules [post]
func (c *CourseController) AddModule(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.AddModule(actor, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UploadModuleVideo godoc
// @Summary 上传章节视频
// @Description 通过 ffprobe 读取时长并更新章节时长
// @Tags 讲师
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param moduleId path int true "章节ID"
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Router /api/instructor/modules/{moduleId}/video [post]
func (c *CourseController) UploadModuleVideo(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	moduleID, ok := idParam(ctx, "moduleId")
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	module, err := c.CourseService.UploadModuleVideo(ctx.Request.Context(), actor, moduleID, header)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, module)
}
