package controller

import (
	"fmt"
	"strings"

	"skilldev_backend/internal/model"
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// workerCreatedNotice 自动建档后提示分配的工号
func workerCreatedNotice(worker *model.Worker) util.Notice {
	return util.Notice{
		Level: util.NoticeInfo,
		Text:  fmt.Sprintf("A worker profile has been created for you. Employee ID: %s", worker.EmployeeID),
	}
}

// Enroll godoc
// @Summary 选课
// @Description 名额已满或重复选课时返回 409，data.notice 为提示消息
// @Tags 选课
// @Security BearerAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "课程不存在或未启用"
// @Failure 409 {object} util.Response{data=object} "已选过该课程 / 课程已满"
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.EnrollmentService.Enroll(claims.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	notices := make([]util.Notice, 0, 2)
	if result.WorkerCreated {
		notices = append(notices, workerCreatedNotice(result.Worker))
	}
	notices = append(notices, util.Notice{
		Level: util.NoticeSuccess,
		Text:  fmt.Sprintf("You have successfully enrolled in %s!", result.Enrollment.Course.Title),
	})

	util.Created(ctx, gin.H{
		"enrollment": result.Enrollment,
		"notices":    notices,
	})
}

// MyCourses godoc
// @Summary 我的课程
// @Tags 选课
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=service.MyCourses}
// @Router /api/my-courses [get]
func (c *EnrollmentController) MyCourses(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	courses, err := c.EnrollmentService.ListMyEnrollments(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Drop godoc
// @Summary 退课
// @Description 释放名额，之后可以重新选课
// @Tags 选课
// @Security BearerAuth
// @Produce json
// @Param id path int true "选课ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments/{id}/drop [post]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	c.selfTransition(ctx, c.EnrollmentService.Drop)
}

// Start godoc
// @Summary 开始学习
// @Tags 选课
// @Security BearerAuth
// @Produce json
// @Param id path int true "选课ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response "状态不允许"
// @Router /api/enrollments/{id}/start [post]
func (c *EnrollmentController) Start(ctx *gin.Context) {
	c.selfTransition(ctx, c.EnrollmentService.Start)
}

func (c *EnrollmentController) selfTransition(ctx *gin.Context, op func(userID, enrollmentID uint) (*model.Enrollment, error)) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := op(claims.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// ProgressRequest 学习进度
// swagger:model ProgressRequest
type ProgressRequest struct {
	ProgressPercentage *int `json:"progressPercentage" binding:"required"`
}

// UpdateProgress godoc
// @Summary 更新学习进度
// @Tags 选课
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "选课ID"
// @Param body body ProgressRequest true "0-100"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments/{id}/progress [patch]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.UpdateProgress(claims.UserID, id, *req.ProgressPercentage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// RatingRequest 课程评价
// swagger:model RatingRequest
type RatingRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// Rate godoc
// @Summary 课程评分
// @Tags 选课
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "选课ID"
// @Param body body RatingRequest true "评分 1-5"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments/{id}/rating [post]
func (c *EnrollmentController) Rate(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req RatingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Rate(claims.UserID, id, req.Rating, strings.TrimSpace(req.Review))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// ModuleCompleteRequest 章节学习时长（分钟）
// swagger:model ModuleCompleteRequest
type ModuleCompleteRequest struct {
	TimeSpentMinutes int `json:"timeSpentMinutes"`
}

// CompleteModule godoc
// @Summary 完成章节
// @Description 学习时长累加，不改变选课状态
// @Tags 选课
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "选课ID"
// @Param moduleId path int true "章节ID"
// @Param body body ModuleCompleteRequest false "学习时长"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Router /api/enrollments/{id}/modules/{moduleId}/complete [post]
func (c *EnrollmentController) CompleteModule(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	moduleID, ok := idParam(ctx, "moduleId")
	if !ok {
		return
	}

	var req ModuleCompleteRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	progress, err := c.EnrollmentService.CompleteModule(claims.UserID, id, moduleID, req.TimeSpentMinutes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// ModuleProgress godoc
// @Summary 章节进度
// @Tags 选课
// @Security BearerAuth
// @Produce json
// @Param id path int true "选课ID"
// @Success 200 {object} util.Response{data=[]model.CourseProgress}
// @Router /api/enrollments/{id}/modules [get]
func (c *EnrollmentController) ModuleProgress(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	records, err := c.EnrollmentService.ListModuleProgress(claims.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// CourseEnrollments godoc
// @Summary 课程选课名单
// @Tags 讲师
// @Security BearerAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/instructor/courses/{id}/enrollments [get]
func (c *EnrollmentController) CourseEnrollments(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.EnrollmentService.ListCourseEnrollments(actor, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// StatusRequest 目标状态
// swagger:model StatusRequest
type StatusRequest struct {
	Status model.EnrollmentStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary 推进选课状态
// @Description enrolled -> in_progress -> completed，任意未退课状态可转为 dropped
// @Tags 讲师
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "选课ID"
// @Param body body StatusRequest true "状态"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/instructor/enrollments/{id}/status [patch]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.UpdateStatus(actor, id, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// IssueCertificate godoc
// @Summary 颁发证书
// @Description 可附带 PDF 或图片格式的证书文件
// @Tags 讲师
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "选课ID"
// @Param file formData file false "证书文件"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/instructor/enrollments/{id}/certificate [post]
func (c *EnrollmentController) IssueCertificate(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var file *service.CertificateFile
	if header, err := ctx.FormFile("file"); err == nil {
		src, err := header.Open()
		if err != nil {
			util.BadRequest(ctx, "cannot read file")
			return
		}
		defer src.Close()

		mimeType, err := util.ValidateMimeType(src, util.AllowedCertificateMimeTypes)
		if err != nil {
			respondError(ctx, err)
			return
		}
		if _, err := src.Seek(0, 0); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		file = &service.CertificateFile{
			Filename:    header.Filename,
			Reader:      src,
			Size:        header.Size,
			ContentType: mimeType,
		}
	}

	enrollment, err := c.EnrollmentService.IssueCertificate(ctx.Request.Context(), actor, id, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}
