package controller

import (
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 员工首页
// @Description 最近 5 条选课与已完成课程数
// @Tags 首页
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if dashboard.WorkerCreated {
		util.Success(ctx, gin.H{
			"dashboard": dashboard,
			"notice":    workerCreatedNotice(dashboard.Worker),
		})
		return
	}
	util.Success(ctx, gin.H{"dashboard": dashboard})
}

// @Summary 平台概览
// @Tags 首页
// @Produce json
// @Success 200 {object} util.Response{data=service.Overview}
// @Router /api/overview [get]
func (c *DashboardController) GetOverview(ctx *gin.Context) {
	overview, err := c.DashboardService.GetOverview()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}
