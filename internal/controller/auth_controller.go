package controller

import (
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册 worker 账号，员工档案在首次访问时自动创建
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱或用户名已被占用"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "username": user.Username})
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "用户名或邮箱 + 密码"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Profile godoc
// @Summary 当前登录用户
// @Tags 认证
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := c.AuthService.GetUser(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
