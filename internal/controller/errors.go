package controller

import (
	"errors"
	"net/http"

	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"

	"github.com/gin-gonic/gin"
)

var notFoundErrors = []error{
	util.ErrUserNotFound,
	util.ErrSkillNotFound,
	util.ErrCategoryNotFound,
	util.ErrWorkerNotFound,
	util.ErrCourseNotFound,
	util.ErrModuleNotFound,
	util.ErrEnrollmentNotFound,
}

var badRequestErrors = []error{
	util.ErrInvalidTransition,
	util.ErrInvalidProgress,
	util.ErrInvalidRating,
	util.ErrCertificateNotAllowed,
	util.ErrInvalidCapacity,
	util.ErrInvalidDifficulty,
	util.ErrInvalidUpload,
}

// respondError 将业务错误映射为 HTTP 状态码，未识别的错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAlreadyEnrolled):
		util.Rejected(ctx, http.StatusConflict, util.NoticeWarning, util.ErrAlreadyEnrolled)
		return
	case errors.Is(err, util.ErrCourseFull):
		util.Rejected(ctx, http.StatusConflict, util.NoticeError, util.ErrCourseFull)
		return
	case errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, util.ErrDuplicateModuleOrder),
		errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrUsernameTaken):
		util.Error(ctx, http.StatusConflict, err.Error())
		return
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			util.Error(ctx, http.StatusNotFound, target.Error())
			return
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	util.LogInternalError(ctx, err)
}

// currentUser 从 JWT 中取出调用者身份，缺失时直接返回 401
func currentUser(ctx *gin.Context) (*util.Claims, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return claims, true
}

func currentActor(ctx *gin.Context) (service.Actor, bool) {
	claims, ok := currentUser(ctx)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}, true
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseIDParam(ctx, name)
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}
