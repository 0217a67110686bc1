package util

import (
	"net/http"

	"skilldev_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Notice 一次性提示消息，前端以 toast 展示
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// Rejected 业务规则拒绝（非致命），附带提示
func Rejected(c *gin.Context, code int, level string, err error) {
	c.JSON(code, Response{
		Code:    code,
		Message: err.Error(),
		Data:    gin.H{"notice": Notice{Level: level, Text: err.Error()}},
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	InternalServerError(c)
}

// Paginate 对内存中的结果切片分页，页码越界时返回空列表
func Paginate[T any](items []T, page, limit int) PageResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	total := len(items)
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := total
	if limit < total-start {
		end = start + limit
	}
	return PageResponse{
		List:  items[start:end],
		Total: int64(total),
		Page:  page,
		Limit: limit,
	}
}
