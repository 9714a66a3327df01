package response

import (
	"net/http"

	"course_commerce/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// FromError 按 apperr.Kind 映射 HTTP 状态
// 校验类失败沿用 Fail（HTTP 200 + 业务码），前端直接展示 Message
func FromError(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		Error(c, http.StatusInternalServerError, ErrServerInternal, "Internal server error")
		return
	}
	switch ae.Kind {
	case apperr.KindValidation:
		Fail(c, ae.Code, ae.Message)
	case apperr.KindNotFound:
		Error(c, http.StatusNotFound, ae.Code, ae.Message)
	case apperr.KindConflict:
		Error(c, http.StatusConflict, ae.Code, ae.Message)
	case apperr.KindForbidden:
		Error(c, http.StatusForbidden, ae.Code, ae.Message)
	case apperr.KindExternal:
		Error(c, http.StatusBadGateway, ae.Code, ae.Message)
	default:
		Error(c, http.StatusInternalServerError, ErrServerInternal, ae.Message)
	}
}
