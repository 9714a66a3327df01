package handler

import (
	"course_commerce/internal/domain/user/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordInput 修改密码输入
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login 处理登录请求
// @Summary 邮箱密码登录
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// ChangePassword 修改密码
// @Summary 修改密码（首次登录必须）
// @Tags auth
// @Security Bearer
// @Router /api/v1/auth/password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), input.OldPassword, input.NewPassword)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, true)
}

// Me 当前用户
// @Summary 当前登录用户
// @Tags users
// @Security Bearer
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}
