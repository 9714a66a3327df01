package handler

import (
	"course_commerce/internal/domain/coupon/service"
	"course_commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(service service.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// ValidateInput 优惠码预览
type ValidateInput struct {
	Code         string `json:"code" binding:"required"`
	ResourceType string `json:"resourceType" binding:"required"`
	Price        int64  `json:"price" binding:"min=0"`
}

// Validate 预览优惠码效果，不消耗次数
// @Tags coupons
// @Router /api/v1/coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var input ValidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.Validate(c.Request.Context(), input.Code, input.ResourceType, input.Price)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

// CreateCoupon 创建优惠码
// @Tags admin
// @Security Bearer
// @Router /api/v1/admin/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input service.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, coupon)
}
