package handler

import (
	"course_commerce/internal/domain/commission/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/pkg/response"
	"course_commerce/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	query service.CommissionQuery
}

func NewCommissionHandler(query service.CommissionQuery) *CommissionHandler {
	return &CommissionHandler{query: query}
}

// MyCommissions 推广人的佣金列表
// @Summary 我的佣金
// @Tags me
// @Security Bearer
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Router /api/v1/me/commissions [get]
func (h *CommissionHandler) MyCommissions(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}
	result, err := h.query.ListMine(c.Request.Context(), middleware.CurrentUserID(c), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}
