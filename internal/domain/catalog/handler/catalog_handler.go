package handler

import (
	"course_commerce/internal/domain/catalog/service"
	"course_commerce/pkg/response"
	"course_commerce/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service service.ProductService
}

func NewCatalogHandler(service service.ProductService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListBooks 在售电子书
// @Tags catalog
// @Router /api/v1/books [get]
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}
	res, err := h.service.ListBooks(c.Request.Context(), &p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

// ListIndicators 在售指标
// @Tags catalog
// @Router /api/v1/indicators [get]
func (h *CatalogHandler) ListIndicators(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}
	res, err := h.service.ListIndicators(c.Request.Context(), &p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}
