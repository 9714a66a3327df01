package handler

import (
	"course_commerce/internal/domain/entitlement/service"
	"course_commerce/internal/pkg/middleware"
	"course_commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	service service.LibraryService
}

func NewLibraryHandler(service service.LibraryService) *LibraryHandler {
	return &LibraryHandler{service: service}
}

// MyBooks 已购电子书
// @Tags me
// @Security Bearer
// @Router /api/v1/me/books [get]
func (h *LibraryHandler) MyBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, books)
}

// Download 获取限时下载链接
// @Tags me
// @Security Bearer
// @Router /api/v1/me/books/{id}/download [get]
func (h *LibraryHandler) Download(c *gin.Context) {
	link, err := h.service.DownloadLink(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, link)
}
