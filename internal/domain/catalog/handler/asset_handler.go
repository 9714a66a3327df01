package handler

import (
	"net/http"

	"course_commerce/internal/domain/catalog/service"
	"course_commerce/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxBookFileSize 电子书上限 100MB
const maxBookFileSize = 100 << 20

type AssetHandler struct {
	service service.AssetService
}

func NewAssetHandler(service service.AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

// UploadBookFile 上传电子书文件
// @Summary 上传电子书文件到 OSS 私有桶
// @Tags admin
// @Accept multipart/form-data
// @Param file formData file true "PDF / EPUB"
// @Security Bearer
// @Router /api/v1/admin/books/{id}/file [post]
func (h *AssetHandler) UploadBookFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBookFileSize)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidParam, "No file uploaded")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}
	defer f.Close()

	key, err := h.service.AttachBookFile(c.Request.Context(), c.Param("id"), fh.Filename, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"fileKey": key})
}
