package service

import (
	"course_commerce/internal/pkg/apperr"
	"course_commerce/pkg/response"
)

var (
	ErrAlreadyPurchased   = apperr.Validation(response.ErrAlreadyPurchased, "Bạn đã sở hữu sản phẩm này")
	ErrOrderNotFound      = apperr.NotFound(response.ErrOrderNotFound, "Không tìm thấy đơn hàng")
	ErrOrderNotPending    = apperr.NotFound(response.ErrOrderNotPending, "Không tìm thấy đơn hàng đang chờ thanh toán")
	ErrAmountMismatch     = apperr.Validation(response.ErrAmountMismatch, "Số tiền thanh toán không khớp với đơn hàng")
	ErrUnsupportedChannel = apperr.Validation(response.ErrUnsupportedChannel, "Phương thức thanh toán không được hỗ trợ")
	ErrGatewayUnavailable = apperr.New(apperr.KindExternal, response.ErrGatewayUnavailable, "Cổng thanh toán tạm thời không khả dụng, vui lòng thử lại sau")
	ErrInvalidProductType = apperr.Validation(response.ErrInvalidParam, "Loại sản phẩm không hợp lệ")
)
