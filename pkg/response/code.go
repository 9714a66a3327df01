package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists     = 10001
	ErrUserNotFound   = 10002
	ErrAuthFailed     = 10003
	ErrTokenInvalid   = 10004
	ErrNoPermission   = 10005
	ErrInvalidContact = 10006

	// 优惠券模块错误 200xx
	ErrCouponNotFound      = 20001
	ErrCouponInactive      = 20002
	ErrCouponExpired       = 20003
	ErrCouponExhausted     = 20004
	ErrCouponInapplicable  = 20005
	ErrCouponCodeDuplicate = 20006

	// 订单/支付模块错误 300xx
	ErrProductNotFound     = 30001
	ErrAlreadyPurchased    = 30002
	ErrOrderNotFound       = 30003
	ErrOrderNotPending     = 30004
	ErrAmountMismatch      = 30005
	ErrGatewayUnavailable  = 30006
	ErrUnsupportedChannel  = 30007
	ErrWebhookUnauthorized = 30008

	// 学习模块错误 400xx
	ErrLessonNotFound   = 40001
	ErrLessonLocked     = 40002
	ErrNotEnrolled      = 40003
	ErrProgressNotFound = 40004
	ErrNotEntitled      = 40005

	// 推广模块错误 600xx
	ErrNotSaler = 60001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
