package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误分类，决定 HTTP 映射
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindForbidden
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

// Error 业务错误：Message 直接展示给用户，Code 为 pkg/response 中的业务码
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同 Kind 同 Code 视为相同错误，便于 errors.Is(err, ErrCouponExpired)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap 复制一个带底层原因的错误
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

func New(kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func NotFound(code int, msg string) *Error   { return New(KindNotFound, code, msg) }
func Validation(code int, msg string) *Error { return New(KindValidation, code, msg) }
func Conflict(code int, msg string) *Error   { return New(KindConflict, code, msg) }
func Forbidden(code int, msg string) *Error  { return New(KindForbidden, code, msg) }

// External 外部依赖失败（可重试的暂时性错误）
func External(code int, msg string, err error) *Error {
	return &Error{Kind: KindExternal, Code: code, Message: msg, Err: err}
}

// KindOf 取出错误分类，非 *Error 归为 internal
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As 便捷断言
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
