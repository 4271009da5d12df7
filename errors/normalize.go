package errors

import (
	"context"
	stdErrors "errors"

	"softdel/data/orm"
)

// Normalize 将数据访问层的哨兵错误规范化为 AppError。
//
// 已经是 AppError 的错误以及未识别的错误原样返回。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, orm.ErrNotFound):
		return WrapError(err, ErrCodeNotFound, "record not found")
	case stdErrors.Is(err, orm.ErrInvalidCondition):
		return WrapError(err, ErrCodeInvalidInput, "invalid condition")
	case stdErrors.Is(err, orm.ErrUnsupported):
		return WrapError(err, ErrCodeUnsupported, "capability unsupported")
	case stdErrors.Is(err, context.Canceled):
		return WrapError(err, ErrCodeCancelled, "operation cancelled")
	case stdErrors.Is(err, context.DeadlineExceeded):
		return WrapError(err, ErrCodeTimeout, "operation timed out")
	}
	return err
}
