package errors

import (
	"context"
	"fmt"
	"runtime"

	"softdel/logging"
)

// Wrap 包装错误并以 Debug 级别记录调用位置
func Wrap(ctx context.Context, err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)
	logging.GetLogger().Debug(ctx, "wrap error",
		logging.String("message", msg),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)))
	return WrapError(err, code, msg)
}

// WrapWithLog 包装错误并记录警告日志
func WrapWithLog(ctx context.Context, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)
	logging.GetLogger().Warn(ctx, msg, allFields...)

	return WrapError(err, code, msg)
}

// WrapDatabaseError 包装数据访问错误
//
// 先经 Normalize 归类：可识别的错误保留其错误码，其余按数据库错误记录。
func WrapDatabaseError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}
	if normalized := Normalize(err); normalized != err {
		return WrapError(normalized, GetErrorCode(normalized), operation)
	}
	return WrapWithLog(ctx, err, ErrCodeDatabase, "database operation failed: "+operation,
		logging.String("operation", operation))
}
