package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/pkg/errors"
	"Knudge/pkg/logger"
	"Knudge/pkg/response"
)

// internalError panic 时的统一响应
var internalError = errors.Definition{
	Code:    "INTERNAL_SERVER_ERROR",
	Message: "Internal server error",
}

// RecoverMiddleware panic 转为 500，非生产环境在 details 中带上 panic 内容
func RecoverMiddleware() app.HandlerFunc {
	exposeDetails := !config.Cfg.IsProduction()

	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				handlePanic(ctx, c, r, exposeDetails)
			}
		}()

		c.Next(ctx)
	}
}

func handlePanic(ctx context.Context, c *app.RequestContext, r interface{}, exposeDetails bool) {
	stack := debug.Stack()

	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", r)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.ByteString("stack", stack),
	}
	if userID, exists := GetUserID(ctx, c); exists {
		fields = append(fields, zap.String("user_id", userID))
	}
	logger.Logger.Error("[PANIC RECOVERED]", fields...)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(fmt.Errorf("panic: %v", r))
		span.SetStatus(codes.Error, "panic")
	}

	if exposeDetails {
		response.ErrorWithDetails(ctx, c, internalError, map[string]interface{}{
			"panic": fmt.Sprintf("%v", r),
		})
	} else {
		response.Error(ctx, c, internalError)
	}
	c.Abort()
}
