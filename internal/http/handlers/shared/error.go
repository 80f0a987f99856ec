package shared

import (
	"github.com/santa-next/internal/http/response"
	"github.com/santa-next/internal/i18n"
	"github.com/santa-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志
func RespondError(c *gin.Context, code int, key string, err error) {
	respond(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorf 返回带格式化参数的国际化错误响应
func RespondErrorf(c *gin.Context, code int, key string, err error, args ...interface{}) {
	respond(c, code, i18n.Sprintf(i18n.ResolveLocale(c), key, args...), err)
}

func respond(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		appErr := response.WrapError(code, msg, err)
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}
