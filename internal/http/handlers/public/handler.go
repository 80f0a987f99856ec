package public

import (
	"github.com/santa-next/internal/provider"

	handlershared "github.com/santa-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// Handler 公开接口处理器入口
// 说明：该处理器用于组织者与参与者侧 API，不要求站点管理员登录。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorf(c *gin.Context, code int, key string, err error, args ...interface{}) {
	handlershared.RespondErrorf(c, code, key, err, args...)
}
