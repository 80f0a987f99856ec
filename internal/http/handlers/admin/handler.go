package admin

import (
	"github.com/santa-next/internal/provider"

	handlershared "github.com/santa-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// Handler 站点管理员接口处理器入口
// 说明：所有接口都要求先通过 JWT 鉴权中间件。
type Handler struct {
	*provider.Container
}

// New 创建管理员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// currentAdminID 读取鉴权中间件写入的管理员 ID
func currentAdminID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("admin_id")
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
