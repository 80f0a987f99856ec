package public

import (
	"github.com/santa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// SiteConfig 返回前端初始化所需的公开配置
func (h *Handler) SiteConfig(c *gin.Context) {
	captchaEnabled := h.CaptchaService != nil && h.CaptchaService.Enabled()
	response.Success(c, gin.H{
		"app_name": h.Config.App.Name,
		"captcha": gin.H{
			"provider": h.Config.Captcha.Provider,
			"enabled":  captchaEnabled,
			"scenes": gin.H{
				"request_verification": captchaEnabled && h.Config.Captcha.Scenes.RequestVerification,
			},
		},
		"game": gin.H{
			"max_participants": h.Config.Game.MaxParticipants,
		},
	})
}
