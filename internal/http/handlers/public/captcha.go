package public

import (
	"github.com/santa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 生成图形验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		respondError(c, response.CodeBadRequest, "error.captcha_not_enabled", nil)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_config_invalid", err)
		return
	}
	response.Success(c, challenge)
}
