package public

import (
	"errors"

	"github.com/santa-next/internal/constants"
	"github.com/santa-next/internal/http/response"
	"github.com/santa-next/internal/i18n"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/service"

	handlershared "github.com/santa-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// RequestVerificationRequest 发起邮箱验证请求
// 活动名称与日期随验证请求暂存，验证通过后创建活动时取回。
type RequestVerificationRequest struct {
	Email          string                              `json:"email" binding:"required"`
	GameName       string                              `json:"game_name" binding:"required"`
	GameDate       string                              `json:"game_date" binding:"required"`
	Locale         string                              `json:"locale"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// RequestVerification 发起邮箱验证并发送验证码
func (h *Handler) RequestVerification(c *gin.Context) {
	var req RequestVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneRequestVerification, req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.captcha_config_invalid", captchaErr)
			}
			return
		}
	}

	locale := req.Locale
	if locale == "" {
		locale = i18n.ResolveLocale(c)
	}
	record, err := h.VerificationService.Request(service.VerificationRequestInput{
		Email:    req.Email,
		GameName: req.GameName,
		GameDate: req.GameDate,
		Locale:   locale,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrInvalidGameInput):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		case errors.Is(err, service.ErrVerificationRequestLimited):
			respondError(c, response.CodeTooManyRequests, "error.verification_request_limited", nil)
		case errors.Is(err, service.ErrVerifyCodeTooFrequent):
			respondErrorf(c, response.CodeTooManyRequests, "error.verify_code_too_frequent", nil, int(h.VerificationService.SendInterval().Seconds()))
		case errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "error.email_recipient_not_found", nil)
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeInternal, "error.email_service_not_configured", err)
		case errors.Is(err, service.ErrEmailDeliveryFailed):
			// 记录已落库，带回 verification_id 供客户端走重发
			respondDeliveryFailed(c, record)
		default:
			respondError(c, response.CodeInternal, "error.send_verify_code_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"verification_id": record.ID,
		"expires_at":      record.ExpiresAt,
	})
}

// VerifyCodeRequest 校验验证码请求
type VerifyCodeRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
	Code           string `json:"code" binding:"required"`
}

// VerifyCode 校验邮箱验证码
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	record, remaining, err := h.VerificationService.Verify(req.VerificationID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationNotFound):
			respondError(c, response.CodeNotFound, "error.verification_not_found", nil)
		case errors.Is(err, service.ErrVerificationAlreadyUsed):
			respondError(c, response.CodeBadRequest, "error.verification_already_used", nil)
		case errors.Is(err, service.ErrVerifyCodeExpired):
			respondError(c, response.CodeBadRequest, "error.verify_code_expired", nil)
		case errors.Is(err, service.ErrVerifyCodeAttemptsExceeded):
			respondError(c, response.CodeBadRequest, "error.verify_code_attempts_exceeded", nil)
		case errors.Is(err, service.ErrVerifyCodeIncorrect):
			respondErrorf(c, response.CodeBadRequest, "error.verify_code_incorrect", nil, remaining)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{
		"verification_id": record.ID,
		"email":           record.Email,
		"game_name":       record.GameName,
		"game_date":       record.GameDate,
		"verified":        true,
	})
}

// ResendVerificationRequest 重发验证码请求
type ResendVerificationRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
}

// ResendVerification 重发验证码
func (h *Handler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	record, err := h.VerificationService.Resend(req.VerificationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationNotFound):
			respondError(c, response.CodeNotFound, "error.verification_not_found", nil)
		case errors.Is(err, service.ErrVerificationAlreadyUsed):
			respondError(c, response.CodeBadRequest, "error.verification_already_used", nil)
		case errors.Is(err, service.ErrVerifyCodeExpired):
			respondError(c, response.CodeBadRequest, "error.verify_code_expired", nil)
		case errors.Is(err, service.ErrVerifyCodeTooFrequent):
			respondErrorf(c, response.CodeTooManyRequests, "error.verify_code_too_frequent", nil, int(h.VerificationService.SendInterval().Seconds()))
		case errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "error.email_recipient_not_found", nil)
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeInternal, "error.email_service_not_configured", err)
		case errors.Is(err, service.ErrEmailDeliveryFailed):
			respondDeliveryFailed(c, record)
		default:
			respondError(c, response.CodeInternal, "error.send_verify_code_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"verification_id": record.ID,
		"expires_at":      record.ExpiresAt,
	})
}

// respondDeliveryFailed 投递失败但记录已落库，返回可用于重发的 verification_id
func respondDeliveryFailed(c *gin.Context, record *models.EmailVerification) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.send_verify_code_failed")
	data := gin.H{}
	if record != nil {
		data["verification_id"] = record.ID
	}
	response.ErrorWithData(c, response.CodeInternal, msg, data)
}
