package service

import "errors"

// 邮件服务错误
var (
	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrInvalidEmail              = errors.New("邮箱格式不正确")
	ErrEmailRecipientRejected    = errors.New("收件邮箱不存在")
	ErrEmailDeliveryFailed       = errors.New("邮件发送失败")
)

// 邮箱验证错误
var (
	ErrVerificationNotFound       = errors.New("验证请求不存在")
	ErrVerificationAlreadyUsed    = errors.New("验证请求已被使用")
	ErrVerificationNotVerified    = errors.New("验证请求尚未通过验证")
	ErrVerificationRequestLimited = errors.New("验证请求超出频率限制")
	ErrVerifyCodeExpired          = errors.New("验证码已过期")
	ErrVerifyCodeIncorrect        = errors.New("验证码错误")
	ErrVerifyCodeAttemptsExceeded = errors.New("验证码尝试次数已用完")
	ErrVerifyCodeTooFrequent      = errors.New("验证码发送过于频繁")
)

// 活动与参与者错误
var (
	ErrGameNotFound               = errors.New("活动不存在")
	ErrInvalidGameInput           = errors.New("活动参数不合法")
	ErrGameAlreadyDrawn           = errors.New("活动已完成抽签")
	ErrGameNotDrawn               = errors.New("活动尚未抽签")
	ErrInsufficientParticipants   = errors.New("参与者不足，无法抽签")
	ErrParticipantNotFound        = errors.New("参与者不存在")
	ErrParticipantNotInGame       = errors.New("参与者不属于该活动")
	ErrParticipantLimitReached    = errors.New("参与者数量已达上限")
	ErrParticipantLockedAfterView = errors.New("参与者已查看结果，禁止修改")
	ErrAdminTokenInvalid          = errors.New("管理令牌无效")
	ErrViewTokenInvalid           = errors.New("查看令牌无效")
	ErrResendTooFrequent          = errors.New("邮件重发过于频繁")
	ErrResendLimitReached         = errors.New("邮件重发次数已达上限")
)

// 站点管理员错误
var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrWeakPassword       = errors.New("新密码强度不足")
	ErrJWTSecretMissing   = errors.New("JWT 密钥未配置")
	ErrTokenInvalid       = errors.New("登录凭证无效或已过期")
)

// 图形验证码错误
var (
	ErrCaptchaRequired      = errors.New("需要图形验证码")
	ErrCaptchaInvalid       = errors.New("图形验证码错误")
	ErrCaptchaConfigInvalid = errors.New("图形验证码配置无效")
)
