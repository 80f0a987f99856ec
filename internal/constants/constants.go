package constants

// 验证请求状态常量
const (
	VerificationStatusPending  = "pending"
	VerificationStatusVerified = "verified"
	VerificationStatusExpired  = "expired"
	VerificationStatusLocked   = "locked"
)

// 邮件重发类型常量
const (
	ResendTypeBulk       = "bulk"
	ResendTypeIndividual = "individual"
)

// 邮件类型常量
const (
	EmailKindVerifyCode  = "verify_code"
	EmailKindWelcome     = "welcome"
	EmailKindParticipant = "participant_invite"
	EmailKindOrganizer   = "organizer_drawn"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneRequestVerification = "request_verification"
)

// 队列常量
const (
	QueueDefault          = "default"
	QueueCritical         = "critical"
	TaskParticipantInvite = "game:participant_invite"
	TaskOrganizerDrawn    = "game:organizer_drawn"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sn"
)
