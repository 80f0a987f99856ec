package i18n

// catalogs 文案目录（zh 为兜底语言）
var catalogs = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":  "请求参数有误",
		"error.not_found":    "资源不存在",
		"error.unauthorized": "未授权的访问",
		"error.internal":     "服务器内部错误",

		"error.email_invalid":                 "邮箱格式不正确",
		"error.verification_not_found":        "验证请求不存在",
		"error.verification_already_used":     "该验证请求已被使用",
		"error.verification_not_verified":     "该验证请求尚未通过验证",
		"error.verification_request_limited":  "验证请求过于频繁，请 1 小时后再试",
		"error.verify_code_incorrect":         "验证码错误，剩余 %d 次尝试机会",
		"error.verify_code_expired":           "验证码已过期，请重新获取",
		"error.verify_code_attempts_exceeded": "验证码尝试次数已用完，请重新获取",
		"error.verify_code_too_frequent":      "发送过于频繁，请 %d 秒后再试",
		"error.send_verify_code_failed":       "验证码发送失败，请稍后重试",
		"error.email_recipient_not_found":     "收件邮箱不存在，请检查邮箱地址",
		"error.email_service_not_configured":  "邮件服务未配置",

		"error.game_not_found":                "活动不存在",
		"error.game_already_drawn":            "该活动已完成抽签，不能重复抽签",
		"error.game_not_drawn":                "该活动尚未抽签，请等待组织者完成抽签",
		"error.insufficient_participants":     "至少需要 2 名参与者才能抽签",
		"error.draw_failed":                   "抽签失败，请稍后重试",
		"error.participant_not_found":         "参与者不存在",
		"error.participant_not_in_game":       "参与者不属于该活动",
		"error.participant_limit_reached":     "参与者数量已达上限（%d 人）",
		"error.participant_locked_after_view": "该参与者已查看抽签结果，不能再修改",
		"error.admin_token_invalid":           "管理令牌无效",
		"error.view_token_invalid":            "链接无效或已失效",
		"error.resend_too_frequent":           "邮件重发过于频繁，请 1 小时后再试",
		"error.resend_limit_reached":          "邮件重发次数已达上限",
		"error.create_game_failed":            "创建活动失败",
		"error.qr_generate_failed":            "二维码生成失败",

		"error.captcha_not_enabled":    "图形验证码未启用",
		"error.captcha_required":       "请完成图形验证码",
		"error.captcha_invalid":        "图形验证码错误",
		"error.captcha_config_invalid": "图形验证码配置无效",
		"error.captcha_verify_failed":  "图形验证码校验失败",

		"error.invalid_credentials":    "用户名或密码错误",
		"error.login_too_many":         "登录尝试过于频繁，请 %d 秒后再试",
		"error.rate_limited":           "操作过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.password_incorrect":     "密码错误",
		"error.password_weak":          "新密码至少需要 8 个字符",
		"error.auth_header_missing":    "缺少 Authorization 请求头",
		"error.auth_header_invalid":    "Authorization 请求头格式错误",
		"error.token_invalid":          "登录凭证无效或已过期",
		"error.jwt_secret_missing":     "JWT 密钥未配置",

		"email.verify_code.subject": "【%s】邮箱验证码",
		"email.verify_code.body":    "您正在创建神秘圣诞老人抽签活动。\n\n您的验证码是：%s\n\n验证码 %d 分钟内有效，请勿泄露给他人。",
		"email.participant.subject": "【%s】你的神秘圣诞老人抽签结果",
		"email.participant.body":    "%s，你好！\n\n「%s」（%s）的抽签已完成。\n\n点击下方专属链接查看你要送礼物的对象：\n%s\n\n请妥善保管该链接，不要转发给其他参与者。",
		"email.organizer.subject":   "【%s】抽签完成确认",
		"email.organizer.body":      "「%s」（%s）的抽签已完成，共 %d 名参与者，结果邮件已发出。\n\n管理页面链接（请勿外泄）：\n%s",
		"email.welcome.subject":     "【%s】活动创建成功",
		"email.welcome.body":        "「%s」（%s）创建成功！\n\n管理页面链接（请妥善保管，凭此链接管理活动）：\n%s\n\n添加完参与者后即可发起抽签。",
	},
	LocaleEN: {
		"error.bad_request":  "Invalid request parameters",
		"error.not_found":    "Resource not found",
		"error.unauthorized": "Unauthorized",
		"error.internal":     "Internal server error",

		"error.email_invalid":                 "Invalid email address",
		"error.verification_not_found":        "Verification request not found",
		"error.verification_already_used":     "This verification has already been used",
		"error.verification_not_verified":     "This verification has not been completed yet",
		"error.verification_request_limited":  "Too many verification requests, try again in 1 hour",
		"error.verify_code_incorrect":         "Incorrect code, %d attempts remaining",
		"error.verify_code_expired":           "Code expired, request a new one",
		"error.verify_code_attempts_exceeded": "Too many failed attempts, request a new code",
		"error.verify_code_too_frequent":      "Sending too frequently, try again in %d seconds",
		"error.send_verify_code_failed":       "Failed to send verification code",
		"error.email_recipient_not_found":     "Recipient mailbox not found, check the address",
		"error.email_service_not_configured":  "Email service not configured",

		"error.game_not_found":                "Game not found",
		"error.game_already_drawn":            "The draw has already been performed for this game",
		"error.game_not_drawn":                "The draw has not been performed yet",
		"error.insufficient_participants":     "At least 2 participants are required for a draw",
		"error.draw_failed":                   "Draw failed, please try again",
		"error.participant_not_found":         "Participant not found",
		"error.participant_not_in_game":       "Participant does not belong to this game",
		"error.participant_limit_reached":     "Participant limit reached (%d)",
		"error.participant_locked_after_view": "Participant already viewed their match and can no longer be edited",
		"error.admin_token_invalid":           "Invalid admin token",
		"error.view_token_invalid":            "Invalid or expired link",
		"error.resend_too_frequent":           "Emails were resent recently, try again in 1 hour",
		"error.resend_limit_reached":          "Resend limit reached",
		"error.create_game_failed":            "Failed to create game",
		"error.qr_generate_failed":            "Failed to generate QR code",

		"error.captcha_not_enabled":    "Captcha is not enabled",
		"error.captcha_required":       "Captcha required",
		"error.captcha_invalid":        "Incorrect captcha",
		"error.captcha_config_invalid": "Captcha configuration invalid",
		"error.captcha_verify_failed":  "Captcha verification failed",

		"error.invalid_credentials":    "Incorrect username or password",
		"error.login_too_many":         "Too many login attempts, try again in %d seconds",
		"error.rate_limited":           "Too many requests, try again in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter unavailable",
		"error.password_incorrect":     "Incorrect password",
		"error.password_weak":          "New password must be at least 8 characters",
		"error.auth_header_missing":    "Missing Authorization header",
		"error.auth_header_invalid":    "Malformed Authorization header",
		"error.token_invalid":          "Invalid or expired session token",
		"error.jwt_secret_missing":     "JWT secret not configured",

		"email.verify_code.subject": "[%s] Email verification code",
		"email.verify_code.body":    "You are creating a Secret Santa game.\n\nYour verification code is: %s\n\nThe code is valid for %d minutes. Do not share it.",
		"email.participant.subject": "[%s] Your Secret Santa match",
		"email.participant.body":    "Hi %s!\n\nThe draw for \"%s\" (%s) is complete.\n\nOpen your private link to see who you are gifting:\n%s\n\nKeep this link to yourself - do not forward it to other participants.",
		"email.organizer.subject":   "[%s] Draw completed",
		"email.organizer.body":      "The draw for \"%s\" (%s) is complete: %d participants, result emails sent.\n\nAdmin page link (keep it private):\n%s",
		"email.welcome.subject":     "[%s] Game created",
		"email.welcome.body":        "\"%s\" (%s) was created successfully!\n\nAdmin page link (keep it safe, it is the only way to manage the game):\n%s\n\nAdd participants and then trigger the draw.",
	},
}
