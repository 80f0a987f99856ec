package router

import (
	"fmt"

	"github.com/santa-next/internal/cache"
	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/constants"
	adminhandlers "github.com/santa-next/internal/http/handlers/admin"
	publichandlers "github.com/santa-next/internal/http/handlers/public"
	"github.com/santa-next/internal/logger"
	"github.com/santa-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := cache.Prefix()
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	verifyRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:verify", redisPrefix),
		WindowSeconds: cfg.Security.VerifyRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.VerifyRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.SiteConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 邮箱验证接口
		verification := apiV1.Group("/verifications")
		{
			verification.POST("", RateLimitMiddleware(redisClient, verifyRule, KeyByIPAndJSONField("email")), publicHandler.RequestVerification)
			verification.POST("/verify", publicHandler.VerifyCode)
			verification.POST("/resend", publicHandler.ResendVerification)
		}

		// 活动创建与组织者管理接口（凭管理令牌访问）
		apiV1.POST("/games", publicHandler.CreateGame)
		games := apiV1.Group("/games/:adminToken")
		{
			games.GET("", publicHandler.GetGame)
			games.PUT("", publicHandler.UpdateGame)
			games.DELETE("", publicHandler.DeleteGame)
			games.POST("/draw", publicHandler.DrawGame)
			games.POST("/resend-emails", publicHandler.ResendAllEmails)
			games.POST("/participants", publicHandler.AddParticipant)
			games.PUT("/participants/:participantID", publicHandler.UpdateParticipant)
			games.DELETE("/participants/:participantID", publicHandler.DeleteParticipant)
			games.POST("/participants/:participantID/resend-email", publicHandler.ResendParticipantEmail)
			games.GET("/participants/:participantID/qrcode", publicHandler.ParticipantQRCode)
		}

		// 参与者揭晓接口（凭查看令牌访问）
		apiV1.GET("/view/:viewToken", publicHandler.Reveal)

		// 站点管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/me", adminHandler.Me)
				authorized.PUT("/password", adminHandler.ChangePassword)
				authorized.GET("/games", adminHandler.ListGames)
				authorized.DELETE("/games/:gameID", adminHandler.DeleteGame)
			}
		}
	}

	// 健康检查
	r.GET("/health", publicHandler.Health)

	return r
}
