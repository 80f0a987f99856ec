package provider

import (
	"github.com/santa-next/internal/cache"
	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/logger"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/queue"
	"github.com/santa-next/internal/repository"
	"github.com/santa-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo             repository.AdminRepository
	GameRepo              repository.GameRepository
	ParticipantRepo       repository.ParticipantRepository
	EmailVerificationRepo repository.EmailVerificationRepository
	EmailResendRepo       repository.EmailResendRepository

	// Services
	AuthService         *service.AuthService
	EmailService        *service.EmailService
	VerificationService *service.VerificationService
	GameService         *service.GameService
	CaptchaService      *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.GameRepo = repository.NewGameRepository(db)
	c.ParticipantRepo = repository.NewParticipantRepository(db)
	c.EmailVerificationRepo = repository.NewEmailVerificationRepository(db)
	c.EmailResendRepo = repository.NewEmailResendRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email, c.Config.App.Name)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.VerificationService = service.NewVerificationService(c.Config, c.EmailVerificationRepo, c.EmailService)
	c.GameService = service.NewGameService(
		c.Config,
		c.GameRepo,
		c.ParticipantRepo,
		c.EmailResendRepo,
		c.VerificationService,
		c.EmailService,
		c.QueueClient,
	)
}
