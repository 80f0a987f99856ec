package service

import (
	"errors"
	"strings"
	"time"

	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/constants"
	"github.com/santa-next/internal/logger"
	"github.com/santa-next/internal/matching"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/queue"
	"github.com/santa-next/internal/repository"
	"github.com/santa-next/internal/token"

	"gorm.io/gorm"
)

// GameService 抽签活动服务
type GameService struct {
	cfg             *config.Config
	gameRepo        repository.GameRepository
	participantRepo repository.ParticipantRepository
	resendRepo      repository.EmailResendRepository
	verification    *VerificationService
	emailService    EmailSender
	queueClient     *queue.Client
	engine          *matching.Engine
}

// NewGameService 创建活动服务
func NewGameService(
	cfg *config.Config,
	gameRepo repository.GameRepository,
	participantRepo repository.ParticipantRepository,
	resendRepo repository.EmailResendRepository,
	verification *VerificationService,
	emailService EmailSender,
	queueClient *queue.Client,
) *GameService {
	return &GameService{
		cfg:             cfg,
		gameRepo:        gameRepo,
		participantRepo: participantRepo,
		resendRepo:      resendRepo,
		verification:    verification,
		emailService:    emailService,
		queueClient:     queueClient,
		engine:          matching.NewEngine(),
	}
}

// CreateGame 消费已验证的邮箱验证请求，按其暂存的活动信息落地 Game
func (s *GameService) CreateGame(verificationID string) (*models.Game, error) {
	record, err := s.verification.Consume(verificationID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(record.GameName)
	gameDate := strings.TrimSpace(record.GameDate)
	if name == "" {
		return nil, ErrInvalidGameInput
	}
	if _, err := time.Parse("2006-01-02", gameDate); err != nil {
		return nil, ErrInvalidGameInput
	}

	locale := strings.TrimSpace(record.Locale)
	if locale == "" {
		locale = "zh"
	}
	game := &models.Game{
		ID:             token.NewID(),
		Name:           name,
		GameDate:       gameDate,
		OrganizerEmail: record.Email,
		AdminToken:     token.NewAccessToken(),
		Locale:         locale,
	}
	if err := s.gameRepo.Create(game); err != nil {
		return nil, err
	}

	// 欢迎邮件失败不影响创建结果
	if err := s.emailService.SendWelcome(game.OrganizerEmail, s.gameEmailInput(game), s.AdminLink(game.AdminToken)); err != nil {
		logger.Warnw("welcome_email_send_failed", "game_id", game.ID, "error", err)
	}

	logger.Infow("game_created", "game_id", game.ID, "organizer", game.OrganizerEmail)
	return game, nil
}

// GetGameByAdminToken 根据管理令牌获取活动及参与者
func (s *GameService) GetGameByAdminToken(adminToken string) (*models.Game, []models.Participant, error) {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.participantRepo.ListByGame(game.ID)
	if err != nil {
		return nil, nil, err
	}
	return game, participants, nil
}

// UpdateGameInput 更新活动输入
type UpdateGameInput struct {
	Name     *string
	GameDate *string
}

// UpdateGame 更新活动名称与日期
func (s *GameService) UpdateGame(adminToken string, input UpdateGameInput) (*models.Game, error) {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidGameInput
		}
		game.Name = name
	}
	if input.GameDate != nil {
		date := strings.TrimSpace(*input.GameDate)
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, ErrInvalidGameInput
		}
		game.GameDate = date
	}

	if err := s.gameRepo.Update(game); err != nil {
		return nil, err
	}
	return game, nil
}

// DeleteGame 删除活动及其参与者
func (s *GameService) DeleteGame(adminToken string) error {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return err
	}
	if err := s.gameRepo.Delete(game.ID); err != nil {
		return err
	}
	logger.Infow("game_deleted", "game_id", game.ID)
	return nil
}

// AddParticipant 添加参与者
func (s *GameService) AddParticipant(adminToken, name, email string) (*models.Participant, error) {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return nil, err
	}
	if game.Drawn {
		return nil, ErrGameAlreadyDrawn
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidGameInput
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	maxParticipants := resolveMaxParticipants(s.cfg.Game)
	count, err := s.participantRepo.CountByGame(game.ID)
	if err != nil {
		return nil, err
	}
	if maxParticipants > 0 && count >= int64(maxParticipants) {
		return nil, ErrParticipantLimitReached
	}

	participant := &models.Participant{
		ID:        token.NewID(),
		GameID:    game.ID,
		Name:      name,
		Email:     normalized,
		ViewToken: token.NewAccessToken(),
	}
	if err := s.participantRepo.Create(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// UpdateParticipantInput 更新参与者输入
type UpdateParticipantInput struct {
	Name  *string
	Email *string
}

// UpdateParticipant 更新参与者信息
// 已查看结果的参与者视为配对信息已送达本人，禁止再修改
func (s *GameService) UpdateParticipant(adminToken, participantID string, input UpdateParticipantInput) (*models.Participant, error) {
	_, participant, err := s.requireParticipant(adminToken, participantID)
	if err != nil {
		return nil, err
	}
	if participant.HasViewed {
		return nil, ErrParticipantLockedAfterView
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidGameInput
		}
		participant.Name = name
	}
	if input.Email != nil {
		normalized, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		participant.Email = normalized
	}

	if err := s.participantRepo.Update(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// DeleteParticipant 删除参与者（抽签后删除会破坏配对，禁止）
func (s *GameService) DeleteParticipant(adminToken, participantID string) error {
	game, participant, err := s.requireParticipant(adminToken, participantID)
	if err != nil {
		return err
	}
	if game.Drawn {
		return ErrGameAlreadyDrawn
	}
	return s.participantRepo.Delete(participant.ID)
}

// Draw 执行抽签
// 配对写入与 drawn 标记在同一事务内完成，并发触发只有一个请求能成功
func (s *GameService) Draw(adminToken string) (*models.Game, error) {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return nil, err
	}
	if game.Drawn {
		return nil, ErrGameAlreadyDrawn
	}

	participants, err := s.participantRepo.ListByGame(game.ID)
	if err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	pairs, err := s.engine.Draw(ids)
	if err != nil {
		if errors.Is(err, matching.ErrInsufficientParticipants) {
			return nil, ErrInsufficientParticipants
		}
		return nil, err
	}

	now := time.Now()
	err = s.gameRepo.Transaction(func(tx *gorm.DB) error {
		updated, err := s.gameRepo.MarkDrawnTx(tx, game.ID, now)
		if err != nil {
			return err
		}
		if !updated {
			return ErrGameAlreadyDrawn
		}
		for _, pair := range pairs {
			if err := s.participantRepo.AssignReceiverTx(tx, pair.GiverID, pair.ReceiverID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	game.Drawn = true
	game.DrawnAt = &now
	logger.Infow("game_drawn", "game_id", game.ID, "participants", len(participants))

	s.dispatchDrawnEmails(game, participants)
	return game, nil
}

// dispatchDrawnEmails 抽签完成后发送通知邮件
// 队列可用时异步投递，否则同步发送；发送失败只记录日志
func (s *GameService) dispatchDrawnEmails(game *models.Game, participants []models.Participant) {
	if s.queueClient.Enabled() {
		for _, p := range participants {
			if err := s.queueClient.EnqueueParticipantInvite(queue.ParticipantInvitePayload{ParticipantID: p.ID}); err != nil {
				logger.Errorw("enqueue_participant_invite_failed", "participant_id", p.ID, "error", err)
			}
		}
		if err := s.queueClient.EnqueueOrganizerDrawn(queue.OrganizerDrawnPayload{GameID: game.ID}); err != nil {
			logger.Errorw("enqueue_organizer_drawn_failed", "game_id", game.ID, "error", err)
		}
		return
	}

	for _, p := range participants {
		if err := s.SendParticipantResultEmail(p.ID); err != nil {
			logger.Warnw("participant_result_email_failed", "participant_id", p.ID, "error", err)
		}
	}
	if err := s.SendOrganizerDrawnEmail(game.ID); err != nil {
		logger.Warnw("organizer_drawn_email_failed", "game_id", game.ID, "error", err)
	}
}

// SendParticipantResultEmail 发送参与者抽签结果邮件（同步执行，供队列 worker 复用）
func (s *GameService) SendParticipantResultEmail(participantID string) error {
	participant, err := s.participantRepo.GetByID(participantID)
	if err != nil {
		return err
	}
	if participant == nil {
		return ErrParticipantNotFound
	}
	game, err := s.gameRepo.GetByID(participant.GameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if !game.Drawn {
		return ErrGameNotDrawn
	}

	err = s.emailService.SendParticipantResult(participant.Email, participant.Name, s.gameEmailInput(game), s.ViewLink(participant.ViewToken))
	if err != nil {
		return err
	}
	if err := s.participantRepo.MarkEmailSent(participant.ID, time.Now()); err != nil {
		logger.Warnw("mark_email_sent_failed", "participant_id", participant.ID, "error", err)
	}
	return nil
}

// SendOrganizerDrawnEmail 发送组织者抽签完成确认邮件（同步执行，供队列 worker 复用）
func (s *GameService) SendOrganizerDrawnEmail(gameID string) error {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if !game.Drawn {
		return ErrGameNotDrawn
	}
	count, err := s.participantRepo.CountByGame(game.ID)
	if err != nil {
		return err
	}
	return s.emailService.SendOrganizerDrawn(game.OrganizerEmail, s.gameEmailInput(game), int(count), s.AdminLink(game.AdminToken))
}

// RevealResult 揭晓结果
type RevealResult struct {
	Game     *models.Game
	Giver    *models.Participant
	Receiver *models.Participant
}

// Reveal 根据查看令牌揭晓抽签结果，首次查看后参与者进入锁定状态
func (s *GameService) Reveal(viewToken string) (*RevealResult, error) {
	participant, err := s.participantRepo.GetByViewToken(strings.TrimSpace(viewToken))
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrViewTokenInvalid
	}

	game, err := s.gameRepo.GetByID(participant.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrViewTokenInvalid
	}
	if !game.Drawn || participant.AssignedToID == nil {
		return nil, ErrGameNotDrawn
	}

	receiver, err := s.participantRepo.GetByID(*participant.AssignedToID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrParticipantNotFound
	}

	if !participant.HasViewed {
		now := time.Now()
		if err := s.participantRepo.MarkViewed(participant.ID, now); err != nil {
			logger.Warnw("mark_viewed_failed", "participant_id", participant.ID, "error", err)
		} else {
			participant.HasViewed = true
			participant.ViewedAt = &now
		}
	}

	return &RevealResult{Game: game, Giver: participant, Receiver: receiver}, nil
}

// ResendAll 重发全部参与者结果邮件（群发）
func (s *GameService) ResendAll(adminToken string) (int, error) {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return 0, err
	}
	if !game.Drawn {
		return 0, ErrGameNotDrawn
	}

	if err := s.checkResendQuota(
		func(since time.Time) (int64, error) {
			return s.resendRepo.CountByGameSince(game.ID, constants.ResendTypeBulk, since)
		},
		func() (int64, error) {
			return s.resendRepo.CountByGame(game.ID, constants.ResendTypeBulk)
		},
	); err != nil {
		return 0, err
	}

	participants, err := s.participantRepo.ListByGame(game.ID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, p := range participants {
		if err := s.SendParticipantResultEmail(p.ID); err != nil {
			logger.Warnw("resend_participant_email_failed", "participant_id", p.ID, "error", err)
			continue
		}
		sent++
	}

	if err := s.resendRepo.Create(&models.EmailResendLog{
		GameID:     game.ID,
		ResendType: constants.ResendTypeBulk,
	}); err != nil {
		logger.Warnw("resend_log_create_failed", "game_id", game.ID, "error", err)
	}

	logger.Infow("resend_all_completed", "game_id", game.ID, "sent", sent, "total", len(participants))
	return sent, nil
}

// ResendParticipant 重发单个参与者的结果邮件
func (s *GameService) ResendParticipant(adminToken, participantID string) error {
	game, participant, err := s.requireParticipant(adminToken, participantID)
	if err != nil {
		return err
	}
	if !game.Drawn {
		return ErrGameNotDrawn
	}

	if err := s.checkResendQuota(
		func(since time.Time) (int64, error) {
			return s.resendRepo.CountByParticipantSince(participant.ID, since)
		},
		func() (int64, error) {
			return s.resendRepo.CountByParticipant(participant.ID)
		},
	); err != nil {
		return err
	}

	if err := s.SendParticipantResultEmail(participant.ID); err != nil {
		return err
	}

	if err := s.resendRepo.Create(&models.EmailResendLog{
		GameID:        game.ID,
		ParticipantID: &participant.ID,
		ResendType:    constants.ResendTypeIndividual,
	}); err != nil {
		logger.Warnw("resend_log_create_failed", "participant_id", participant.ID, "error", err)
	}
	return nil
}

// ListGames 站点管理端分页查询活动
func (s *GameService) ListGames(keyword string, page, pageSize int) ([]models.Game, int64, error) {
	return s.gameRepo.List(strings.TrimSpace(keyword), page, pageSize)
}

// AdminDeleteGame 站点管理端删除活动
func (s *GameService) AdminDeleteGame(gameID string) error {
	game, err := s.gameRepo.GetByID(strings.TrimSpace(gameID))
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if err := s.gameRepo.Delete(game.ID); err != nil {
		return err
	}
	logger.Infow("game_deleted_by_admin", "game_id", game.ID)
	return nil
}

// GetParticipant 校验管理令牌后返回指定参与者
func (s *GameService) GetParticipant(adminToken, participantID string) (*models.Game, *models.Participant, error) {
	return s.requireParticipant(adminToken, participantID)
}

// ViewLink 拼接参与者揭晓链接
func (s *GameService) ViewLink(viewToken string) string {
	return joinLink(s.cfg.App.BaseURL, "/view/", viewToken)
}

// AdminLink 拼接组织者管理链接
func (s *GameService) AdminLink(adminToken string) string {
	return joinLink(s.cfg.App.BaseURL, "/manage/", adminToken)
}

func (s *GameService) gameEmailInput(game *models.Game) GameEmailInput {
	return GameEmailInput{
		GameName: game.Name,
		GameDate: game.GameDate,
		Locale:   game.Locale,
	}
}

func (s *GameService) requireGameByAdminToken(adminToken string) (*models.Game, error) {
	trimmed := strings.TrimSpace(adminToken)
	if trimmed == "" {
		return nil, ErrAdminTokenInvalid
	}
	game, err := s.gameRepo.GetByAdminToken(trimmed)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrAdminTokenInvalid
	}
	return game, nil
}

func (s *GameService) requireParticipant(adminToken, participantID string) (*models.Game, *models.Participant, error) {
	game, err := s.requireGameByAdminToken(adminToken)
	if err != nil {
		return nil, nil, err
	}
	participant, err := s.participantRepo.GetByID(strings.TrimSpace(participantID))
	if err != nil {
		return nil, nil, err
	}
	if participant == nil {
		return nil, nil, ErrParticipantNotFound
	}
	if participant.GameID != game.ID {
		return nil, nil, ErrParticipantNotInGame
	}
	return game, participant, nil
}

func (s *GameService) checkResendQuota(countSince func(time.Time) (int64, error), countTotal func() (int64, error)) error {
	hourlyLimit := resolveResendHourlyLimit(s.cfg.Game)
	if hourlyLimit > 0 {
		recent, err := countSince(time.Now().Add(-time.Hour))
		if err != nil {
			return err
		}
		if recent >= int64(hourlyLimit) {
			return ErrResendTooFrequent
		}
	}

	lifetimeLimit := resolveResendLifetimeLimit(s.cfg.Game)
	if lifetimeLimit > 0 {
		total, err := countTotal()
		if err != nil {
			return err
		}
		if total >= int64(lifetimeLimit) {
			return ErrResendLimitReached
		}
	}
	return nil
}

func joinLink(baseURL, path, tokenValue string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + path + tokenValue
}

func resolveMaxParticipants(cfg config.GameConfig) int {
	if cfg.MaxParticipants <= 0 {
		return 100
	}
	return cfg.MaxParticipants
}

func resolveResendHourlyLimit(cfg config.GameConfig) int {
	if cfg.ResendHourlyLimit < 0 {
		return 0
	}
	if cfg.ResendHourlyLimit == 0 {
		return 1
	}
	return cfg.ResendHourlyLimit
}

func resolveResendLifetimeLimit(cfg config.GameConfig) int {
	if cfg.ResendLifetimeLimit < 0 {
		return 0
	}
	if cfg.ResendLifetimeLimit == 0 {
		return 3
	}
	return cfg.ResendLifetimeLimit
}
