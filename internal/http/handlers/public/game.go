package public

import (
	"errors"
	"net/http"

	"github.com/santa-next/internal/http/response"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

var gameAccessErrorRules = []mappedHandlerError{
	{target: service.ErrAdminTokenInvalid, code: response.CodeUnauthorized, key: "error.admin_token_invalid"},
	{target: service.ErrGameNotFound, code: response.CodeNotFound, key: "error.game_not_found"},
	{target: service.ErrInvalidGameInput, code: response.CodeBadRequest, key: "error.bad_request"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrParticipantNotFound, code: response.CodeNotFound, key: "error.participant_not_found"},
	{target: service.ErrParticipantNotInGame, code: response.CodeNotFound, key: "error.participant_not_in_game"},
	{target: service.ErrGameAlreadyDrawn, code: response.CodeBadRequest, key: "error.game_already_drawn"},
	{target: service.ErrGameNotDrawn, code: response.CodeBadRequest, key: "error.game_not_drawn"},
	{target: service.ErrParticipantLockedAfterView, code: response.CodeBadRequest, key: "error.participant_locked_after_view"},
}

// CreateGameRequest 创建活动请求
// 活动信息已随验证请求暂存，这里只需要已消费凭证。
type CreateGameRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
}

// CreateGame 消费已验证的邮箱验证请求并创建活动
func (h *Handler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	game, err := h.GameService.CreateGame(req.VerificationID)
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrVerificationNotFound, code: response.CodeNotFound, key: "error.verification_not_found"},
			{target: service.ErrVerificationNotVerified, code: response.CodeBadRequest, key: "error.verification_not_verified"},
			{target: service.ErrVerificationAlreadyUsed, code: response.CodeBadRequest, key: "error.verification_already_used"},
		}, gameAccessErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.create_game_failed")
		return
	}

	response.Success(c, gin.H{
		"game":        gameView(game),
		"admin_token": game.AdminToken,
		"admin_link":  h.GameService.AdminLink(game.AdminToken),
	})
}

// GetGame 组织者视角获取活动详情
func (h *Handler) GetGame(c *gin.Context) {
	game, participants, err := h.GameService.GetGameByAdminToken(c.Param("adminToken"))
	if err != nil {
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"game":         gameView(game),
		"participants": participantViews(participants),
	})
}

// UpdateGameRequest 更新活动请求
type UpdateGameRequest struct {
	Name     *string `json:"name"`
	GameDate *string `json:"game_date"`
}

// UpdateGame 更新活动信息
func (h *Handler) UpdateGame(c *gin.Context) {
	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	game, err := h.GameService.UpdateGame(c.Param("adminToken"), service.UpdateGameInput{
		Name:     req.Name,
		GameDate: req.GameDate,
	})
	if err != nil {
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"game": gameView(game)})
}

// DeleteGame 删除活动
func (h *Handler) DeleteGame(c *gin.Context) {
	if err := h.GameService.DeleteGame(c.Param("adminToken")); err != nil {
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddParticipantRequest 添加参与者请求
type AddParticipantRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// AddParticipant 添加参与者
func (h *Handler) AddParticipant(c *gin.Context) {
	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	participant, err := h.GameService.AddParticipant(c.Param("adminToken"), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrParticipantLimitReached) {
			respondErrorf(c, response.CodeBadRequest, "error.participant_limit_reached", nil, h.Config.Game.MaxParticipants)
			return
		}
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"participant": participantView(*participant)})
}

// UpdateParticipantRequest 更新参与者请求
type UpdateParticipantRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateParticipant 更新参与者信息
func (h *Handler) UpdateParticipant(c *gin.Context) {
	var req UpdateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	participant, err := h.GameService.UpdateParticipant(c.Param("adminToken"), c.Param("participantID"), service.UpdateParticipantInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"participant": participantView(*participant)})
}

// DeleteParticipant 删除参与者
func (h *Handler) DeleteParticipant(c *gin.Context) {
	if err := h.GameService.DeleteParticipant(c.Param("adminToken"), c.Param("participantID")); err != nil {
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// DrawGame 执行抽签
func (h *Handler) DrawGame(c *gin.Context) {
	game, err := h.GameService.Draw(c.Param("adminToken"))
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrInsufficientParticipants, code: response.CodeBadRequest, key: "error.insufficient_participants"},
		}, gameAccessErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.draw_failed")
		return
	}
	response.Success(c, gin.H{"game": gameView(game)})
}

// ResendAllEmails 群发重发全部参与者结果邮件
func (h *Handler) ResendAllEmails(c *gin.Context) {
	sent, err := h.GameService.ResendAll(c.Param("adminToken"))
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrResendTooFrequent, code: response.CodeTooManyRequests, key: "error.resend_too_frequent"},
			{target: service.ErrResendLimitReached, code: response.CodeTooManyRequests, key: "error.resend_limit_reached"},
		}, gameAccessErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"sent": sent})
}

// ResendParticipantEmail 重发单个参与者的结果邮件
func (h *Handler) ResendParticipantEmail(c *gin.Context) {
	err := h.GameService.ResendParticipant(c.Param("adminToken"), c.Param("participantID"))
	if err != nil {
		rules := append([]mappedHandlerError{
			{target: service.ErrResendTooFrequent, code: response.CodeTooManyRequests, key: "error.resend_too_frequent"},
			{target: service.ErrResendLimitReached, code: response.CodeTooManyRequests, key: "error.resend_limit_reached"},
			{target: service.ErrEmailRecipientRejected, code: response.CodeBadRequest, key: "error.email_recipient_not_found"},
		}, gameAccessErrorRules...)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// ParticipantQRCode 参与者揭晓链接二维码
func (h *Handler) ParticipantQRCode(c *gin.Context) {
	_, participant, err := h.GameService.GetParticipant(c.Param("adminToken"), c.Param("participantID"))
	if err != nil {
		respondWithMappedError(c, err, gameAccessErrorRules, response.CodeInternal, "error.internal")
		return
	}

	png, err := qrcode.Encode(h.GameService.ViewLink(participant.ViewToken), qrcode.Medium, 256)
	if err != nil {
		respondError(c, response.CodeInternal, "error.qr_generate_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func gameView(game *models.Game) gin.H {
	return gin.H{
		"id":              game.ID,
		"name":            game.Name,
		"game_date":       game.GameDate,
		"organizer_email": game.OrganizerEmail,
		"locale":          game.Locale,
		"drawn":           game.Drawn,
		"drawn_at":        game.DrawnAt,
		"created_at":      game.CreatedAt,
	}
}

func participantView(p models.Participant) gin.H {
	return gin.H{
		"id":            p.ID,
		"name":          p.Name,
		"email":         p.Email,
		"has_viewed":    p.HasViewed,
		"viewed_at":     p.ViewedAt,
		"email_sent_at": p.EmailSentAt,
		"created_at":    p.CreatedAt,
	}
}

func participantViews(participants []models.Participant) []gin.H {
	views := make([]gin.H, 0, len(participants))
	for _, p := range participants {
		views = append(views, participantView(p))
	}
	return views
}
