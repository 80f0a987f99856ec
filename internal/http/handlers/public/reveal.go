package public

import (
	"github.com/santa-next/internal/http/response"
	"github.com/santa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Reveal 参与者通过查看令牌揭晓自己的抽签对象
func (h *Handler) Reveal(c *gin.Context) {
	result, err := h.GameService.Reveal(c.Param("viewToken"))
	if err != nil {
		rules := []mappedHandlerError{
			{target: service.ErrViewTokenInvalid, code: response.CodeNotFound, key: "error.view_token_invalid"},
			{target: service.ErrGameNotDrawn, code: response.CodeBadRequest, key: "error.game_not_drawn"},
		}
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{
		"game": gin.H{
			"name":      result.Game.Name,
			"game_date": result.Game.GameDate,
			"locale":    result.Game.Locale,
		},
		"giver": gin.H{
			"name":      result.Giver.Name,
			"viewed_at": result.Giver.ViewedAt,
		},
		"receiver": gin.H{
			"name": result.Receiver.Name,
		},
	})
}
