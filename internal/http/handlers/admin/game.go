package admin

import (
	"errors"
	"strconv"

	"github.com/santa-next/internal/http/response"
	"github.com/santa-next/internal/service"

	handlershared "github.com/santa-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// ListGames 分页查询全站活动
func (h *Handler) ListGames(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	keyword := c.Query("keyword")

	games, total, err := h.GameService.ListGames(keyword, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	items := make([]gin.H, 0, len(games))
	for i := range games {
		game := &games[i]
		items = append(items, gin.H{
			"id":              game.ID,
			"name":            game.Name,
			"game_date":       game.GameDate,
			"organizer_email": game.OrganizerEmail,
			"locale":          game.Locale,
			"drawn":           game.Drawn,
			"drawn_at":        game.DrawnAt,
			"created_at":      game.CreatedAt,
		})
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, items, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// DeleteGame 管理员删除活动（连带参与者）
func (h *Handler) DeleteGame(c *gin.Context) {
	if err := h.GameService.AdminDeleteGame(c.Param("gameID")); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			respondError(c, response.CodeNotFound, "error.game_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
