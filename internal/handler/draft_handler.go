package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survivor-fantasy-api/internal/handler/dto"
	"github.com/yourusername/survivor-fantasy-api/internal/service"
)

// DraftHandler обрабатывает запросы драфта: рейтинг, команда, sole survivor
type DraftHandler struct {
	rankingService      *service.RankingService
	draftService        *service.DraftService
	soleSurvivorService *service.SoleSurvivorService
}

// NewDraftHandler создает новый обработчик драфта
func NewDraftHandler(
	rankingService *service.RankingService,
	draftService *service.DraftService,
	soleSurvivorService *service.SoleSurvivorService,
) *DraftHandler {
	return &DraftHandler{
		rankingService:      rankingService,
		draftService:        draftService,
		soleSurvivorService: soleSurvivorService,
	}
}

// GetRanking возвращает рейтинг текущего пользователя в сезоне
func (h *DraftHandler) GetRanking(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	entries, err := h.rankingService.GetRanking(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRankingResponse(seasonID, entries))
}

// ReplaceRankingRequest представляет запрос на полную замену рейтинга.
// Order — ID участников в порядке предпочтения, индекс 0 = позиция 1.
type ReplaceRankingRequest struct {
	Order []uint `json:"order" binding:"required,min=1"`
}

// ReplaceRanking заменяет рейтинг пользователя новым порядком
func (h *DraftHandler) ReplaceRanking(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req ReplaceRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rankingService.ReplaceRanking(userID, seasonID, req.Order); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.rankingService.GetRanking(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRankingResponse(seasonID, entries))
}

// SubmitRanking фиксирует явную отправку рейтинга пользователем
func (h *DraftHandler) SubmitRanking(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	if err := h.rankingService.SubmitRanking(userID, seasonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ranking submitted"})
}

// GetTeam возвращает команду пользователя с очередью замен
func (h *DraftHandler) GetTeam(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	team, err := h.draftService.GetTeam(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}

	hasSoleSurvivor, err := h.soleSurvivorService.HasActivePick(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.TeamResponse{
		SeasonID:            seasonID,
		ActivePicks:         dto.NewDraftPickDTOs(team.ActivePicks),
		ReplacementQueue:    team.ReplacementQueue,
		History:             dto.NewDraftPickDTOs(team.History),
		HasSoleSurvivorPick: hasSoleSurvivor,
	})
}

// GetSoleSurvivor возвращает активный пик sole survivor пользователя
func (h *DraftHandler) GetSoleSurvivor(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	pick, err := h.soleSurvivorService.GetPick(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSoleSurvivorResponse(pick))
}

// SelectSoleSurvivorRequest представляет запрос на выбор sole survivor
type SelectSoleSurvivorRequest struct {
	ContestantID uint `json:"contestant_id" binding:"required"`
}

// SelectSoleSurvivor устанавливает пик sole survivor пользователя
func (h *DraftHandler) SelectSoleSurvivor(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req SelectSoleSurvivorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pick, err := h.soleSurvivorService.Select(userID, seasonID, req.ContestantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSoleSurvivorResponse(pick))
}

// GetSoleSurvivorHistory возвращает историю пиков sole survivor пользователя
func (h *DraftHandler) GetSoleSurvivorHistory(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	history, err := h.soleSurvivorService.GetHistory(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]*dto.SoleSurvivorResponse, len(history))
	for i := range history {
		views[i] = dto.NewSoleSurvivorResponse(&history[i])
	}
	c.JSON(http.StatusOK, views)
}
