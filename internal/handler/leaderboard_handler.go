package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survivor-fantasy-api/internal/service"
)

// LeaderboardHandler обрабатывает запросы лидерборда и выгрузок
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	exportService      *service.ExportService
}

// NewLeaderboardHandler создает новый обработчик лидерборда
func NewLeaderboardHandler(
	leaderboardService *service.LeaderboardService,
	exportService *service.ExportService,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		exportService:      exportService,
	}
}

// GetLeaderboard возвращает страницу лидерборда сезона
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}

	leaderboard, err := h.leaderboardService.GetLeaderboard(seasonID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaderboard)
}

// GetMyBreakdown возвращает поэпизодную разбивку очков текущего пользователя
func (h *LeaderboardHandler) GetMyBreakdown(c *gin.Context) {
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

	scores, err := h.leaderboardService.GetUserBreakdown(userID, seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}

// ExportStandings выгружает турнирную таблицу сезона в xlsx
func (h *LeaderboardHandler) ExportStandings(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	f, filename, err := h.exportService.BuildStandingsWorkbook(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи xlsx в ответ: %v", err)
	}
}
