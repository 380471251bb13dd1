package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survivor-fantasy-api/internal/service"
)

// SeasonHandler обрабатывает публичные запросы о сезонах
type SeasonHandler struct {
	seasonService     *service.SeasonService
	contestantService *service.ContestantService
}

// NewSeasonHandler создает новый обработчик сезонов
func NewSeasonHandler(
	seasonService *service.SeasonService,
	contestantService *service.ContestantService,
) *SeasonHandler {
	return &SeasonHandler{
		seasonService:     seasonService,
		contestantService: contestantService,
	}
}

// ListSeasons возвращает все сезоны
func (h *SeasonHandler) ListSeasons(c *gin.Context) {
	seasons, err := h.seasonService.ListSeasons()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seasons)
}

// GetActiveSeason возвращает текущий активный сезон
func (h *SeasonHandler) GetActiveSeason(c *gin.Context) {
	season, err := h.seasonService.GetActiveSeason()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

// GetSeason возвращает сезон по ID
func (h *SeasonHandler) GetSeason(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	season, err := h.seasonService.GetSeason(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

// GetContestants возвращает участников сезона
func (h *SeasonHandler) GetContestants(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	contestants, err := h.contestantService.GetContestants(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Пустые фото подменяем сгенерированными аватарами
	type contestantView struct {
		ID                   uint   `json:"id"`
		SeasonID             uint   `json:"season_id"`
		Name                 string `json:"name"`
		Age                  int    `json:"age"`
		Hometown             string `json:"hometown"`
		Occupation           string `json:"occupation"`
		PhotoURL             string `json:"photo_url"`
		TribeID              *uint  `json:"tribe_id,omitempty"`
		Eliminated           bool   `json:"eliminated"`
		EliminatedEpisode    *int   `json:"eliminated_episode,omitempty"`
		TotalPoints          int    `json:"total_points"`
		EpisodesParticipated int    `json:"episodes_participated"`
	}

	views := make([]contestantView, len(contestants))
	for i, ct := range contestants {
		views[i] = contestantView{
			ID:                   ct.ID,
			SeasonID:             ct.SeasonID,
			Name:                 ct.Name,
			Age:                  ct.Age,
			Hometown:             ct.Hometown,
			Occupation:           ct.Occupation,
			PhotoURL:             ct.DisplayPhotoURL(),
			TribeID:              ct.TribeID,
			Eliminated:           ct.Eliminated,
			EliminatedEpisode:    ct.EliminatedEpisode,
			TotalPoints:          ct.TotalPoints,
			EpisodesParticipated: ct.EpisodesParticipated,
		}
	}
	c.JSON(http.StatusOK, views)
}

// GetTribes возвращает племена сезона
func (h *SeasonHandler) GetTribes(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	tribes, err := h.seasonService.GetTribes(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tribes)
}

// GetEpisodes возвращает эпизоды сезона
func (h *SeasonHandler) GetEpisodes(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	episodes, err := h.seasonService.GetEpisodes(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, episodes)
}
