package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/service"
)

// AdminHandler обрабатывает админские запросы: ведение сезонов, составов,
// начисление очков и финализация эпизодов
type AdminHandler struct {
	seasonService     *service.SeasonService
	contestantService *service.ContestantService
	scoringService    *service.ScoringService
}

// NewAdminHandler создает новый админский обработчик
func NewAdminHandler(
	seasonService *service.SeasonService,
	contestantService *service.ContestantService,
	scoringService *service.ScoringService,
) *AdminHandler {
	return &AdminHandler{
		seasonService:     seasonService,
		contestantService: contestantService,
		scoringService:    scoringService,
	}
}

// CreateSeasonRequest представляет запрос на создание сезона
type CreateSeasonRequest struct {
	Name                 string    `json:"name" binding:"required,min=3,max=100"`
	TeamSize             int       `json:"team_size" binding:"omitempty,min=1,max=10"`
	DraftDeadline        time.Time `json:"draft_deadline" binding:"required"`
	SoleSurvivorDeadline time.Time `json:"sole_survivor_deadline" binding:"required"`
}

// CreateSeason создает новый сезон
func (h *AdminHandler) CreateSeason(c *gin.Context) {
	var req CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	season := &entity.Season{
		Name:                 req.Name,
		TeamSize:             req.TeamSize,
		DraftDeadline:        req.DraftDeadline,
		SoleSurvivorDeadline: req.SoleSurvivorDeadline,
	}
	if err := h.seasonService.CreateSeason(season); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, season)
}

// UpdateSeason обновляет параметры сезона
func (h *AdminHandler) UpdateSeason(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	season := &entity.Season{
		ID:                   seasonID,
		Name:                 req.Name,
		TeamSize:             req.TeamSize,
		DraftDeadline:        req.DraftDeadline,
		SoleSurvivorDeadline: req.SoleSurvivorDeadline,
	}
	if err := h.seasonService.UpdateSeason(season); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

// ActivateSeason делает сезон активным
func (h *AdminHandler) ActivateSeason(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	if err := h.seasonService.ActivateSeason(seasonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Season activated"})
}

// CreateEpisodeRequest представляет запрос на создание эпизода
type CreateEpisodeRequest struct {
	Number  int        `json:"number" binding:"required,min=1"`
	AirDate *time.Time `json:"air_date"`
}

// CreateEpisode создает эпизод сезона
func (h *AdminHandler) CreateEpisode(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	episode := &entity.Episode{
		SeasonID: seasonID,
		Number:   req.Number,
		AirDate:  req.AirDate,
	}
	if err := h.seasonService.CreateEpisode(episode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, episode)
}

// CreateTribeRequest представляет запрос на создание племени
type CreateTribeRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=50"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// CreateTribe создает племя сезона
func (h *AdminHandler) CreateTribe(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req CreateTribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tribe := &entity.Tribe{
		SeasonID: seasonID,
		Name:     req.Name,
		Color:    req.Color,
	}
	if err := h.seasonService.CreateTribe(tribe); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tribe)
}

// ContestantRequest представляет запрос на создание/обновление участника
type ContestantRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Age        int    `json:"age" binding:"omitempty,min=0,max=120"`
	Hometown   string `json:"hometown" binding:"omitempty,max=100"`
	Occupation string `json:"occupation" binding:"omitempty,max=100"`
	PhotoURL   string `json:"photo_url" binding:"omitempty,max=255"`
	TribeID    *uint  `json:"tribe_id"`
}

// CreateContestant создает участника сезона
func (h *AdminHandler) CreateContestant(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req ContestantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contestant := &entity.Contestant{
		SeasonID:   seasonID,
		Name:       req.Name,
		Age:        req.Age,
		Hometown:   req.Hometown,
		Occupation: req.Occupation,
		PhotoURL:   req.PhotoURL,
		TribeID:    req.TribeID,
	}
	if err := h.contestantService.CreateContestant(contestant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contestant)
}

// UpdateContestant обновляет профиль участника
func (h *AdminHandler) UpdateContestant(c *gin.Context) {
	contestantID, ok := uintFromContext(c, "contestantID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contestant id"})
		return
	}

	existing, err := h.contestantService.GetContestant(contestantID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ContestantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contestant := &entity.Contestant{
		ID:         contestantID,
		SeasonID:   existing.SeasonID,
		Name:       req.Name,
		Age:        req.Age,
		Hometown:   req.Hometown,
		Occupation: req.Occupation,
		PhotoURL:   req.PhotoURL,
		TribeID:    req.TribeID,
	}
	if err := h.contestantService.UpdateContestant(contestant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestant)
}

// SetEliminationRequest представляет запрос на смену статуса выбывания
type SetEliminationRequest struct {
	Eliminated    bool `json:"eliminated"`
	EpisodeNumber *int `json:"episode_number"`
}

// SetElimination выставляет статус выбывания участника
func (h *AdminHandler) SetElimination(c *gin.Context) {
	contestantID, ok := uintFromContext(c, "contestantID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contestant id"})
		return
	}

	var req SetEliminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scoringService.SetElimination(contestantID, req.Eliminated, req.EpisodeNumber); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Elimination status updated"})
}

// CategoryRequest представляет запрос на создание/обновление категории очков
type CategoryRequest struct {
	Code   string `json:"code" binding:"required,min=2,max=50"`
	Name   string `json:"name" binding:"required,min=2,max=100"`
	Points int    `json:"points" binding:"required"`
}

// CreateCategory создает категорию очков сезона
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &entity.ScoreCategory{
		SeasonID: seasonID,
		Code:     req.Code,
		Name:     req.Name,
		Points:   req.Points,
	}
	if err := h.scoringService.CreateCategory(category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory обновляет категорию очков
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := uintFromContext(c, "categoryID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &entity.ScoreCategory{
		ID:       categoryID,
		SeasonID: seasonID,
		Code:     req.Code,
		Name:     req.Name,
		Points:   req.Points,
	}
	if err := h.scoringService.UpdateCategory(category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetCategories возвращает категории очков сезона
func (h *AdminHandler) GetCategories(c *gin.Context) {
	seasonID, ok := uintFromContext(c, "seasonID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season id"})
		return
	}

	categories, err := h.scoringService.GetCategories(seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// RecordEventRequest представляет запрос на запись события начисления очков
type RecordEventRequest struct {
	ContestantID uint `json:"contestant_id" binding:"required"`
	CategoryID   uint `json:"category_id" binding:"required"`
}

// RecordEvent записывает событие начисления очков в эпизоде
func (h *AdminHandler) RecordEvent(c *gin.Context) {
	episodeID, ok := uintFromContext(c, "episodeID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode id"})
		return
	}
	adminID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.scoringService.RecordEvent(episodeID, req.ContestantID, req.CategoryID, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEpisodeEvents возвращает эпизод вместе с событиями начисления очков
func (h *AdminHandler) GetEpisodeEvents(c *gin.Context) {
	episodeID, ok := uintFromContext(c, "episodeID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode id"})
		return
	}

	episode, err := h.seasonService.GetEpisode(episodeID)
	if err != nil {
		respondError(c, err)
		return
	}

	events, err := h.scoringService.GetEpisodeEvents(episodeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"episode": episode,
		"events":  events,
	})
}

// FinalizeEpisode подводит итоги эпизода
func (h *AdminHandler) FinalizeEpisode(c *gin.Context) {
	episodeID, ok := uintFromContext(c, "episodeID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode id"})
		return
	}

	if err := h.scoringService.FinalizeEpisode(episodeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Episode finalized"})
}
