package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// ScoreCategoryRepo реализует repository.ScoreCategoryRepository
type ScoreCategoryRepo struct {
	db *gorm.DB
}

// NewScoreCategoryRepo создает новый репозиторий категорий очков
func NewScoreCategoryRepo(db *gorm.DB) *ScoreCategoryRepo {
	return &ScoreCategoryRepo{db: db}
}

// Create создает новую категорию
func (r *ScoreCategoryRepo) Create(category *entity.ScoreCategory) error {
	return r.db.Create(category).Error
}

// Update обновляет категорию
func (r *ScoreCategoryRepo) Update(category *entity.ScoreCategory) error {
	return r.db.Save(category).Error
}

// GetByID возвращает категорию по ID
func (r *ScoreCategoryRepo) GetByID(id uint) (*entity.ScoreCategory, error) {
	var category entity.ScoreCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetBySeason возвращает категории сезона
func (r *ScoreCategoryRepo) GetBySeason(seasonID uint) ([]entity.ScoreCategory, error) {
	var categories []entity.ScoreCategory
	err := r.db.Where("season_id = ?", seasonID).Order("id").Find(&categories).Error
	return categories, err
}

// ScoringEventRepo реализует repository.ScoringEventRepository
type ScoringEventRepo struct {
	db *gorm.DB
}

// NewScoringEventRepo создает новый репозиторий событий начисления очков
func NewScoringEventRepo(db *gorm.DB) *ScoringEventRepo {
	return &ScoringEventRepo{db: db}
}

// Create создает новое событие
func (r *ScoringEventRepo) Create(event *entity.ScoringEvent) error {
	return r.db.Create(event).Error
}

// GetByEpisode возвращает события эпизода
func (r *ScoringEventRepo) GetByEpisode(episodeID uint) ([]entity.ScoringEvent, error) {
	var events []entity.ScoringEvent
	err := r.db.Where("episode_id = ?", episodeID).Order("id").Find(&events).Error
	return events, err
}

// SumPointsByContestant возвращает сумму очков каждого участника за эпизод
func (r *ScoringEventRepo) SumPointsByContestant(episodeID uint) (map[uint]int, error) {
	type row struct {
		ContestantID uint
		Total        int
	}
	var rows []row
	err := r.db.Model(&entity.ScoringEvent{}).
		Select("contestant_id, SUM(points) as total").
		Where("episode_id = ?", episodeID).
		Group("contestant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]int, len(rows))
	for _, r := range rows {
		totals[r.ContestantID] = r.Total
	}
	return totals, nil
}

// EpisodeScoreRepo реализует repository.EpisodeScoreRepository
type EpisodeScoreRepo struct {
	db *gorm.DB
}

// NewEpisodeScoreRepo создает новый репозиторий поэпизодных очков
func NewEpisodeScoreRepo(db *gorm.DB) *EpisodeScoreRepo {
	return &EpisodeScoreRepo{db: db}
}

// CreateBatch создаёт записи очков за эпизод внутри переданной транзакции
func (r *EpisodeScoreRepo) CreateBatch(tx *gorm.DB, scores []entity.EpisodeScore) error {
	if len(scores) == 0 {
		return nil
	}
	return tx.Create(&scores).Error
}

// GetByUser возвращает поэпизодные очки пользователя в сезоне
func (r *EpisodeScoreRepo) GetByUser(userID, seasonID uint) ([]entity.EpisodeScore, error) {
	var scores []entity.EpisodeScore
	err := r.db.
		Joins("JOIN episodes ON episodes.id = episode_scores.episode_id").
		Where("episode_scores.user_id = ? AND episodes.season_id = ?", userID, seasonID).
		Order("episodes.number").
		Find(&scores).Error
	return scores, err
}

// SumBySeason возвращает суммарные очки всех пользователей сезона.
// Пользователи без записей очков тоже попадают в выборку (LEFT JOIN с нулями),
// чтобы лидерборд показывал весь состав лиги, а не только уже заработавших.
func (r *EpisodeScoreRepo) SumBySeason(seasonID uint) ([]repository.UserSeasonTotal, error) {
	var totals []repository.UserSeasonTotal
	err := r.db.Table("users").
		Select(`
			users.id as user_id,
			users.username,
			users.profile_picture,
			COALESCE(SUM(es.pick_points + es.sole_survivor_bonus), 0) as total_points,
			COALESCE(SUM(es.sole_survivor_bonus), 0) as sole_survivor_bonus
		`).
		Joins(`LEFT JOIN (
			SELECT episode_scores.* FROM episode_scores
			JOIN episodes ON episodes.id = episode_scores.episode_id
			WHERE episodes.season_id = ?
		) es ON es.user_id = users.id`, seasonID).
		Group("users.id, users.username, users.profile_picture").
		Scan(&totals).Error
	return totals, err
}
