package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// RankingRepo реализует repository.RankingRepository
type RankingRepo struct {
	db *gorm.DB
}

// NewRankingRepo создает новый репозиторий рейтингов
func NewRankingRepo(db *gorm.DB) *RankingRepo {
	return &RankingRepo{db: db}
}

// GetByUserSeason возвращает записи рейтинга пользователя по возрастанию позиции
func (r *RankingRepo) GetByUserSeason(userID, seasonID uint) ([]entity.RankingEntry, error) {
	var entries []entity.RankingEntry
	err := r.db.Where("user_id = ? AND season_id = ?", userID, seasonID).
		Order("position").
		Find(&entries).Error
	return entries, err
}

// ReplaceSet атомарно заменяет весь рейтинг пользователя в сезоне.
// Выполняется внутри переданной транзакции под advisory lock (LockUserSeason),
// поэтому конкурирующие перезаписи одной пары (user, season) сериализуются и
// инвариант «перестановка 1..N без дубликатов» не может быть порван гонкой.
func (r *RankingRepo) ReplaceSet(tx *gorm.DB, userID, seasonID uint, entries []entity.RankingEntry) error {
	// Сначала удаляем старый набор целиком, затем вставляем новый — единой
	// транзакцией, а не двумя независимыми запросами.
	if err := tx.Where("user_id = ? AND season_id = ?", userID, seasonID).
		Delete(&entity.RankingEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}

// MarkSubmitted проставляет отметку о явной отправке рейтинга.
// Отметка только для аудита: редактирование после неё не блокируется,
// рейтинг замораживает дедлайн сезона.
func (r *RankingRepo) MarkSubmitted(userID, seasonID uint) error {
	return r.db.Model(&entity.RankingEntry{}).
		Where("user_id = ? AND season_id = ? AND submitted_at IS NULL", userID, seasonID).
		Update("submitted_at", time.Now()).
		Error
}

// UserIDsWithRanking возвращает ID всех пользователей, имеющих рейтинг в сезоне
func (r *RankingRepo) UserIDsWithRanking(seasonID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.Model(&entity.RankingEntry{}).
		Where("season_id = ?", seasonID).
		Distinct().
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// LockUserSeason берёт транзакционный advisory lock на пару (user, season).
// Лок снимается автоматически при коммите или откате транзакции.
func (r *RankingRepo) LockUserSeason(tx *gorm.DB, userID, seasonID uint) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(userID), int32(seasonID)).Error
}
