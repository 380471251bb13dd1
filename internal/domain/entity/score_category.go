package entity

import (
	"time"
)

// ScoreCategory представляет правило начисления очков, заданное администратором
// (например: "выиграл испытание на иммунитет" = 5 очков).
type ScoreCategory struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SeasonID uint   `gorm:"not null;index;uniqueIndex:idx_category_code" json:"season_id"`
	Code     string `gorm:"size:50;not null;uniqueIndex:idx_category_code" json:"code"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Points   int    `gorm:"not null" json:"points"` // может быть отрицательным (штрафы)

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ScoreCategory) TableName() string {
	return "score_categories"
}
