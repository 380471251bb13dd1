package entity

import (
	"time"
)

// SoleSurvivorPick представляет бонусный пик «единственного выжившего» —
// прогноз победителя сезона. У пользователя может быть только один активный
// пик на сезон; смена пика деактивирует предыдущий, история сохраняется.
type SoleSurvivorPick struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index:idx_ss_user_season" json:"user_id"`
	SeasonID     uint       `gorm:"not null;index:idx_ss_user_season" json:"season_id"`
	ContestantID uint       `gorm:"not null;index" json:"contestant_id"`
	IsOriginal   bool       `gorm:"not null;default:false" json:"is_original"` // первый ли это пик пользователя в сезоне
	EpisodesHeld int        `gorm:"not null;default:0" json:"episodes_held"`   // монотонный счётчик, растёт при оценке эпизодов
	Active       bool       `gorm:"not null;default:true;index" json:"active"`
	SelectedAt   time.Time  `gorm:"not null" json:"selected_at"`
	ReplacedAt   *time.Time `gorm:"type:timestamp" json:"replaced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (SoleSurvivorPick) TableName() string {
	return "sole_survivor_picks"
}
