package entity

import (
	"time"
)

// DraftPick представляет пик драфта — участника, занимающего один из K слотов
// команды пользователя. Пики не перезаписываются: при замене старый пик
// деактивируется (ReplacedAt), новый создаётся отдельной записью.
// Инвариант: активные пики пользователя в сезоне — это ровно K самых
// высокорейтинговых невыбывших участников его рейтинга.
type DraftPick struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index:idx_picks_user_season" json:"user_id"`
	SeasonID       uint       `gorm:"not null;index:idx_picks_user_season" json:"season_id"`
	Slot           int        `gorm:"not null" json:"slot"` // 1..K
	ContestantID   uint       `gorm:"not null;index" json:"contestant_id"`
	SourcePosition int        `gorm:"not null" json:"source_position"` // позиция рейтинга, породившая пик
	Active         bool       `gorm:"not null;default:true;index" json:"active"`
	PickedAt       time.Time  `gorm:"not null" json:"picked_at"`
	ReplacedAt     *time.Time `gorm:"type:timestamp" json:"replaced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (DraftPick) TableName() string {
	return "draft_picks"
}
