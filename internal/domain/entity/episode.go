package entity

import (
	"time"
)

// Episode представляет эпизод сезона
type Episode struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	SeasonID uint       `gorm:"not null;index;uniqueIndex:idx_season_episode" json:"season_id"`
	Number   int        `gorm:"not null;uniqueIndex:idx_season_episode" json:"number"`
	AirDate  *time.Time `gorm:"type:date" json:"air_date,omitempty"`
	Scored   bool       `gorm:"not null;default:false" json:"scored"`
	Locked   bool       `gorm:"not null;default:false" json:"locked"`
	ScoredAt *time.Time `gorm:"type:timestamp" json:"scored_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Episode) TableName() string {
	return "episodes"
}
