package entity

import (
	"fmt"
	"net/url"
	"time"
)

// Contestant представляет участника шоу в рамках одного сезона
type Contestant struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	SeasonID             uint   `gorm:"not null;index" json:"season_id"`
	Name                 string `gorm:"size:100;not null" json:"name"`
	Age                  int    `gorm:"not null;default:0" json:"age"`
	Hometown             string `gorm:"size:100;not null;default:''" json:"hometown"`
	Occupation           string `gorm:"size:100;not null;default:''" json:"occupation"`
	PhotoURL             string `gorm:"size:255;not null;default:''" json:"photo_url"`
	TribeID              *uint  `gorm:"index" json:"tribe_id,omitempty"`
	Eliminated           bool   `gorm:"not null;default:false;index" json:"eliminated"`
	EliminatedEpisode    *int   `json:"eliminated_episode,omitempty"`
	TotalPoints          int    `gorm:"not null;default:0" json:"total_points"`
	EpisodesParticipated int    `gorm:"not null;default:0" json:"episodes_participated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Contestant) TableName() string {
	return "contestants"
}

// DisplayPhotoURL возвращает URL фото участника либо сгенерированную
// placeholder-картинку с инициалами, если фото не загружено.
func (c *Contestant) DisplayPhotoURL() string {
	if c.PhotoURL != "" {
		return c.PhotoURL
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&size=128", url.QueryEscape(c.Name))
}
