package entity

import (
	"time"
)

// Tribe представляет племя (команду) сезона. Используется только для отображения.
type Tribe struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SeasonID uint   `gorm:"not null;index" json:"season_id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	Color    string `gorm:"size:20;not null;default:''" json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Tribe) TableName() string {
	return "tribes"
}
