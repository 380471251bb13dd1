package entity

import (
	"time"
)

// Season представляет сезон шоу. Активным должен быть не более одного сезона
// одновременно (частичный уникальный индекс в миграции).
type Season struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"size:100;not null" json:"name"`
	Active               bool      `gorm:"not null;default:false" json:"active"`
	TeamSize             int       `gorm:"not null;default:2" json:"team_size"` // K — размер команды драфта
	DraftDeadline        time.Time `gorm:"not null" json:"draft_deadline"`
	SoleSurvivorDeadline time.Time `gorm:"not null" json:"sole_survivor_deadline"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Season) TableName() string {
	return "seasons"
}

// DraftOpen проверяет, открыт ли ещё драфт (дедлайн не прошёл)
func (s *Season) DraftOpen(now time.Time) bool {
	return now.Before(s.DraftDeadline)
}

// SoleSurvivorOpen проверяет, можно ли ещё менять пик sole survivor
func (s *Season) SoleSurvivorOpen(now time.Time) bool {
	return now.Before(s.SoleSurvivorDeadline)
}
