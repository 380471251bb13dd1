package dto

import (
	"time"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
)

// RankingEntryDTO — одна позиция рейтинга в ответе API
type RankingEntryDTO struct {
	Position     int  `json:"position"`
	ContestantID uint `json:"contestant_id"`
}

// RankingResponse — рейтинг пользователя целиком
type RankingResponse struct {
	SeasonID  uint              `json:"season_id"`
	Entries   []RankingEntryDTO `json:"entries"`
	Submitted bool              `json:"submitted"`
}

// NewRankingResponse преобразует записи рейтинга в DTO ответа
func NewRankingResponse(seasonID uint, entries []entity.RankingEntry) *RankingResponse {
	resp := &RankingResponse{
		SeasonID: seasonID,
		Entries:  make([]RankingEntryDTO, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = RankingEntryDTO{
			Position:     e.Position,
			ContestantID: e.ContestantID,
		}
		if e.SubmittedAt != nil {
			resp.Submitted = true
		}
	}
	return resp
}

// DraftPickDTO — пик драфта в ответе API
type DraftPickDTO struct {
	Slot           int        `json:"slot"`
	ContestantID   uint       `json:"contestant_id"`
	SourcePosition int        `json:"source_position"`
	Active         bool       `json:"active"`
	PickedAt       time.Time  `json:"picked_at"`
	ReplacedAt     *time.Time `json:"replaced_at,omitempty"`
}

// TeamResponse — команда пользователя: активные пики, очередь замен, история
type TeamResponse struct {
	SeasonID            uint           `json:"season_id"`
	ActivePicks         []DraftPickDTO `json:"active_picks"`
	ReplacementQueue    []uint         `json:"replacement_queue"`
	History             []DraftPickDTO `json:"history"`
	HasSoleSurvivorPick bool           `json:"has_sole_survivor_pick"`
}

// NewDraftPickDTOs преобразует пики в DTO
func NewDraftPickDTOs(picks []entity.DraftPick) []DraftPickDTO {
	dtos := make([]DraftPickDTO, len(picks))
	for i, p := range picks {
		dtos[i] = DraftPickDTO{
			Slot:           p.Slot,
			ContestantID:   p.ContestantID,
			SourcePosition: p.SourcePosition,
			Active:         p.Active,
			PickedAt:       p.PickedAt,
			ReplacedAt:     p.ReplacedAt,
		}
	}
	return dtos
}

// SoleSurvivorResponse — пик sole survivor в ответе API
type SoleSurvivorResponse struct {
	ContestantID uint       `json:"contestant_id"`
	IsOriginal   bool       `json:"is_original"`
	EpisodesHeld int        `json:"episodes_held"`
	Active       bool       `json:"active"`
	SelectedAt   time.Time  `json:"selected_at"`
	ReplacedAt   *time.Time `json:"replaced_at,omitempty"`
}

// NewSoleSurvivorResponse преобразует пик sole survivor в DTO
func NewSoleSurvivorResponse(pick *entity.SoleSurvivorPick) *SoleSurvivorResponse {
	return &SoleSurvivorResponse{
		ContestantID: pick.ContestantID,
		IsOriginal:   pick.IsOriginal,
		EpisodesHeld: pick.EpisodesHeld,
		Active:       pick.Active,
		SelectedAt:   pick.SelectedAt,
		ReplacedAt:   pick.ReplacedAt,
	}
}
