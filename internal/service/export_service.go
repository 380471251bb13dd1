package service

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/survivor-fantasy-api/internal/domain/entity"
	"github.com/yourusername/survivor-fantasy-api/internal/domain/repository"
)

// ExportService строит Excel-выгрузки турнирной таблицы для админов
type ExportService struct {
	seasonRepo       repository.SeasonRepository
	episodeRepo      repository.EpisodeRepository
	episodeScoreRepo repository.EpisodeScoreRepository
	contestantRepo   repository.ContestantRepository
	draftPickRepo    repository.DraftPickRepository
	soleSurvivorRepo repository.SoleSurvivorRepository
}

// NewExportService создает новый сервис выгрузок
func NewExportService(
	seasonRepo repository.SeasonRepository,
	episodeRepo repository.EpisodeRepository,
	episodeScoreRepo repository.EpisodeScoreRepository,
	contestantRepo repository.ContestantRepository,
	draftPickRepo repository.DraftPickRepository,
	soleSurvivorRepo repository.SoleSurvivorRepository,
) *ExportService {
	return &ExportService{
		seasonRepo:       seasonRepo,
		episodeRepo:      episodeRepo,
		episodeScoreRepo: episodeScoreRepo,
		contestantRepo:   contestantRepo,
		draftPickRepo:    draftPickRepo,
		soleSurvivorRepo: soleSurvivorRepo,
	}
}

// BuildStandingsWorkbook собирает книгу с турнирной таблицей сезона:
// лист Standings — места и тоталы, лист Episodes — поэпизодная разбивка.
// Используем StreamWriter, как и в остальных выгрузках: лиги бывают большими.
func (s *ExportService) BuildStandingsWorkbook(seasonID uint) (*excelize.File, string, error) {
	season, err := s.seasonRepo.GetByID(seasonID)
	if err != nil {
		return nil, "", err
	}

	totals, err := s.episodeScoreRepo.SumBySeason(seasonID)
	if err != nil {
		return nil, "", err
	}
	entries := AssignRanks(totals)

	f := excelize.NewFile()

	standingsSheet := "Standings"
	f.SetSheetName("Sheet1", standingsSheet)
	sw, err := f.NewStreamWriter(standingsSheet)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := []interface{}{"Rank", "Player", "Total Points", "Sole Survivor Bonus"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ExportService] Ошибка записи заголовков standings: %v", err)
	}
	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{e.Rank, e.Username, e.TotalPoints, e.SoleSurvivorBonus}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ExportService] Ошибка записи строки standings %d: %v", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to flush standings sheet: %w", err)
	}

	if err := s.appendEpisodeSheet(f, seasonID, entries); err != nil {
		f.Close()
		return nil, "", err
	}

	if err := s.appendPicksSheet(f, season, entries); err != nil {
		f.Close()
		return nil, "", err
	}

	filename := fmt.Sprintf("standings-%s", sanitizeFilename(season.Name))
	return f, filename, nil
}

// appendEpisodeSheet добавляет лист с разбивкой очков по эпизодам
func (s *ExportService) appendEpisodeSheet(f *excelize.File, seasonID uint, entries []LeaderboardEntry) error {
	episodes, err := s.episodeRepo.GetBySeason(seasonID)
	if err != nil {
		return err
	}

	sheet := "Episodes"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create episodes sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := []interface{}{"Player"}
	for _, ep := range episodes {
		headers = append(headers, fmt.Sprintf("E%d", ep.Number))
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ExportService] Ошибка записи заголовков episodes: %v", err)
	}

	for i, e := range entries {
		scores, err := s.episodeScoreRepo.GetByUser(e.UserID, seasonID)
		if err != nil {
			return err
		}
		byEpisode := make(map[uint]int, len(scores))
		for _, sc := range scores {
			byEpisode[sc.EpisodeID] = sc.Total()
		}

		row := []interface{}{e.Username}
		for _, ep := range episodes {
			row = append(row, byEpisode[ep.ID])
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ExportService] Ошибка записи строки episodes %d: %v", i+2, err)
		}
	}

	return sw.Flush()
}

// appendPicksSheet добавляет лист с активными пиками и пиком sole survivor
// каждого игрока на момент выгрузки
func (s *ExportService) appendPicksSheet(f *excelize.File, season *entity.Season, entries []LeaderboardEntry) error {
	picks, err := s.draftPickRepo.GetActiveBySeason(season.ID)
	if err != nil {
		return err
	}
	ssPicks, err := s.soleSurvivorRepo.GetActiveBySeason(season.ID)
	if err != nil {
		return err
	}
	contestants, err := s.contestantRepo.GetBySeason(season.ID)
	if err != nil {
		return err
	}

	names := make(map[uint]string, len(contestants))
	for _, c := range contestants {
		names[c.ID] = c.Name
	}
	bySlot := make(map[uint]map[int]string)
	for _, p := range picks {
		if bySlot[p.UserID] == nil {
			bySlot[p.UserID] = make(map[int]string, season.TeamSize)
		}
		bySlot[p.UserID][p.Slot] = names[p.ContestantID]
	}
	ssByUser := make(map[uint]string, len(ssPicks))
	for _, p := range ssPicks {
		ssByUser[p.UserID] = names[p.ContestantID]
	}

	sheet := "Picks"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create picks sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := []interface{}{"Player"}
	for slot := 1; slot <= season.TeamSize; slot++ {
		headers = append(headers, fmt.Sprintf("Slot %d", slot))
	}
	headers = append(headers, "Sole Survivor")
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ExportService] Ошибка записи заголовков picks: %v", err)
	}

	for i, e := range entries {
		row := []interface{}{e.Username}
		for slot := 1; slot <= season.TeamSize; slot++ {
			row = append(row, bySlot[e.UserID][slot])
		}
		row = append(row, ssByUser[e.UserID])
		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ExportService] Ошибка записи строки picks %d: %v", i+2, err)
		}
	}

	return sw.Flush()
}

// sanitizeFilename оставляет в имени файла только безопасные символы
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "season"
	}
	return string(out)
}
