// Package draftengine реализует чистый движок назначения пиков драфта.
//
// Движок — детерминированная функция от полного снимка состояния: рейтинга
// пользователя и статусов выбывания. Он ничего не знает о БД и не имеет
// побочных эффектов; диффом старых/новых пиков и записью аудита занимается
// вызывающая сторона (DraftService). Пересчёт всегда идёт от полного снимка,
// инкрементальных правок ранее выданных пиков нет — поэтому повторный вызов
// с тем же входом всегда даёт тот же результат.
package draftengine

import (
	"fmt"
	"sort"

	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

// Validate проверяет предусловие движка: ranking покрывает каждый участника
// из contestantIDs ровно один раз, а позиции образуют перестановку 1..N.
// Нарушение — ErrMalformedRanking или ErrUnknownContestant с деталями.
// Молчаливый «ремонт» запрещён: кривой рейтинг означает баг в коде редактирования
// выше по стеку, и его надо показать, а не спрятать.
func Validate(ranking map[uint]int, contestantIDs []uint) error {
	if len(ranking) != len(contestantIDs) {
		return fmt.Errorf("%w: ranking has %d entries, season has %d contestants",
			apperrors.ErrMalformedRanking, len(ranking), len(contestantIDs))
	}

	known := make(map[uint]struct{}, len(contestantIDs))
	for _, id := range contestantIDs {
		known[id] = struct{}{}
	}

	n := len(contestantIDs)
	seenPositions := make(map[int]uint, n)
	for id, pos := range ranking {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: ranking references contestant %d not in season", apperrors.ErrUnknownContestant, id)
		}
		if pos < 1 || pos > n {
			return fmt.Errorf("%w: contestant %d has position %d, want 1..%d",
				apperrors.ErrMalformedRanking, id, pos, n)
		}
		if other, dup := seenPositions[pos]; dup {
			return fmt.Errorf("%w: contestants %d and %d share position %d",
				apperrors.ErrMalformedRanking, other, id, pos)
		}
		seenPositions[pos] = id
	}

	for _, id := range contestantIDs {
		if _, ok := ranking[id]; !ok {
			return fmt.Errorf("%w: ranking is missing contestant %d", apperrors.ErrMalformedRanking, id)
		}
	}

	return nil
}

// ComputeActivePicks возвращает упорядоченный список активных пиков: первые k
// невыбывших участников рейтинга по возрастанию позиции. Если невыбывших
// меньше k, возвращается столько, сколько есть — «короткая команда» в конце
// сезона легальна и ошибкой не является. Пустой пул тоже легален (финал).
func ComputeActivePicks(ranking map[uint]int, eliminated map[uint]bool, k int) ([]uint, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: team size must be positive, got %d", apperrors.ErrValidation, k)
	}
	ordered, err := orderByPosition(ranking, eliminated)
	if err != nil {
		return nil, err
	}

	picks := make([]uint, 0, k)
	for _, id := range ordered {
		if eliminated[id] {
			continue
		}
		picks = append(picks, id)
		if len(picks) == k {
			break
		}
	}
	return picks, nil
}

// ComputeReplacementQueue возвращает упорядоченную очередь замен: всех
// невыбывших участников, не входящих в activePicks, по возрастанию позиции.
// Именно в этом порядке будущие вакансии будут заполняться — выбывание
// активного пика продвигает голову очереди, и только её.
func ComputeReplacementQueue(ranking map[uint]int, eliminated map[uint]bool, activePicks []uint) ([]uint, error) {
	ordered, err := orderByPosition(ranking, eliminated)
	if err != nil {
		return nil, err
	}

	picked := make(map[uint]struct{}, len(activePicks))
	for _, id := range activePicks {
		picked[id] = struct{}{}
	}

	queue := make([]uint, 0, len(ordered))
	for _, id := range ordered {
		if eliminated[id] {
			continue
		}
		if _, ok := picked[id]; ok {
			continue
		}
		queue = append(queue, id)
	}
	return queue, nil
}

// orderByPosition сортирует участников рейтинга по возрастанию позиции.
// Дубликаты позиций отвергаются: тай-брейков у инъективного рейтинга нет
// по построению, и их появление — нарушение предусловия, а не повод угадывать.
func orderByPosition(ranking map[uint]int, eliminated map[uint]bool) ([]uint, error) {
	for id := range eliminated {
		if _, ok := ranking[id]; !ok {
			return nil, fmt.Errorf("%w: elimination status references contestant %d absent from ranking",
				apperrors.ErrUnknownContestant, id)
		}
	}

	seen := make(map[int]uint, len(ranking))
	ids := make([]uint, 0, len(ranking))
	for id, pos := range ranking {
		if other, dup := seen[pos]; dup {
			return nil, fmt.Errorf("%w: contestants %d and %d share position %d",
				apperrors.ErrMalformedRanking, other, id, pos)
		}
		seen[pos] = id
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ranking[ids[i]] < ranking[ids[j]]
	})
	return ids, nil
}
