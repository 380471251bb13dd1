package draftengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/survivor-fantasy-api/internal/pkg/errors"
)

const (
	idA uint = 1
	idB uint = 2
	idC uint = 3
	idD uint = 4
)

func noEliminations(ids ...uint) map[uint]bool {
	m := make(map[uint]bool, len(ids))
	for _, id := range ids {
		m[id] = false
	}
	return m
}

func TestComputeActivePicks_Basic(t *testing.T) {
	// Arrange: рейтинг A > B > C, никто не выбыл, K=2
	ranking := map[uint]int{idA: 1, idB: 2, idC: 3}
	eliminated := noEliminations(idA, idB, idC)

	// Act
	picks, err := ComputeActivePicks(ranking, eliminated, 2)

	// Assert: активные пики — два лучших по рейтингу, в порядке рейтинга
	require.NoError(t, err)
	assert.Equal(t, []uint{idA, idB}, picks)

	queue, err := ComputeReplacementQueue(ranking, eliminated, picks)
	require.NoError(t, err)
	assert.Equal(t, []uint{idC}, queue, "очередь замен — оставшиеся невыбывшие по рейтингу")
}

func TestComputeActivePicks_PromotionAfterElimination(t *testing.T) {
	// Arrange: B (активный пик) выбывает
	ranking := map[uint]int{idA: 1, idB: 2, idC: 3}
	eliminated := map[uint]bool{idA: false, idB: true, idC: false}

	// Act
	picks, err := ComputeActivePicks(ranking, eliminated, 2)

	// Assert: на место B продвигается C — голова старой очереди замен
	require.NoError(t, err)
	assert.Equal(t, []uint{idA, idC}, picks)

	queue, err := ComputeReplacementQueue(ranking, eliminated, picks)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestComputeActivePicks_ShortTeam(t *testing.T) {
	// Arrange: A и B выбыли, остался один C при K=2
	ranking := map[uint]int{idA: 1, idB: 2, idC: 3}
	eliminated := map[uint]bool{idA: true, idB: true, idC: false}

	// Act
	picks, err := ComputeActivePicks(ranking, eliminated, 2)

	// Assert: короткая команда — легальное состояние, не ошибка
	require.NoError(t, err)
	assert.Equal(t, []uint{idC}, picks)
}

func TestComputeActivePicks_EmptyPool(t *testing.T) {
	// Arrange: все выбыли (финал сезона)
	ranking := map[uint]int{idA: 1, idB: 2}
	eliminated := map[uint]bool{idA: true, idB: true}

	// Act
	picks, err := ComputeActivePicks(ranking, eliminated, 2)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, picks, "пустой пул — легальное состояние, не ошибка")
}

func TestComputeActivePicks_DuplicatePosition(t *testing.T) {
	// Arrange: дубликат позиции 1 — предусловие инъективности нарушено
	ranking := map[uint]int{idA: 1, idB: 1, idC: 3}
	eliminated := noEliminations(idA, idB, idC)

	// Act
	picks, err := ComputeActivePicks(ranking, eliminated, 2)

	// Assert: ошибка без частичного результата
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedRanking)
	assert.Nil(t, picks)
}

func TestComputeActivePicks_UnknownContestantInEliminations(t *testing.T) {
	// Arrange: статус выбывания ссылается на участника вне рейтинга
	ranking := map[uint]int{idA: 1, idB: 2}
	eliminated := map[uint]bool{idA: false, idB: false, idD: true}

	// Act
	_, err := ComputeActivePicks(ranking, eliminated, 2)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnknownContestant)
}

func TestComputeActivePicks_InvalidTeamSize(t *testing.T) {
	ranking := map[uint]int{idA: 1}
	_, err := ComputeActivePicks(ranking, noEliminations(idA), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComputeActivePicks_Determinism(t *testing.T) {
	// Два вызова с одинаковым входом дают одинаковый результат
	ranking := map[uint]int{idA: 3, idB: 1, idC: 4, idD: 2}
	eliminated := map[uint]bool{idA: false, idB: true, idC: false, idD: false}

	first, err := ComputeActivePicks(ranking, eliminated, 2)
	require.NoError(t, err)
	second, err := ComputeActivePicks(ranking, eliminated, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []uint{idD, idA}, first, "порядок — по возрастанию позиции рейтинга")
}

func TestMonotonicReplacement(t *testing.T) {
	// Центральный контракт движка: выбывание одного активного пика заменяет
	// его ровно головой старой очереди замен, новая очередь — хвост старой.
	ranking := map[uint]int{idA: 1, idB: 2, idC: 3, idD: 4}
	eliminated := map[uint]bool{idA: false, idB: false, idC: false, idD: false}

	oldPicks, err := ComputeActivePicks(ranking, eliminated, 2)
	require.NoError(t, err)
	oldQueue, err := ComputeReplacementQueue(ranking, eliminated, oldPicks)
	require.NoError(t, err)
	require.Equal(t, []uint{idA, idB}, oldPicks)
	require.Equal(t, []uint{idC, idD}, oldQueue)

	// Act: выбывает A, больше ничего не меняется
	eliminated[idA] = true
	newPicks, err := ComputeActivePicks(ranking, eliminated, 2)
	require.NoError(t, err)
	newQueue, err := ComputeReplacementQueue(ranking, eliminated, newPicks)
	require.NoError(t, err)

	// Assert: (oldPicks \ {A}) ∪ {head(oldQueue)}, очередь — tail(oldQueue)
	assert.ElementsMatch(t, []uint{idB, oldQueue[0]}, newPicks)
	assert.Equal(t, oldQueue[1:], newQueue)
}

func TestPicksAndQueueDisjointCoverPool(t *testing.T) {
	// Пики и очередь не пересекаются, вместе покрывают всех невыбывших
	ranking := map[uint]int{idA: 2, idB: 4, idC: 1, idD: 3}
	eliminated := map[uint]bool{idA: false, idB: true, idC: false, idD: false}

	picks, err := ComputeActivePicks(ranking, eliminated, 2)
	require.NoError(t, err)
	queue, err := ComputeReplacementQueue(ranking, eliminated, picks)
	require.NoError(t, err)

	union := append(append([]uint{}, picks...), queue...)
	assert.ElementsMatch(t, []uint{idA, idC, idD}, union)
	assert.Len(t, picks, 2, "len(picks) == min(K, невыбывшие)")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		ranking     map[uint]int
		contestants []uint
		wantErr     error
	}{
		{"чистая перестановка", map[uint]int{idA: 1, idB: 2, idC: 3}, []uint{idA, idB, idC}, nil},
		{"один участник", map[uint]int{idA: 1}, []uint{idA}, nil},
		{"дубликат позиции", map[uint]int{idA: 1, idB: 1, idC: 3}, []uint{idA, idB, idC}, apperrors.ErrMalformedRanking},
		{"пропущен участник", map[uint]int{idA: 1, idB: 2}, []uint{idA, idB, idC}, apperrors.ErrMalformedRanking},
		{"позиция вне диапазона", map[uint]int{idA: 1, idB: 5}, []uint{idA, idB}, apperrors.ErrMalformedRanking},
		{"позиция меньше единицы", map[uint]int{idA: 0, idB: 1}, []uint{idA, idB}, apperrors.ErrMalformedRanking},
		{"чужой участник в рейтинге", map[uint]int{idA: 1, idD: 2}, []uint{idA, idB}, apperrors.ErrUnknownContestant},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.ranking, tc.contestants)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
