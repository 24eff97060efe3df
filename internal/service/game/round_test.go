package game

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"unscramble-be/internal/words"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBank(t *testing.T, list ...string) *words.Bank {
	t.Helper()

	bank, err := words.NewBank(list)
	require.NoError(t, err)

	return bank
}

func seeded() Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func sortedLetters(s string) string {
	letters := strings.Split(s, "")
	sort.Strings(letters)

	return strings.Join(letters, "")
}

func TestScramble_NeverEqualsOriginal(t *testing.T) {
	rng := seeded()

	for _, w := range words.DefaultBank().Words() {
		for i := 0; i < 20; i++ {
			scrambled := Scramble(w, rng)

			require.NotEqual(t, w, scrambled)
			require.Equal(t, sortedLetters(w), sortedLetters(scrambled), "must be a permutation of %q", w)
		}
	}
}

func TestScramble_TwoLetterWordIsSwapped(t *testing.T) {
	assert.Equal(t, "ba", Scramble("ab", seeded()))
	assert.Equal(t, "ba", Scramble("ab", nil))
}

func TestScramble_UnscramblableWordReturnedAsIs(t *testing.T) {
	assert.Equal(t, "aaa", Scramble("aaa", seeded()))
	assert.Equal(t, "", Scramble("", seeded()))
}

func TestNewRound_Validation(t *testing.T) {
	bank := newTestBank(t, "cat", "dog")

	_, err := NewRound(bank, 0, 20, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxWords)

	_, err = NewRound(bank, 3, 20, nil)
	assert.ErrorIs(t, err, ErrBankTooSmall)
}

func TestNewRound_DrawsFirstWord(t *testing.T) {
	round, err := NewRound(newTestBank(t, "cat", "dog", "bird"), 3, 20, seeded())
	require.NoError(t, err)

	assert.Equal(t, 1, round.WordCount)
	assert.Equal(t, 0, round.Score)
	assert.Contains(t, []string{"cat", "dog", "bird"}, round.CurrentWord)
	assert.NotEqual(t, round.CurrentWord, round.ScrambledWord)
	assert.Len(t, round.UsedWords, 1)
}

func TestRound_WordsNeverRepeatWithinRound(t *testing.T) {
	list := []string{"cat", "dog", "bird", "fish", "lion"}
	round, err := NewRound(newTestBank(t, list...), len(list), 20, seeded())
	require.NoError(t, err)

	seen := map[string]bool{round.CurrentWord: true}
	for round.NextWord() {
		require.False(t, seen[round.CurrentWord], "word %q reused", round.CurrentWord)
		seen[round.CurrentWord] = true
	}

	assert.Len(t, seen, len(list))
	assert.Equal(t, len(list), round.WordCount)
	assert.True(t, round.IsFinished())
}

func TestRound_EndsAfterMaxWords(t *testing.T) {
	round, err := NewRound(words.DefaultBank(), 10, 20, seeded())
	require.NoError(t, err)

	advanced := 0
	for round.NextWord() {
		advanced++
	}

	assert.Equal(t, 9, advanced)
	assert.Equal(t, 10, round.WordCount)
	assert.False(t, round.NextWord())
	assert.Equal(t, 10, round.WordCount)
}

func TestRound_IsUserWordCorrect(t *testing.T) {
	round, err := NewRound(newTestBank(t, "cat"), 1, 20, seeded())
	require.NoError(t, err)

	assert.False(t, round.IsUserWordCorrect("dog"))
	assert.Equal(t, 0, round.Score)

	assert.False(t, round.IsUserWordCorrect(round.ScrambledWord))
	assert.Equal(t, 0, round.Score)

	assert.True(t, round.IsUserWordCorrect("CaT"))
	assert.Equal(t, 20, round.Score)

	assert.True(t, round.IsUserWordCorrect("  cat\n"))
	assert.Equal(t, 40, round.Score)
}

func TestRound_ScoreAndCountMonotonic(t *testing.T) {
	round, err := NewRound(words.DefaultBank(), 10, 20, seeded())
	require.NoError(t, err)

	prevScore, prevCount := round.Score, round.WordCount
	for i := 0; i < 30; i++ {
		if i%3 == 0 {
			round.IsUserWordCorrect(round.CurrentWord)
		} else {
			round.IsUserWordCorrect("definitely-wrong")
		}

		round.NextWord()

		require.GreaterOrEqual(t, round.Score, prevScore)
		require.GreaterOrEqual(t, round.WordCount, prevCount)
		prevScore, prevCount = round.Score, round.WordCount
	}
}

func TestRound_Reinitialize(t *testing.T) {
	round, err := NewRound(newTestBank(t, "cat", "dog"), 2, 20, seeded())
	require.NoError(t, err)

	round.IsUserWordCorrect(round.CurrentWord)
	round.NextWord()
	require.Equal(t, 2, round.WordCount)
	require.Equal(t, 20, round.Score)

	round.Reinitialize()

	assert.Equal(t, 0, round.Score)
	assert.Equal(t, 1, round.WordCount)
	assert.Len(t, round.UsedWords, 1)
	assert.False(t, round.IsFinished())
}
