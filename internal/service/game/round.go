package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"unscramble-be/internal/words"
)

var (
	ErrInvalidMaxWords = errors.New("每局词数必须大于 0")
	ErrBankTooSmall    = errors.New("词库单词数少于每局词数")
)

// Rand 抽象随机源，*rand.Rand 满足该接口，测试时可注入固定种子
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Round 保存一局游戏的全部状态：当前词、已用词、得分与词数。
// 同一局内得分和词数只增不减，单词不会重复出现。
type Round struct {
	CurrentWord   string
	ScrambledWord string
	UsedWords     map[string]struct{}
	Score         int
	WordCount     int

	MaxNoOfWords  int
	ScoreIncrease int

	bank *words.Bank
	rng  Rand
}

func NewRound(bank *words.Bank, maxNoOfWords, scoreIncrease int, rng Rand) (*Round, error) {
	if maxNoOfWords < 1 {
		return nil, ErrInvalidMaxWords
	}

	if bank.Len() < maxNoOfWords {
		return nil, fmt.Errorf("%w: %d < %d", ErrBankTooSmall, bank.Len(), maxNoOfWords)
	}

	if rng == nil {
		rng = globalRand{}
	}

	r := &Round{
		MaxNoOfWords:  maxNoOfWords,
		ScoreIncrease: scoreIncrease,
		bank:          bank,
		rng:           rng,
	}

	r.Reinitialize()

	return r, nil
}

// Reinitialize 清空得分、词数和已用词，并抽取第一个单词
func (r *Round) Reinitialize() {
	r.Score = 0
	r.WordCount = 0
	r.UsedWords = make(map[string]struct{}, r.MaxNoOfWords)

	r.drawWord()
}

// NextWord 在未达到每局词数上限时抽取下一个单词并返回 true，否则返回 false
func (r *Round) NextWord() bool {
	if r.WordCount >= r.MaxNoOfWords {
		return false
	}

	r.drawWord()

	return true
}

// IsUserWordCorrect 忽略大小写与首尾空白比较，猜对时加分
func (r *Round) IsUserWordCorrect(playerWord string) bool {
	if !strings.EqualFold(strings.TrimSpace(playerWord), r.CurrentWord) {
		return false
	}

	r.Score += r.ScoreIncrease

	return true
}

func (r *Round) IsFinished() bool {
	return r.WordCount >= r.MaxNoOfWords
}

func (r *Round) drawWord() {
	// 只在未使用过的单词中抽取，避免重复抽取时的无界重试
	candidates := make([]int, 0, r.bank.Len()-len(r.UsedWords))
	for i := 0; i < r.bank.Len(); i++ {
		if _, used := r.UsedWords[r.bank.At(i)]; !used {
			candidates = append(candidates, i)
		}
	}

	word := r.bank.At(candidates[r.rng.IntN(len(candidates))])

	r.CurrentWord = word
	r.ScrambledWord = Scramble(word, r.rng)
	r.UsedWords[word] = struct{}{}
	r.WordCount++
}

// Scramble 反复打乱单词的字符，直到结果与原词不同。
// 不存在不同排列的单词（如 "aa"）原样返回。
func Scramble(word string, rng Rand) string {
	if !words.IsScramblable(word) {
		return word
	}

	if rng == nil {
		rng = globalRand{}
	}

	letters := []rune(word)

	for string(letters) == word {
		rng.Shuffle(len(letters), func(i, j int) {
			letters[i], letters[j] = letters[j], letters[i]
		})
	}

	return string(letters)
}
