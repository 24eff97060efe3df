package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

var ErrEmptyBank = errors.New("词库中没有可用的单词")

// Bank 是只读的候选词集合，创建后不再修改，可被多个会话共享
type Bank struct {
	words []string
}

type bankFile struct {
	Words []string `json:"words"`
}

// NewBank 对单词做规范化（去空白、转小写）并去重。
// 少于两个不同字符的单词无法打乱成不同的样子，会被丢弃。
func NewBank(words []string) (*Bank, error) {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))

	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}

		if _, ok := seen[w]; ok {
			continue
		}

		if !IsScramblable(w) {
			zap.L().Warn("单词无法打乱，已忽略", zap.String("word", w))
			continue
		}

		seen[w] = struct{}{}
		result = append(result, w)
	}

	if len(result) == 0 {
		return nil, ErrEmptyBank
	}

	return &Bank{words: result}, nil
}

func DefaultBank() *Bank {
	bank, err := NewBank(allWordsList)
	if err != nil {
		panic("内置词库无效: " + err.Error())
	}

	return bank
}

// LoadBank 读取形如 {"words": [...]} 的 JSON 文件，path 为空时使用内置词库
func LoadBank(path string) (*Bank, error) {
	if path == "" {
		return DefaultBank(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取词库文件失败: %w", err)
	}

	var file bankFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("解析词库文件失败: %w", err)
	}

	bank, err := NewBank(file.Words)
	if err != nil {
		return nil, fmt.Errorf("词库文件 %s: %w", path, err)
	}

	zap.L().Info(
		"已加载词库",
		zap.String("path", path),
		zap.Int("count", bank.Len()),
	)

	return bank, nil
}

// Words 返回副本
func (b *Bank) Words() []string {
	out := make([]string, len(b.words))
	copy(out, b.words)

	return out
}

func (b *Bank) Len() int {
	return len(b.words)
}

func (b *Bank) At(i int) string {
	return b.words[i]
}

// IsScramblable 判断单词是否存在与原词不同的排列
func IsScramblable(word string) bool {
	var first rune
	for i, r := range word {
		if i == 0 {
			first = r
			continue
		}

		if r != first {
			return true
		}
	}

	return false
}
