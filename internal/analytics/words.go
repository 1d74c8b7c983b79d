package analytics

import (
	"slices"
	"strings"
	"unicode/utf8"

	"moodjournal/internal/models"
)

// DefaultWordLimit is how many words WordFrequency returns when n <= 0.
const DefaultWordLimit = 50

const (
	minWordRunes = 2
	maxWordRunes = 9
)

// punctuation is replaced by spaces before splitting.
var punctuation = strings.NewReplacer(
	"，", " ", "。", " ", "！", " ", "？", " ", "；", " ", "：", " ",
	"“", " ", "”", " ", "‘", " ", "’", " ", "（", " ", "）", " ",
	"【", " ", "】", " ", "《", " ", "》", " ", "、", " ",
	",", " ", ".", " ", "!", " ", "?", " ", ";", " ", ":", " ",
	"\"", " ", "'", " ", "(", " ", ")", " ", "[", " ", "]", " ",
	"<", " ", ">", " ",
)

// Tokenize splits a diary into countable words: punctuation becomes
// whitespace, and tokens outside 2..9 runes or made only of digits are
// dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(punctuation.Replace(text))
	out := fields[:0]
	for _, f := range fields {
		n := utf8.RuneCountInString(f)
		if n < minWordRunes || n > maxWordRunes || isNumeric(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// WordFrequency counts diary words across records, most frequent first with
// ties broken alphabetically, and keeps the top n.
func WordFrequency(records []models.MoodRecord, n int) []models.WordFrequency {
	if n <= 0 {
		n = DefaultWordLimit
	}
	counts := make(map[string]int)
	for _, r := range records {
		if r.Diary == "" {
			continue
		}
		for _, w := range Tokenize(r.Diary) {
			counts[w]++
		}
	}

	out := make([]models.WordFrequency, 0, len(counts))
	for w, c := range counts {
		out = append(out, models.WordFrequency{Word: w, Frequency: c})
	}
	slices.SortFunc(out, func(a, b models.WordFrequency) int {
		if a.Frequency != b.Frequency {
			return b.Frequency - a.Frequency
		}
		return strings.Compare(a.Word, b.Word)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
