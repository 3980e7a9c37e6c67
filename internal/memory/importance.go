// Package memory implements importance scoring, ranking and recall
// formatting for character-bound chat memos.
package memory

import (
	"strings"
	"unicode/utf8"

	"github.com/ayachat/ayachat/internal/types"
)

// Tag sets used for importance scoring. A high tag always wins over a
// medium tag; the two bonuses never stack.
var (
	highImportanceTags   = []string{"重要", "設定", "性格", "過去", "秘密", "関係性"}
	mediumImportanceTags = []string{"感情", "ストーリー", "伏線", "好み"}
)

// importanceKeywords are matched case-insensitively against the note text.
// Distinct keywords count independently, capped at two points total.
var importanceKeywords = []string{"嫌い", "好き", "大切", "重要", "秘密", "過去", "家族", "友達"}

const (
	keywordBonusCap   = 2
	longNoteThreshold = 100
)

// ScoreImportance assigns an importance in [1,5] to a memo note from its
// tags and content. Pure function; any input, including empty, is valid.
func ScoreImportance(note string, tags []string) int {
	score := types.MinImportance

	if containsAnyTag(tags, highImportanceTags) {
		score += 2
	} else if containsAnyTag(tags, mediumImportanceTags) {
		score += 1
	}

	lower := strings.ToLower(note)
	matches := 0
	for _, keyword := range importanceKeywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	if matches > keywordBonusCap {
		matches = keywordBonusCap
	}
	score += matches

	// Long notes tend to carry more context.
	if utf8.RuneCountInString(note) > longNoteThreshold {
		score++
	}

	if score > types.MaxImportance {
		score = types.MaxImportance
	}
	return score
}

func containsAnyTag(tags, set []string) bool {
	for _, tag := range tags {
		for _, candidate := range set {
			if tag == candidate {
				return true
			}
		}
	}
	return false
}
