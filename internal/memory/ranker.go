package memory

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ayachat/ayachat/internal/types"
)

const (
	// recallHeader opens every recall block inlined into a prompt.
	recallHeader = "【キャラクター記憶】"
	// recallLimit caps how many memos a recall block may consider,
	// independent of the character budget.
	recallLimit = 10

	// DefaultRecallChars is the recall block character budget when the
	// caller passes none.
	DefaultRecallChars = 1000
	// DefaultMaxKept is how many memos a character keeps after pruning.
	DefaultMaxKept = 50
	// DefaultRelatedLimit caps tag-based related lookups.
	DefaultRelatedLimit = 5
)

// FilterEligible keeps memos that belong to the character and are flagged
// for AI recall. Input order is preserved.
func FilterEligible(memos []types.ChatMemo, characterID string) []types.ChatMemo {
	eligible := make([]types.ChatMemo, 0, len(memos))
	for _, memo := range memos {
		if memo.CharacterID == characterID && memo.IsAIMemory {
			eligible = append(eligible, memo)
		}
	}
	return eligible
}

// RankForRecall returns the character's eligible memos ordered by
// importance descending, ties broken by most recently updated. A limit of
// zero or less returns the full ranked list.
func RankForRecall(memos []types.ChatMemo, characterID string, limit int) []types.ChatMemo {
	ranked := FilterEligible(memos, characterID)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.EffectiveImportance() != b.EffectiveImportance() {
			return a.EffectiveImportance() > b.EffectiveImportance()
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BuildRecallBlock formats the character's top memos as a bulleted block
// for prompt inlining, staying within maxChars (counted in runes). A line
// that would overflow the budget is dropped entirely, never truncated.
// Returns the empty string when the character has no eligible memos, so
// callers can test for "no memory context" cheaply. The header is always
// written when any memo is eligible, so the smallest meaningful budget is
// the header length plus one bullet line; below that the block degrades
// to the bare header.
func BuildRecallBlock(memos []types.ChatMemo, characterID string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultRecallChars
	}

	ranked := RankForRecall(memos, characterID, recallLimit)
	if len(ranked) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(recallHeader)
	b.WriteString("\n")
	length := utf8.RuneCountInString(recallHeader) + 1

	for _, memo := range ranked {
		line := "• " + memo.Note
		lineLen := utf8.RuneCountInString(line)
		if length+lineLen > maxChars {
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
		length += lineLen + 1
	}

	return strings.TrimSpace(b.String())
}

// PruneExcess drops the character's lowest-ranked eligible memos so that
// at most maxKept remain, leaving other characters' memos untouched. The
// input is returned unchanged when the character is under the cap.
func PruneExcess(memos []types.ChatMemo, characterID string, maxKept int) []types.ChatMemo {
	if maxKept <= 0 {
		maxKept = DefaultMaxKept
	}
	if len(FilterEligible(memos, characterID)) <= maxKept {
		return memos
	}

	kept := make(map[string]struct{}, maxKept)
	for _, memo := range RankForRecall(memos, characterID, maxKept) {
		kept[memo.ID] = struct{}{}
	}

	pruned := make([]types.ChatMemo, 0, len(memos))
	for _, memo := range memos {
		if memo.CharacterID != characterID {
			pruned = append(pruned, memo)
			continue
		}
		if _, ok := kept[memo.ID]; ok {
			pruned = append(pruned, memo)
		}
	}
	return pruned
}

// Search returns the character's eligible memos whose note, content or any
// tag contains the query, case-insensitively. A blank query returns all
// eligible memos.
func Search(memos []types.ChatMemo, characterID, query string) []types.ChatMemo {
	eligible := FilterEligible(memos, characterID)
	if strings.TrimSpace(query) == "" {
		return eligible
	}

	q := strings.ToLower(query)
	matched := make([]types.ChatMemo, 0, len(eligible))
	for _, memo := range eligible {
		if strings.Contains(strings.ToLower(memo.Note), q) ||
			strings.Contains(strings.ToLower(memo.Content), q) ||
			anyTagContains(memo.Tags, q) {
			matched = append(matched, memo)
		}
	}
	return matched
}

// FindRelated returns up to limit eligible memos sharing at least one tag
// with the given set, ordered by overlap count, ties broken by most
// recently updated.
func FindRelated(memos []types.ChatMemo, characterID string, tags []string, limit int) []types.ChatMemo {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	type scored struct {
		memo    types.ChatMemo
		overlap int
	}
	var candidates []scored
	for _, memo := range FilterEligible(memos, characterID) {
		overlap := tagOverlap(memo.Tags, tags)
		if overlap > 0 {
			candidates = append(candidates, scored{memo: memo, overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].memo.UpdatedAt.After(candidates[j].memo.UpdatedAt)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	related := make([]types.ChatMemo, 0, len(candidates))
	for _, c := range candidates {
		related = append(related, c.memo)
	}
	return related
}

func anyTagContains(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func tagOverlap(a, b []string) int {
	count := 0
	for _, tag := range a {
		for _, other := range b {
			if tag == other {
				count++
				break
			}
		}
	}
	return count
}
