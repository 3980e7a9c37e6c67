// Package scene classifies an assistant reply into emotion, scenario,
// action and expression categories used to compose image prompts.
// Classification is pure keyword matching, no model calls.
package scene

import "strings"

// Match is the outcome of a single classification axis.
type Match struct {
	Label    string
	Fragment string
}

// Result holds the classification of one reply across all axes.
type Result struct {
	Emotion    Match
	Scenario   Match
	Action     Match
	Expression Match
}

func matchFirst(text string, rules []Rule, fallback Match) Match {
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return Match{Label: r.Label, Fragment: r.Fragment}
			}
		}
	}
	return fallback
}

// Classify inspects the reply and recent conversation context and returns
// the matched categories. Emotion, action and expression are read from the
// reply alone. The scenario also considers recent context so the scene
// persists across turns, e.g. a reply sent from the beach stays on the
// beach even when the latest line never mentions it.
func Classify(reply string, recentContext []string) Result {
	scenarioText := strings.Join(append(append([]string{}, recentContext...), reply), " ")
	return Result{
		Emotion:    matchFirst(reply, emotionRules, defaultEmotion),
		Scenario:   matchFirst(scenarioText, scenarioRules, defaultScenario),
		Action:     matchFirst(reply, actionRules, defaultAction),
		Expression: matchFirst(reply, expressionRules, defaultExpression),
	}
}
