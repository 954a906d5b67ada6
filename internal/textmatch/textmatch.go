// Package textmatch canonicalizes free-text answers and implements the answer matching used by
// the quiz board and the letter scoring used by the stop word game.
package textmatch

import "strings"

// definiteArticle is stripped before letter matching when it precedes the target letter.
const definiteArticle = "ال"

// PointsPerWord is awarded for every category answer starting with the round letter.
const PointsPerWord = 10

var alefVariants = strings.NewReplacer("أ", "ا", "إ", "ا", "آ", "ا")

// Normalize trims the text, folds the hamza-alef variants into a bare alef and rewrites a
// trailing taa marbuta and alef maqsura. Empty input yields "".
func Normalize(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}
	t = alefVariants.Replace(t)
	if strings.HasSuffix(t, "ة") {
		t = strings.TrimSuffix(t, "ة") + "ه"
	}
	if strings.HasSuffix(t, "ى") {
		t = strings.TrimSuffix(t, "ى") + "ي"
	}
	return t
}

// IsAcceptable reports whether userAnswer matches correctAnswer. Equal normalized strings always
// match; otherwise the user answer must be a substring of the correct one and longer than three
// characters, so single letters cannot match everything.
func IsAcceptable(userAnswer, correctAnswer string) bool {
	u, c := Normalize(userAnswer), Normalize(correctAnswer)
	if u == c {
		return true
	}
	return strings.Contains(c, u) && len([]rune(u)) > 3
}

// WordScore is the outcome of scoring one player's answers for a round.
type WordScore struct {
	Total   int            `json:"total"`
	Details map[string]int `json:"details"`
}

// ScoreWordRound scores a set of category answers against the round letter.
func ScoreWordRound(answers map[string]string, letter string) WordScore {
	res := WordScore{Details: make(map[string]int, len(answers))}
	target := []rune(Normalize(letter))

	for category, raw := range answers {
		val := []rune(Normalize(raw))
		if len(target) > 0 && strings.HasPrefix(string(val), definiteArticle) {
			prefixLen := len([]rune(definiteArticle))
			if len(val) > prefixLen && val[prefixLen] == target[0] {
				val = val[prefixLen:]
			}
		}
		if len(val) > 0 && len(target) > 0 && val[0] == target[0] {
			res.Total += PointsPerWord
			res.Details[category] = PointsPerWord
			continue
		}
		res.Details[category] = 0
	}
	return res
}
