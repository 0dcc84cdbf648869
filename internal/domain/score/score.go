// Package score rates transcript text for short-form appeal. Every function
// here is pure and deterministic: same input, same score, no side effects.
package score

import (
	"regexp"
	"strings"
)

// lexicon groups hook keywords by theme. Bilingual on purpose: the source
// material is mixed English/Russian and Russian entries are stems so a plain
// substring match covers inflected forms.
var lexicon = map[string][]string{
	"monetary": {
		"money", "dollar", "rich", "wealth", "million", "thousand", "profit",
		"деньги", "доллар", "богат", "миллион", "тысяч", "прибыль",
		"10k", "100k", "1m", "earn", "make money", "заработ",
	},
	"emotional": {
		"crazy", "insane", "unbelievable", "shocking", "amazing", "wow",
		"безумн", "невероятн", "шок", "офиген", "ого", "вау",
	},
	"actionable": {
		"secret", "trick", "hack", "tip", "strategy", "method",
		"секрет", "трюк", "хак", "совет", "стратег", "метод",
	},
	"urgency": {
		"now", "today", "quick", "fast", "hurry", "limited",
		"сейчас", "сегодня", "быстр", "спеши", "ограничен",
	},
	"question_hook": {
		"how to", "what if", "did you know", "want to",
		"как", "что если", "знаете ли", "хотите",
	},
}

var reDigits = regexp.MustCompile(`\d+`)

const (
	keywordWeight    = 10
	numeralWeight    = 15
	excitementWeight = 20
	brevityCeiling   = 50
)

// Text returns the additive score for a piece of transcript text:
// distinct keyword hits, brevity, numeral count, and exclamation/question
// marks. Each keyword counts at most once no matter how often it repeats.
func Text(text string) float64 {
	lower := strings.ToLower(text)

	keywords := 0
	for _, group := range lexicon {
		for _, kw := range group {
			if strings.Contains(lower, kw) {
				keywords++
			}
		}
	}

	words := len(strings.Fields(lower))
	brevity := 0
	if words < brevityCeiling {
		brevity = brevityCeiling - words
	}

	numerals := len(reDigits.FindAllString(lower, -1))
	excitement := strings.Count(lower, "!") + strings.Count(lower, "?")

	return float64(keywords*keywordWeight + brevity + numerals*numeralWeight + excitement*excitementWeight)
}

// Context carries the timing information available to callers scoring a
// segment relative to a whole video. PositionFraction is segment start over
// video duration, in [0,1].
type Context struct {
	PositionFraction float64
	Duration         float64
}

// TextInContext applies the position and brevity multipliers on top of the
// additive score. Openings are weighted up because the first seconds decide
// retention; sub-2s utterances are weighted down because they rarely carry a
// complete thought.
func TextInContext(text string, c Context) float64 {
	s := Text(text)

	switch {
	case c.PositionFraction < 0.10:
		s *= 1.5
	case c.PositionFraction < 0.30:
		s *= 1.2
	}

	if c.Duration < 2 {
		s *= 0.5
	}

	return s
}
