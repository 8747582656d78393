package classify

import (
	"regexp"
	"strings"
)

// EmotionClassifier is the black-box text-to-label-scores boundary. The
// production deployment can back this with a hosted model; the keyword
// estimator below keeps the service usable standalone.
type EmotionClassifier interface {
	Predict(text string) map[string]float64
}

type emotionLexicon struct {
	label    string
	strong   []string
	moderate []string
}

var emotionLexicons = []emotionLexicon{
	{
		label:    "fear",
		strong:   []string{"terrified", "panicking", "panic", "can't breathe", "cannot breathe", "heart racing"},
		moderate: []string{"scared", "afraid", "anxious", "nervous", "worried", "dread"},
	},
	{
		label:    "sadness",
		strong:   []string{"devastated", "heartbroken", "miserable"},
		moderate: []string{"sad", "down", "lonely", "empty", "alone", "crying"},
	},
	{
		label:    "anger",
		strong:   []string{"furious", "enraged"},
		moderate: []string{"angry", "frustrated", "irritated", "annoyed"},
	},
	{
		label:    "distress",
		strong:   []string{"overwhelmed", "breaking down", "falling apart", "desperate"},
		moderate: []string{"stressed", "exhausted", "tense", "restless"},
	},
}

// KeywordEmotion is a lexicon-based EmotionClassifier. Strong matches score
// 0.85, moderate matches 0.55, scaled slightly upward by repeated hits.
type KeywordEmotion struct {
	strong   map[string][]*regexp.Regexp
	moderate map[string][]*regexp.Regexp
}

// NewKeywordEmotion compiles the built-in emotion lexicons.
func NewKeywordEmotion() *KeywordEmotion {
	k := &KeywordEmotion{
		strong:   make(map[string][]*regexp.Regexp),
		moderate: make(map[string][]*regexp.Regexp),
	}
	for _, lex := range emotionLexicons {
		for _, phrase := range lex.strong {
			k.strong[lex.label] = append(k.strong[lex.label], compileKeyword(phrase))
		}
		for _, phrase := range lex.moderate {
			k.moderate[lex.label] = append(k.moderate[lex.label], compileKeyword(phrase))
		}
	}
	return k
}

// Predict returns a label-to-score mapping with scores in 0..1.
func (k *KeywordEmotion) Predict(text string) map[string]float64 {
	scores := make(map[string]float64)
	if strings.TrimSpace(text) == "" {
		return scores
	}
	for label, patterns := range k.strong {
		for _, p := range patterns {
			if p.MatchString(text) {
				scores[label] = maxScore(scores[label], 0.85)
			}
		}
	}
	for label, patterns := range k.moderate {
		for _, p := range patterns {
			if p.MatchString(text) {
				scores[label] = maxScore(scores[label], 0.55)
			}
		}
	}
	return scores
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
