package flow

import "regexp"

var ratingDigits = regexp.MustCompile(`\b([1-9]|10)\b`)

// ratingWords is checked in word form only after the digit scan fails.
// Order matters so that multi-word inputs resolve deterministically by value.
var ratingWords = []struct {
	word  string
	value int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
}

var ratingWordPatterns = compileRatingWords()

func compileRatingWords() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(ratingWords))
	for i, rw := range ratingWords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + rw.word + `\b`)
	}
	return patterns
}

// ExtractRating parses a 1..10 effectiveness rating from free text. Digits
// take precedence over number words; the first digit match wins. Returns
// false when the text carries no parseable rating.
func ExtractRating(text string) (int, bool) {
	if m := ratingDigits.FindString(text); m != "" {
		if m == "10" {
			return 10, true
		}
		return int(m[0] - '0'), true
	}
	for i, pattern := range ratingWordPatterns {
		if pattern.MatchString(text) {
			return ratingWords[i].value, true
		}
	}
	return 0, false
}
