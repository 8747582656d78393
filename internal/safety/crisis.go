// Package safety provides crisis language screening for inbound user text.
//
// The screen is a pure classifier: it holds no state and has no side
// effects. Callers are responsible for logging and flow teardown.
package safety

import (
	"regexp"
	"sort"
	"strings"
)

// Level is the assessed risk level of a piece of text.
type Level string

// Risk level constants. Any high-tier pattern match forces LevelHigh
// regardless of medium matches.
const (
	LevelNone   Level = "none"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Assessment is the result of screening one utterance.
type Assessment struct {
	Level      Level
	Categories []string // sorted category tags for matched patterns
}

// IsCrisis reports whether the assessment requires the crisis override.
func (a Assessment) IsCrisis() bool {
	return a.Level != LevelNone
}

type patternGroup struct {
	category string
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		compiled[i] = regexp.MustCompile(`\b(?:` + e + `)\b`)
	}
	return compiled
}

// Whole-word phrase lists in two tiers. Matching is case-insensitive via
// lowercasing the input before screening.
var highRiskGroups = []patternGroup{
	{
		category: "suicidal_ideation",
		patterns: compile(
			`want to die|wanna die|wish i was dead`,
			`kill myself|killing myself|end my life`,
			`suicide|suicidal thoughts|suicidal`,
			`better off dead|world better without me`,
			`no point living|no reason to live`,
		),
	},
	{
		category: "self_harm",
		patterns: compile(
			`cut myself|cutting myself|hurt myself`,
			`harm myself|harming myself`,
			`self harm|self-harm`,
		),
	},
	{
		category: "hopelessness",
		patterns: compile(
			`can't go on|cannot go on|give up`,
			`hopeless|no hope|nothing left`,
			`end it all|ending it all`,
		),
	},
}

var mediumRiskGroups = []patternGroup{
	{
		category: "severe_distress",
		patterns: compile(
			`can't take it anymore|cannot take it`,
			`overwhelmed|breaking down|falling apart`,
			`desperate|desperation`,
		),
	},
}

// Assess screens text for crisis language and returns the risk level with
// the set of matched pattern categories. It must be run on every inbound
// utterance, not only at flow start.
func Assess(text string) Assessment {
	lowered := strings.ToLower(text)
	categories := make(map[string]bool)

	level := LevelNone
	for _, group := range highRiskGroups {
		for _, p := range group.patterns {
			if p.MatchString(lowered) {
				level = LevelHigh
				categories[group.category] = true
			}
		}
	}
	for _, group := range mediumRiskGroups {
		for _, p := range group.patterns {
			if p.MatchString(lowered) {
				if level == LevelNone {
					level = LevelMedium
				}
				categories[group.category] = true
			}
		}
	}

	matched := make([]string, 0, len(categories))
	for c := range categories {
		matched = append(matched, c)
	}
	sort.Strings(matched)

	return Assessment{Level: level, Categories: matched}
}
