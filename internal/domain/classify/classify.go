// Package classify turns a transcript into an emergency classification.
//
// Classification is a pure, total function: it accepts any transcript
// (including the empty string), never fails, and always returns a
// category from the known set with a severity inside the 1-10 range.
package classify

import (
	"strings"

	"github.com/okian/mayday/internal/domain/model"
)

// Rule binds a set of trigger terms to a category and severity.
// Rules are evaluated in order; the first rule with a trigger term
// present in the transcript wins, so more life-threatening categories
// must come before broader ones. Triggers match as substrings of the
// lowercased transcript, so "burn" also covers "burning" and "burned".
type Rule struct {
	Category model.Category
	Severity int
	Triggers []string
}

// defaultRules mirror the dispatch wordlists. Fire is checked first so
// that a transcript containing both "fire" and "help" resolves to FIRE;
// violence precedes medical because it carries the higher urgency.
func defaultRules() []Rule {
	return []Rule{
		{
			Category: model.CategoryFire,
			Severity: 8,
			Triggers: []string{"fire", "flame", "smoke", "burning", "burn"},
		},
		{
			Category: model.CategoryViolence,
			Severity: 9,
			Triggers: []string{"attack", "danger", "weapon", "threat", "assault", "violence", "scared", "help"},
		},
		{
			Category: model.CategoryMedical,
			Severity: 7,
			Triggers: []string{"hurt", "blood", "injured", "medical", "breathing", "unconscious", "pain", "heart", "chest"},
		},
		{
			Category: model.CategoryAccident,
			Severity: 6,
			Triggers: []string{"crash", "accident", "collision", "vehicle", "car", "highway", "truck", "bus"},
		},
	}
}

// Default severity when no rule matches.
const defaultSeverity = 2

// Classifier evaluates a transcript against an ordered rule list.
type Classifier struct {
	rules           []Rule
	defaultCategory model.Category
	defaultSeverity int

	// triggers lowercased once per rule at construction.
	triggers [][]string
}

// New creates a classifier with the default rule set unless overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:           defaultRules(),
		defaultCategory: model.CategoryNormal,
		defaultSeverity: defaultSeverity,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.triggers = make([][]string, len(c.rules))
	for i, r := range c.rules {
		lowered := make([]string, len(r.Triggers))
		for j, t := range r.Triggers {
			lowered[j] = strings.ToLower(t)
		}
		c.triggers[i] = lowered
	}

	return c
}

// Classify maps a transcript to a category and severity. The first
// rule with a trigger present in the lowercased transcript wins; when
// nothing matches it falls back to the default category with low
// severity.
func (c *Classifier) Classify(transcript string) model.Classification {
	lower := strings.ToLower(transcript)

	for i, r := range c.rules {
		for _, trigger := range c.triggers[i] {
			if strings.Contains(lower, trigger) {
				return model.Classification{
					Category: r.Category,
					Severity: clampSeverity(r.Severity),
				}
			}
		}
	}

	return model.Classification{
		Category: c.defaultCategory,
		Severity: clampSeverity(c.defaultSeverity),
	}
}

func clampSeverity(sev int) int {
	if sev < model.MinSeverity {
		return model.MinSeverity
	}
	if sev > model.MaxSeverity {
		return model.MaxSeverity
	}
	return sev
}
