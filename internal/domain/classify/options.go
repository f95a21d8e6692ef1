// Package classify turns a transcript into an emergency classification.
package classify

import "github.com/okian/mayday/internal/domain/model"

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithRules replaces the rule list. Order is part of the contract:
// earlier rules win.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = rules
		}
	}
}

// WithDefault sets the category and severity returned when no rule matches.
func WithDefault(category model.Category, severity int) Option {
	return func(c *Classifier) {
		if category.Valid() {
			c.defaultCategory = category
		}
		if severity >= model.MinSeverity && severity <= model.MaxSeverity {
			c.defaultSeverity = severity
		}
	}
}
