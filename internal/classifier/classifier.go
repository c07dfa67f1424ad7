// Package classifier derives a grievance's priority tier from its text.
// Detection is a deterministic keyword heuristic, not language understanding:
// the submission form calls it on every edit for live feedback, and the
// engine calls it once more, authoritatively, at submit time.
package classifier

import (
	"strings"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
)

// Classifier matches text against ordered urgent and high keyword tiers.
type Classifier struct {
	urgent []string
	high   []string
}

// New builds a classifier from the configured vocabulary.
func New(vocab config.Vocabulary) *Classifier {
	return &Classifier{
		urgent: lowerAll(vocab.Urgent),
		high:   lowerAll(vocab.High),
	}
}

// Detect returns the priority tier for text plus the terms that matched.
// Urgent strictly dominates high; additional matches within a tier extend the
// reported term list without changing the tier. Text with no matches is
// normal with an empty term list. Pure function, case-insensitive.
func (c *Classifier) Detect(text string) (domain.GrievancePriority, []string) {
	lowered := strings.ToLower(text)

	if matched := matchTerms(lowered, c.urgent); len(matched) > 0 {
		return domain.PriorityUrgent, matched
	}
	if matched := matchTerms(lowered, c.high); len(matched) > 0 {
		return domain.PriorityHigh, matched
	}
	return domain.PriorityNormal, nil
}

func matchTerms(lowered string, terms []string) []string {
	var matched []string
	for _, term := range terms {
		if term != "" && strings.Contains(lowered, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		out = append(out, strings.ToLower(strings.TrimSpace(term)))
	}
	return out
}
