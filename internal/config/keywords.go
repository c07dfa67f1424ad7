package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the ordered keyword tiers the priority classifier matches
// against. Order within a tier only affects the order of reported terms.
type Vocabulary struct {
	Urgent []string `yaml:"urgent"`
	High   []string `yaml:"high"`
}

// DefaultVocabulary returns the built-in term lists used when no
// KEYWORDS_FILE is configured. Deployments tune these per service area.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Urgent: []string{
			"urgent", "emergency", "immediately", "life-threatening",
			"danger", "accident", "fire", "collapse", "death", "critical",
		},
		High: []string{
			"important", "serious", "unsafe", "health", "safety",
			"broken", "leaking", "overdue", "repeated", "ignored",
		},
	}
}

// LoadVocabulary reads the tier lists from a YAML file, falling back to the
// defaults when path is empty.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read keywords file: %w", err)
	}
	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return Vocabulary{}, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(vocab.Urgent) == 0 && len(vocab.High) == 0 {
		return Vocabulary{}, fmt.Errorf("keywords file %s defines no terms", path)
	}
	return vocab, nil
}
