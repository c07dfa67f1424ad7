package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
)

func TestDetect(t *testing.T) {
	c := New(config.DefaultVocabulary())

	tests := []struct {
		name         string
		text         string
		wantPriority domain.GrievancePriority
		wantTerms    []string
	}{
		{
			name:         "no matches",
			text:         "The bus shelter on Elm Street needs a new roof",
			wantPriority: domain.PriorityNormal,
			wantTerms:    nil,
		},
		{
			name:         "single high term",
			text:         "The railing is broken near the stairs",
			wantPriority: domain.PriorityHigh,
			wantTerms:    []string{"broken"},
		},
		{
			name:         "single urgent term",
			text:         "There was an accident at the crossing",
			wantPriority: domain.PriorityUrgent,
			wantTerms:    []string{"accident"},
		},
		{
			name:         "urgent dominates high",
			text:         "Broken gas line, this is an emergency",
			wantPriority: domain.PriorityUrgent,
			wantTerms:    []string{"emergency"},
		},
		{
			name:         "multiple terms within a tier",
			text:         "Fire danger from exposed wiring",
			wantPriority: domain.PriorityUrgent,
			wantTerms:    []string{"danger", "fire"},
		},
		{
			name:         "case insensitive",
			text:         "URGENT: please respond",
			wantPriority: domain.PriorityUrgent,
			wantTerms:    []string{"urgent"},
		},
		{
			name:         "substring match",
			text:         "The pipe is leaking again",
			wantPriority: domain.PriorityHigh,
			wantTerms:    []string{"leaking"},
		},
		{
			name:         "empty text",
			text:         "",
			wantPriority: domain.PriorityNormal,
			wantTerms:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, terms := c.Detect(tt.text)
			require.Equal(t, tt.wantPriority, priority)
			require.ElementsMatch(t, tt.wantTerms, terms)
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	c := New(config.DefaultVocabulary())
	text := "Serious safety issue, possibly life-threatening"

	first, firstTerms := c.Detect(text)
	second, secondTerms := c.Detect(text)
	require.Equal(t, first, second)
	require.Equal(t, firstTerms, secondTerms)
	require.Equal(t, domain.PriorityUrgent, first)
}
