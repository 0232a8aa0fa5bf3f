package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		description string
		first       string
	}{
		{"Run my first marathon", "Vision"},
		{"get a promotion at my job", "Career Vision"},
		{"Learn Spanish this year", "Learning Goal"},
		{"pay off my debt", "Financial Goal"},
		{"sleep better and meditate", "Wellbeing Area"},
		{"finish writing a novel", "Creative Vision"},
		{"launch my startup", "Mission"},
		{"something else entirely", "Goal"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			s := Fallback(tt.description)
			assert.Equal(t, SourceFallback, s.Source)
			assert.Equal(t, tt.first, s.Levels[0])
			assert.GreaterOrEqual(t, len(s.Levels), 3)
			assert.LessOrEqual(t, len(s.Levels), MaxLevels)
		})
	}
}

func TestFallback_NameIsTitleCased(t *testing.T) {
	s := Fallback("get fit for the summer holidays this year")
	assert.Equal(t, "Get Fit For The Summer Holidays", s.Name)
	assert.Equal(t, []string{"Vision", "Training Block", "Weekly Plan", "Workout"}, s.Levels)
}
