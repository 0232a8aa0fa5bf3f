package suggest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Suggestion
		errMsg string
	}{
		{
			name:  "plain object",
			input: `{"name": "Fitness", "levels": ["Vision", "Block", "Workout"]}`,
			want:  Suggestion{Name: "Fitness", Levels: []string{"Vision", "Block", "Workout"}, Source: SourceAI},
		},
		{
			name:  "prose around object",
			input: "Sure! Here it is: {\"levels\": [\"A\", \"B\"]} Hope that helps.",
			want:  Suggestion{Levels: []string{"A", "B"}, Source: SourceAI},
		},
		{
			name:  "bare array",
			input: `["Area", "Goal", "Step"]`,
			want:  Suggestion{Levels: []string{"Area", "Goal", "Step"}, Source: SourceAI},
		},
		{
			name:  "braces inside strings",
			input: `{"name": "Plan {v2}", "levels": ["[Top]", "Bottom"]}`,
			want:  Suggestion{Name: "Plan {v2}", Levels: []string{"[Top]", "Bottom"}, Source: SourceAI},
		},
		{
			name:  "coerces and trims levels",
			input: `{"levels": ["  Vision ", 2, "", null, true, {"x": 1}]}`,
			want:  Suggestion{Levels: []string{"Vision", "2", "true"}, Source: SourceAI},
		},
		{
			name:  "truncates to six",
			input: `["1","2","3","4","5","6","7","8"]`,
			want:  Suggestion{Levels: []string{"1", "2", "3", "4", "5", "6"}, Source: SourceAI},
		},
		{
			name:   "no json",
			input:  "I cannot help with that.",
			errMsg: "no JSON object or array found",
		},
		{
			name:   "unbalanced",
			input:  `{"levels": ["A"`,
			errMsg: "no JSON object or array found",
		},
		{
			name:   "missing levels",
			input:  `{"name": "x"}`,
			errMsg: `missing "levels" array`,
		},
		{
			name:   "empty levels",
			input:  `{"levels": ["", "  "]}`,
			errMsg: "no usable levels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnparseable)
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, tt.errMsg, perr.Reason)
				assert.Equal(t, Suggestion{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_FencedSmartQuotesAndTrailingCommas(t *testing.T) {
	malformed := "Here you go:\n```json\n{\n  “name”: “Writer’s Path”,\n  “levels”: [“Vision”, “Book”, “Chapter”,],\n}\n```\nEnjoy!"
	normalized := `{"name": "Writer's Path", "levels": ["Vision", "Book", "Chapter"]}`

	got, err := Parse(malformed)
	require.NoError(t, err)

	want, err := Parse(normalized)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, "Writer's Path", got.Name)
}

func TestParse_FirstFenceWins(t *testing.T) {
	input := "```\n[\"A\"]\n```\n```json\n[\"B\"]\n```"
	got, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got.Levels)
}

func TestStripTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2]}`, stripTrailingCommas(`{"a": [1, 2,],}`))
	assert.Equal(t, `{"a": ",]"}`, stripTrailingCommas(`{"a": ",]"}`))
}
