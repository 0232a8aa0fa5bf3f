package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name     string
		source   string
		contains []string
		meta     map[string]any
	}{
		{
			name:     "plain markdown",
			source:   "# Weekly review\n\n- [x] ship it",
			contains: []string{`<h1 id="weekly-review">Weekly review</h1>`, `type="checkbox"`},
			meta:     map[string]any{},
		},
		{
			name:     "frontmatter is split off",
			source:   "---\nmood: good\n---\nBody text",
			contains: []string{"<p>Body text</p>"},
			meta:     map[string]any{"mood": "good"},
		},
		{
			name:     "raw html is not passed through",
			source:   "<script>alert(1)</script>",
			contains: []string{"<!-- raw HTML omitted -->"},
			meta:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, meta, err := p.Render([]byte(tt.source))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(html), want)
			}
			assert.Equal(t, tt.meta, meta)
		})
	}
}
