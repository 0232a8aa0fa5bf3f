// Package suggest produces hierarchy suggestions (a name and 1-6 level
// labels) for a free-text description, either from an OpenAI-compatible
// chat model or from local keyword templates.
package suggest

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	MaxLevels = 6
)

type Suggestion struct {
	Name   string   `json:"name,omitempty"`
	Levels []string `json:"levels"`
	Source string   `json:"source"`
}
