package suggest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type template struct {
	keywords []string // matched as word prefixes
	levels   []string
}

// Checked in order; the first template with a matching keyword wins.
var templates = []template{
	{
		keywords: []string{"fitness", "fit", "workout", "gym", "run", "marathon", "exercise", "weight", "train"},
		levels:   []string{"vision", "training block", "weekly plan", "workout"},
	},
	{
		keywords: []string{"career", "job", "promotion", "interview", "resume", "salary"},
		levels:   []string{"career vision", "milestone", "initiative", "action"},
	},
	{
		keywords: []string{"learn", "study", "course", "language", "skill", "read", "book", "exam"},
		levels:   []string{"learning goal", "subject", "module", "lesson"},
	},
	{
		keywords: []string{"money", "budget", "save", "saving", "invest", "debt", "financ", "retire"},
		levels:   []string{"financial goal", "target", "budget line", "action"},
	},
	{
		keywords: []string{"health", "sleep", "diet", "meditat", "wellness", "mental", "stress"},
		levels:   []string{"wellbeing area", "habit goal", "routine", "daily action"},
	},
	{
		keywords: []string{"write", "writing", "novel", "art", "music", "paint", "design", "creative", "photo"},
		levels:   []string{"creative vision", "body of work", "piece", "session"},
	},
	{
		keywords: []string{"business", "startup", "launch", "product", "customer", "company", "revenue"},
		levels:   []string{"mission", "objective", "key result", "initiative", "task"},
	},
}

var defaultLevels = []string{"goal", "objective", "project", "task"}

const maxNameWords = 6

// Fallback builds a suggestion from static keyword templates. It never fails.
func Fallback(description string) Suggestion {
	words := strings.FieldsFunc(cases.Fold().String(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	levels := defaultLevels
	for _, t := range templates {
		if matches(words, t.keywords) {
			levels = t.levels
			break
		}
	}

	title := cases.Title(language.English)
	out := make([]string, len(levels))
	for i, level := range levels {
		out[i] = title.String(level)
	}

	return Suggestion{
		Name:   fallbackName(description, title),
		Levels: out,
		Source: SourceFallback,
	}
}

func matches(words, keywords []string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if strings.HasPrefix(w, k) {
				return true
			}
		}
	}
	return false
}

func fallbackName(description string, title cases.Caser) string {
	words := strings.Fields(description)
	if len(words) > maxNameWords {
		words = words[:maxNameWords]
	}
	return title.String(strings.Join(words, " "))
}
