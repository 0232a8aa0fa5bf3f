package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/templui/lifeplan/internal/cache"
	"github.com/templui/lifeplan/internal/metrics"
	"github.com/templui/lifeplan/internal/suggest"
	"github.com/templui/lifeplan/internal/validation"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

// Suggester asks a language model for a hierarchy suggestion.
type Suggester interface {
	Suggest(ctx context.Context, description string) (suggest.Suggestion, error)
}

type SuggestionService struct {
	suggester Suggester
	cache     *cache.Cache
	inflight  singleflight.Group // coalesces identical concurrent misses
}

// NewSuggestionService accepts a nil suggester (no API key) and a nil cache
// (no Redis); both degrade to the local fallback path.
func NewSuggestionService(suggester Suggester, cache *cache.Cache) *SuggestionService {
	return &SuggestionService{
		suggester: suggester,
		cache:     cache,
	}
}

// Suggest never fails because of the model: any upstream problem yields
// the keyword fallback.
func (s *SuggestionService) Suggest(ctx context.Context, description string) (suggest.Suggestion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return suggest.Suggestion{}, validation.New("description", "is required")
	}
	if err := validation.MaxLength(description, 2000); err != nil {
		return suggest.Suggestion{}, validation.New("description", err.Error())
	}

	if s.suggester == nil {
		return s.fallback(description), nil
	}

	key := cacheKey(description)
	if cached, ok := s.cached(ctx, key); ok {
		metrics.RecordSuggestion(cached.Source)
		return cached, nil
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		suggestion, err := s.suggester.Suggest(ctx, description)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, suggestion); err != nil {
				slog.Warn("failed to cache suggestion", "error", err)
			}
		}
		return suggestion, nil
	})
	if err != nil {
		slog.Warn("ai suggestion failed, using fallback", "error", err)
		return s.fallback(description), nil
	}

	suggestion := v.(suggest.Suggestion)
	metrics.RecordSuggestion(suggestion.Source)
	return suggestion, nil
}

func (s *SuggestionService) cached(ctx context.Context, key string) (suggest.Suggestion, bool) {
	var suggestion suggest.Suggestion
	if s.cache == nil {
		return suggestion, false
	}

	found, err := s.cache.Get(ctx, key, &suggestion)
	switch {
	case err != nil:
		slog.Warn("suggestion cache read failed", "error", err)
		metrics.RecordSuggestionCache("error")
		return suggestion, false
	case !found:
		metrics.RecordSuggestionCache("miss")
		return suggestion, false
	}
	metrics.RecordSuggestionCache("hit")
	return suggestion, true
}

func (s *SuggestionService) fallback(description string) suggest.Suggestion {
	metrics.RecordSuggestion(suggest.SourceFallback)
	return suggest.Fallback(description)
}

// cacheKey hashes the case-folded, whitespace-collapsed description.
func cacheKey(description string) string {
	normalized := strings.Join(strings.Fields(cases.Fold().String(description)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
