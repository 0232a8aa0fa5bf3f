package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/validation"
)

// Input structs use pointer fields: nil means "not supplied". PUT applies
// an input over a fresh default document, PATCH over the stored one.

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setList(dst *[]string, src *[]string) {
	if src != nil {
		*dst = validation.CleanList(*src)
	}
}

// setRef treats an empty string as "clear the reference".
func setRef(dst **string, src *string) {
	if src == nil {
		return
	}
	id := strings.TrimSpace(*src)
	if id == "" {
		*dst = nil
		return
	}
	*dst = &id
}

func setDate(dst **time.Time, src *model.FlexTime) {
	if src == nil {
		return
	}
	if src.IsZero() {
		*dst = nil
		return
	}
	t := src.UTC()
	*dst = &t
}

func now() time.Time {
	return time.Now().UTC()
}

type existingFunc func(ctx context.Context, userID string, ids []string) ([]string, error)

// checkRefs records a field error for ids the caller does not own.
func checkRefs(ctx context.Context, errs *validation.Errors, field, userID string, ids []string, existing existingFunc) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := existing(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
	known := make(map[string]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		errs.Add(field, "unknown ids: "+strings.Join(missing, ", "))
	}
	return nil
}

func checkRef(ctx context.Context, errs *validation.Errors, field, userID string, id *string, existing existingFunc) error {
	if id == nil {
		return nil
	}
	return checkRefs(ctx, errs, field, userID, []string{*id}, existing)
}
