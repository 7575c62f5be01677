package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/morgangallant/logs-old/internal/domain"
)

const (
	wakeupToken = "gm"
	sleepToken  = "gn"
)

// foodKeywords trigger the nutrition lookup when any appears as a substring.
var foodKeywords = []string{"ate", "drank"}

// MarkerExtractor produces a single metadata-free event when the text is
// exactly its trigger token. Matching is case-sensitive with no whitespace
// tolerance.
type MarkerExtractor struct {
	name  string
	token string
	typ   domain.EventType
}

// NewWakeupExtractor matches the wake-up marker token.
func NewWakeupExtractor() *MarkerExtractor {
	return &MarkerExtractor{name: "wakeup", token: wakeupToken, typ: domain.EventWakeup}
}

// NewSleepExtractor matches the going-to-sleep marker token.
func NewSleepExtractor() *MarkerExtractor {
	return &MarkerExtractor{name: "sleep", token: sleepToken, typ: domain.EventSleep}
}

func (e *MarkerExtractor) Name() string { return e.name }

func (e *MarkerExtractor) Extract(ctx context.Context, text string) ([]domain.EventOutput, error) {
	if text != e.token {
		return nil, nil
	}
	return []domain.EventOutput{{Type: e.typ}}, nil
}

// FoodExtractor produces one food-intake event per record returned by the
// nutrition lookup. It triggers only when the text mentions eating or
// drinking; untriggered text issues no network call.
type FoodExtractor struct {
	lookup domain.FoodLookup
}

// NewFoodExtractor creates a FoodExtractor backed by the given lookup.
func NewFoodExtractor(lookup domain.FoodLookup) *FoodExtractor {
	return &FoodExtractor{lookup: lookup}
}

func (e *FoodExtractor) Name() string { return "food" }

func (e *FoodExtractor) Extract(ctx context.Context, text string) ([]domain.EventOutput, error) {
	if !containsFoodKeyword(text) {
		return nil, nil
	}

	foods, err := e.lookup.Lookup(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("food lookup: %w", err)
	}

	outputs := make([]domain.EventOutput, 0, len(foods))
	for _, food := range foods {
		meta, err := json.Marshal(food)
		if err != nil {
			return nil, fmt.Errorf("marshal food record: %w", err)
		}
		outputs = append(outputs, domain.EventOutput{Type: domain.EventAte, Metadata: meta})
	}
	return outputs, nil
}

func containsFoodKeyword(text string) bool {
	for _, kw := range foodKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
