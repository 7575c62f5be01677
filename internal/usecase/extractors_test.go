package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/morgangallant/logs-old/internal/domain"
	"github.com/morgangallant/logs-old/internal/domain/mocks"
)

func TestMarkerExtractors(t *testing.T) {
	tests := []struct {
		name      string
		extractor domain.Extractor
		text      string
		wantType  domain.EventType
		wantHit   bool
	}{
		{"Wakeup Exact Match", NewWakeupExtractor(), "gm", domain.EventWakeup, true},
		{"Wakeup With Trailing Space", NewWakeupExtractor(), "gm ", "", false},
		{"Wakeup Uppercase", NewWakeupExtractor(), "GM", "", false},
		{"Wakeup Embedded", NewWakeupExtractor(), "gm everyone", "", false},
		{"Sleep Exact Match", NewSleepExtractor(), "gn", domain.EventSleep, true},
		{"Sleep Wrong Token", NewSleepExtractor(), "gm", "", false},
		{"Empty Text", NewWakeupExtractor(), "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := tt.extractor.Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !tt.wantHit {
				if len(outputs) != 0 {
					t.Fatalf("expected no outputs, got %d", len(outputs))
				}
				return
			}
			if len(outputs) != 1 {
				t.Fatalf("expected 1 output, got %d", len(outputs))
			}
			if outputs[0].Type != tt.wantType {
				t.Errorf("output type = %q, want %q", outputs[0].Type, tt.wantType)
			}
			if outputs[0].Metadata != nil {
				t.Errorf("marker output should carry no metadata, got %s", outputs[0].Metadata)
			}
		})
	}
}

func TestFoodExtractor(t *testing.T) {
	apple := domain.FoodItem{Name: "apple", ServingQty: 1, ServingUnit: "medium", Calories: 95}

	t.Run("Triggers On Keyword And Maps Records", func(t *testing.T) {
		lookup := &mocks.MockFoodLookup{Result: []domain.FoodItem{apple, {Name: "banana"}}}
		ex := NewFoodExtractor(lookup)

		outputs, err := ex.Extract(context.Background(), "I ate an apple and a banana")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(lookup.Queries) != 1 {
			t.Fatalf("expected exactly 1 lookup call, got %d", len(lookup.Queries))
		}
		if lookup.Queries[0] != "I ate an apple and a banana" {
			t.Errorf("lookup received %q, want the full text", lookup.Queries[0])
		}
		if len(outputs) != 2 {
			t.Fatalf("expected 2 outputs, got %d", len(outputs))
		}

		var got domain.FoodItem
		if err := json.Unmarshal(outputs[0].Metadata, &got); err != nil {
			t.Fatalf("failed to unmarshal metadata: %v", err)
		}
		if got != apple {
			t.Errorf("metadata = %+v, want %+v", got, apple)
		}
	})

	t.Run("Drank Keyword Triggers", func(t *testing.T) {
		lookup := &mocks.MockFoodLookup{Result: []domain.FoodItem{apple}}
		ex := NewFoodExtractor(lookup)

		outputs, err := ex.Extract(context.Background(), "drank some juice")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(outputs) != 1 || len(lookup.Queries) != 1 {
			t.Errorf("expected 1 output and 1 lookup call, got %d and %d", len(outputs), len(lookup.Queries))
		}
	})

	t.Run("No Keyword Means No Network Call", func(t *testing.T) {
		lookup := &mocks.MockFoodLookup{Result: []domain.FoodItem{apple}}
		ex := NewFoodExtractor(lookup)

		outputs, err := ex.Extract(context.Background(), "went for a walk")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(outputs) != 0 {
			t.Errorf("expected no outputs, got %d", len(outputs))
		}
		if len(lookup.Queries) != 0 {
			t.Errorf("expected no lookup calls, got %d", len(lookup.Queries))
		}
	})

	t.Run("Lookup Failure Propagates", func(t *testing.T) {
		lookup := &mocks.MockFoodLookup{Err: errors.New("upstream 500")}
		ex := NewFoodExtractor(lookup)

		if _, err := ex.Extract(context.Background(), "ate lunch"); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}
