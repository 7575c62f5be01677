package domain

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of structured fact extracted from a log's text.
type EventType string

const (
	EventWakeup EventType = "wakeup"
	EventSleep  EventType = "sleep"
	EventAte    EventType = "ate"
)

// Event is a structured fact derived from a single log. Events are created
// strictly after their owning log and are never mutated or deleted.
type Event struct {
	ID        string          `json:"id"`
	LogID     string          `json:"log_id"`
	Type      EventType       `json:"type"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventOutput is the transient result of an extractor: a typed fact that has
// not yet been associated with a persisted log.
type EventOutput struct {
	Type     EventType
	Metadata json.RawMessage
}

// FoodItem is one structured nutrition record returned by the enrichment
// service. Field tags mirror the upstream wire format so the record is
// stored verbatim as event metadata.
type FoodItem struct {
	Name              string    `json:"food_name"`
	ServingQty        float64   `json:"serving_qty"`
	ServingUnit       string    `json:"serving_unit"`
	Calories          float64   `json:"nf_calories"`
	TotalFat          float64   `json:"nf_total_fat"`
	TotalCarbohydrate float64   `json:"nf_total_carbohydrate"`
	Protein           float64   `json:"nf_protein"`
	Photo             FoodPhoto `json:"photo"`
}

// FoodPhoto carries optional image references for a food item.
type FoodPhoto struct {
	Thumb   string `json:"thumb,omitempty"`
	Highres string `json:"highres,omitempty"`
}
