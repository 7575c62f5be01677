package usecase

import (
	"context"
	"fmt"

	"github.com/morgangallant/logs-old/internal/domain"
)

// Pipeline runs a fixed, ordered list of extractors over one message's
// text. Extractors are independent of each other, and invocation is
// sequential so that outputs always appear in extractor order. A single
// extractor failure aborts the pipeline and discards everything collected
// so far; there is no per-extractor isolation.
type Pipeline struct {
	extractors []domain.Extractor
}

// NewPipeline creates a pipeline over the given extractors. Order is
// preserved in the concatenated output.
func NewPipeline(extractors ...domain.Extractor) *Pipeline {
	return &Pipeline{extractors: extractors}
}

// DefaultPipeline assembles the standard extractor set: wake-up marker,
// sleep marker, then food intake.
func DefaultPipeline(lookup domain.FoodLookup) *Pipeline {
	return NewPipeline(
		NewWakeupExtractor(),
		NewSleepExtractor(),
		NewFoodExtractor(lookup),
	)
}

// Run invokes every extractor in order and concatenates their outputs.
func (p *Pipeline) Run(ctx context.Context, text string) ([]domain.EventOutput, error) {
	var outputs []domain.EventOutput
	for _, ex := range p.extractors {
		out, err := ex.Extract(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("extractor %q: %w", ex.Name(), err)
		}
		outputs = append(outputs, out...)
	}
	return outputs, nil
}
