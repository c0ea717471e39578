package sink

import (
	"context"

	"poolmon/internal/model"
)

// Sink receives one report per successful cycle.
type Sink interface {
	Emit(ctx context.Context, report model.PriceReport) error
}

// Multi fans a report out to every sink in order, stopping at the first error.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, report model.PriceReport) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
