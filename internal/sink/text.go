package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"

	"poolmon/internal/model"
	"poolmon/internal/pricing"
)

// Separator closes every text report.
const Separator = "- - - - - - - - - - - -"

// TextSink writes line-oriented reports. Writes are serialized so concurrent
// monitors never interleave lines.
type TextSink struct {
	mu             sync.Mutex
	w              io.Writer
	pricePrecision int32
}

func NewTextSink(w io.Writer, pricePrecision int32) *TextSink {
	return &TextSink{w: w, pricePrecision: pricePrecision}
}

// Emit writes pool, balances, k, prices and the separator.
func (s *TextSink) Emit(_ context.Context, report model.PriceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writer := bufio.NewWriter(s.w)
	lines := []string{
		"pool: " + report.Pool.Hex(),
		"x_balance: " + pricing.FormatBalance(report.XBalance, report.DecimalsX),
		"y_balance: " + pricing.FormatBalance(report.YBalance, report.DecimalsY),
		"k: " + intString(report.K),
		"x_price: " + pricing.FormatRat(report.XPrice, s.pricePrecision),
		"y_price: " + pricing.FormatRat(report.YPrice, s.pricePrecision),
		Separator,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

func intString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}
