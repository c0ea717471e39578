package sink

import (
	"math/big"
	"testing"
	"time"

	"poolmon/internal/model"
)

func sampleReport(t *testing.T) model.PriceReport {
	t.Helper()
	pool, err := model.ParseAddress("0x04d0390b777b424e43839cd1e744799f3de6c176c7e32c1812a41dbd9c19db6a")
	if err != nil {
		t.Fatalf("parse pool: %v", err)
	}
	reserveX, _ := new(big.Int).SetString("1000000000000000000000", 10)
	return model.PriceReport{
		Pool:       pool,
		DecimalsX:  18,
		DecimalsY:  6,
		ReserveX:   reserveX,
		ReserveY:   big.NewInt(2000000000),
		K:          big.NewInt(1000),
		XBalance:   big.NewRat(1000, 1),
		YBalance:   big.NewRat(2000, 1),
		XPrice:     big.NewRat(2, 1),
		YPrice:     big.NewRat(1, 2),
		ObservedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
