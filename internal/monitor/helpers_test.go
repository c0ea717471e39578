package monitor

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"poolmon/internal/chain"
	"poolmon/internal/model"
	"poolmon/internal/pricing"
)

var (
	testPool   = mustAddress("0x04d0390b777b424e43839cd1e744799f3de6c176c7e32c1812a41dbd9c19db6a")
	testTokenX = mustAddress("0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7")
	testTokenY = mustAddress("0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8")
)

func mustAddress(input string) model.Address {
	addr, err := model.ParseAddress(input)
	if err != nil {
		panic(err)
	}
	return addr
}

var errNoResponse = errors.New("no canned response")

type callKey struct {
	contract   model.Address
	entryPoint string
}

// fakeReader serves canned results keyed by contract and entry point.
type fakeReader struct {
	mu        sync.Mutex
	responses map[callKey][]*big.Int
	errs      map[callKey][]error
	calls     map[callKey]int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		responses: make(map[callKey][]*big.Int),
		errs:      make(map[callKey][]error),
		calls:     make(map[callKey]int),
	}
}

func (f *fakeReader) set(contract model.Address, entryPoint string, values ...*big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[callKey{contract, entryPoint}] = values
}

// failNext queues errors returned before the canned response.
func (f *fakeReader) failNext(contract model.Address, entryPoint string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := callKey{contract, entryPoint}
	f.errs[key] = append(f.errs[key], errs...)
}

func (f *fakeReader) count(contract model.Address, entryPoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[callKey{contract, entryPoint}]
}

func (f *fakeReader) Call(_ context.Context, contract model.Address, entryPoint string, _ ...*big.Int) ([]*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := callKey{contract, entryPoint}
	f.calls[key]++
	if queued := f.errs[key]; len(queued) > 0 {
		f.errs[key] = queued[1:]
		return nil, queued[0]
	}
	values, ok := f.responses[key]
	if !ok {
		return nil, errNoResponse
	}
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = new(big.Int).Set(v)
	}
	return out, nil
}

// scenarioReader models a pool with 1000 X (18 decimals) and 2000 Y (6 decimals).
func scenarioReader() *fakeReader {
	reader := newFakeReader()
	reader.set(testPool, chain.EntryToken0, testTokenX.Big())
	reader.set(testPool, chain.EntryToken1, testTokenY.Big())
	reader.set(testTokenX, chain.EntryDecimals, big.NewInt(18))
	reader.set(testTokenY, chain.EntryDecimals, big.NewInt(6))
	reader.set(testPool, chain.EntryGetReserves,
		new(big.Int).Mul(big.NewInt(1000), pricing.UnitScale(18)),
		big.NewInt(0),
		new(big.Int).Mul(big.NewInt(2000), pricing.UnitScale(6)),
		big.NewInt(0),
	)
	reader.set(testPool, chain.EntryKLast, big.NewInt(500), big.NewInt(500))
	return reader
}

type recordingSink struct {
	mu      sync.Mutex
	reports []model.PriceReport
	err     error
	emitted chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{emitted: make(chan struct{}, 64)}
}

func (s *recordingSink) Emit(_ context.Context, report model.PriceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, report)
	select {
	case s.emitted <- struct{}{}:
	default:
	}
	return nil
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []CycleStatus
}

func (o *recordingObserver) ObserveCycle(_ model.Address, status CycleStatus, _ time.Duration) {
	o.mu.Lock()
	o.statuses = append(o.statuses, status)
	o.mu.Unlock()
}

func (o *recordingObserver) snapshot() []CycleStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]CycleStatus(nil), o.statuses...)
}

func testConfig() Config {
	return Config{
		Pool:         testPool,
		RPCURL:       "https://starknet-mainnet.public.blastapi.io",
		Interval:     10 * time.Millisecond,
		RetryBackoff: time.Millisecond,
	}
}

func newTestMonitor(t *testing.T, reader chain.ContractReader, out *recordingSink, opts ...Option) *Monitor {
	t.Helper()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	m, err := New(testConfig(), reader, out, nil, opts...)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	return m
}
