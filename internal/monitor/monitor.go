package monitor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"poolmon/internal/chain"
	"poolmon/internal/model"
	"poolmon/internal/pricing"
	"poolmon/internal/sink"
)

// CycleStatus is the outcome of one polling cycle.
type CycleStatus string

const (
	StatusOK      CycleStatus = "ok"
	StatusSkipped CycleStatus = "skipped"
	StatusFailed  CycleStatus = "failed"
)

// Observer is notified after every cycle.
type Observer interface {
	ObserveCycle(pool model.Address, status CycleStatus, elapsed time.Duration)
}

// Config holds runtime settings for one pool monitor.
type Config struct {
	Pool         model.Address
	RPCURL       string
	Interval     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithObserver registers an observer for cycle outcomes.
func WithObserver(observer Observer) Option {
	return func(m *Monitor) {
		m.observer = observer
	}
}

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// Monitor polls one pool and derives a PriceReport per cycle.
type Monitor struct {
	cfg      Config
	reader   chain.ContractReader
	sink     sink.Sink
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
	retry    retryPolicy
	meta     *metadataCache
}

// New builds a Monitor. Configuration problems are reported as ErrInvalidConfig.
func New(cfg Config, reader chain.ContractReader, out sink.Sink, logger *zap.Logger, opts ...Option) (*Monitor, error) {
	if _, err := chain.ParseEndpoint(cfg.RPCURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if cfg.Pool.IsZero() {
		return nil, fmt.Errorf("%w: pool address is required", ErrInvalidConfig)
	}
	if reader == nil {
		return nil, fmt.Errorf("%w: contract reader is nil", ErrInvalidConfig)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: sink is nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		cfg:      cfg,
		reader:   reader,
		sink:     out,
		logger:   logger.With(zap.String("pool", cfg.Pool.Hex())),
		now:      time.Now,
		retry:    retryPolicy{maxRetries: cfg.MaxRetries, backoff: cfg.RetryBackoff},
		meta:     newMetadataCache(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Pool returns the monitored pool address.
func (m *Monitor) Pool() model.Address {
	return m.cfg.Pool
}

// ResolveTokens returns the pool's token0 (X side) and token1 (Y side).
func (m *Monitor) ResolveTokens(ctx context.Context) (model.Address, model.Address, error) {
	if x, y, ok := m.meta.tokens(); ok {
		return x, y, nil
	}

	x, err := m.resolveToken(ctx, chain.EntryToken0)
	if err != nil {
		return model.Address{}, model.Address{}, err
	}
	y, err := m.resolveToken(ctx, chain.EntryToken1)
	if err != nil {
		return model.Address{}, model.Address{}, err
	}

	x, y, stored := m.meta.storeTokens(x, y)
	if stored {
		m.logger.Info("tokens resolved", zap.String("token_x", x.Hex()), zap.String("token_y", y.Hex()))
	}
	return x, y, nil
}

func (m *Monitor) resolveToken(ctx context.Context, entryPoint string) (model.Address, error) {
	values, err := m.call(ctx, m.cfg.Pool, entryPoint)
	if err != nil {
		return model.Address{}, err
	}
	if len(values) == 0 {
		return model.Address{}, fmt.Errorf("%w: %s returned no values", ErrMalformedResponse, entryPoint)
	}
	token, err := model.AddressFromBig(values[0])
	if err != nil {
		return model.Address{}, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, entryPoint, err)
	}
	return token, nil
}

// ResolveDecimals returns the token's decimals, calling the chain once per token.
// A value that is not a uint8 is malformed. A uint8 above pricing.MaxDecimals is
// a real token this monitor does not price and yields ErrUnsupportedDecimals.
func (m *Monitor) ResolveDecimals(ctx context.Context, token model.Address) (uint8, error) {
	if decimals, ok := m.meta.tokenDecimals(token); ok {
		return decimals, nil
	}

	values, err := m.call(ctx, token, chain.EntryDecimals)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: decimals of %s returned no values", ErrMalformedResponse, token.Hex())
	}
	raw := values[0]
	if raw == nil || raw.Sign() < 0 || raw.BitLen() > 8 {
		return 0, fmt.Errorf("%w: decimals of %s is not a uint8: %v", ErrMalformedResponse, token.Hex(), raw)
	}
	if raw.Uint64() > pricing.MaxDecimals {
		return 0, fmt.Errorf("%w: token %s has %s decimals, the supported maximum is %d",
			ErrUnsupportedDecimals, token.Hex(), raw, pricing.MaxDecimals)
	}

	decimals := m.meta.storeDecimals(token, uint8(raw.Uint64()))
	m.logger.Debug("token decimals resolved", zap.String("token", token.Hex()), zap.Uint8("decimals", decimals))
	return decimals, nil
}

// TokenMeta resolves both tokens with their decimals.
func (m *Monitor) TokenMeta(ctx context.Context) (model.TokenMeta, model.TokenMeta, error) {
	x, y, err := m.ResolveTokens(ctx)
	if err != nil {
		return model.TokenMeta{}, model.TokenMeta{}, err
	}
	decimalsX, err := m.ResolveDecimals(ctx, x)
	if err != nil {
		return model.TokenMeta{}, model.TokenMeta{}, err
	}
	decimalsY, err := m.ResolveDecimals(ctx, y)
	if err != nil {
		return model.TokenMeta{}, model.TokenMeta{}, err
	}
	return model.TokenMeta{Address: x, Decimals: decimalsX}, model.TokenMeta{Address: y, Decimals: decimalsY}, nil
}

// FetchReserves returns the raw get_reserves components.
func (m *Monitor) FetchReserves(ctx context.Context) ([]*big.Int, error) {
	values, err := m.call(ctx, m.cfg.Pool, chain.EntryGetReserves)
	if err != nil {
		return nil, err
	}
	if len(values) < pricing.ReserveComponents {
		return nil, fmt.Errorf("%w: get_reserves returned %d values, want at least %d", ErrMalformedResponse, len(values), pricing.ReserveComponents)
	}
	for i, value := range values[:pricing.ReserveComponents] {
		if value == nil || value.Sign() < 0 {
			return nil, fmt.Errorf("%w: get_reserves value %d is %v", ErrMalformedResponse, i, value)
		}
	}
	return values, nil
}

// FetchInvariant returns klast as the sum of its two components.
func (m *Monitor) FetchInvariant(ctx context.Context) (*big.Int, error) {
	values, err := m.call(ctx, m.cfg.Pool, chain.EntryKLast)
	if err != nil {
		return nil, err
	}
	if len(values) != pricing.InvariantComponents {
		return nil, fmt.Errorf("%w: klast returned %d values, want %d", ErrMalformedResponse, len(values), pricing.InvariantComponents)
	}
	return pricing.SumComponents(values), nil
}

// RunCycle reads the pool once and derives balances, k and prices.
func (m *Monitor) RunCycle(ctx context.Context) (model.PriceReport, error) {
	tokenX, tokenY, err := m.TokenMeta(ctx)
	if err != nil {
		return model.PriceReport{}, err
	}

	reserves, err := m.FetchReserves(ctx)
	if err != nil {
		return model.PriceReport{}, err
	}
	reserveX, reserveY, err := pricing.SplitReserves(reserves)
	if err != nil {
		return model.PriceReport{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	k, err := m.FetchInvariant(ctx)
	if err != nil {
		return model.PriceReport{}, err
	}

	balanceX := pricing.Balance(reserveX, tokenX.Decimals)
	balanceY := pricing.Balance(reserveY, tokenY.Decimals)
	priceX, priceY, err := pricing.Prices(balanceX, balanceY)
	if err != nil {
		return model.PriceReport{}, err
	}

	return model.PriceReport{
		Pool:       m.cfg.Pool,
		TokenX:     tokenX.Address,
		TokenY:     tokenY.Address,
		DecimalsX:  tokenX.Decimals,
		DecimalsY:  tokenY.Decimals,
		ReserveX:   reserveX,
		ReserveY:   reserveY,
		K:          k,
		XBalance:   balanceX,
		YBalance:   balanceY,
		XPrice:     priceX,
		YPrice:     priceY,
		ObservedAt: m.now().UTC(),
	}, nil
}

// Start runs cycles until ctx is cancelled or a cycle fails with a
// non-recoverable error. Zero-liquidity cycles are logged and skipped.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("monitor start",
		zap.Duration("interval", m.cfg.Interval),
		zap.Int("max_retries", m.cfg.MaxRetries),
	)

	for {
		started := m.now()
		report, err := m.RunCycle(ctx)
		switch {
		case err == nil:
			if err := m.sink.Emit(ctx, report); err != nil {
				m.observe(StatusFailed, started)
				return fmt.Errorf("emit report: %w", err)
			}
			m.observe(StatusOK, started)
		case Recoverable(err):
			m.logger.Warn("cycle skipped", zap.Error(err))
			m.observe(StatusSkipped, started)
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.observe(StatusFailed, started)
			m.logger.Error("cycle failed", zap.Error(err))
			return err
		}

		if err := m.wait(ctx); err != nil {
			m.logger.Info("monitor stop", zap.Error(err))
			return err
		}
	}
}

func (m *Monitor) wait(ctx context.Context) error {
	timer := time.NewTimer(m.cfg.Interval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *Monitor) observe(status CycleStatus, started time.Time) {
	if m.observer == nil {
		return
	}
	m.observer.ObserveCycle(m.cfg.Pool, status, m.now().Sub(started))
}

func (m *Monitor) call(ctx context.Context, contract model.Address, entryPoint string) ([]*big.Int, error) {
	var values []*big.Int
	err := m.retry.run(ctx, func(ctx context.Context) error {
		var err error
		values, err = m.reader.Call(ctx, contract, entryPoint)
		return err
	}, func(attempt int, final bool, err error) {
		m.logger.Warn("contract call failed",
			zap.String("contract", contract.Hex()),
			zap.String("entry_point", entryPoint),
			zap.Int("attempt", attempt),
			zap.Bool("retrying", !final),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", entryPoint, contract.Hex(), err)
	}
	return values, nil
}
