package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"poolmon/internal/chain"
	"poolmon/internal/model"
	"poolmon/internal/monitor"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	Network        string
	Pools          []string
	Interval       int
	MaxRetries     int
	RetryBackoff   time.Duration
	PricePrecision int
	Out            string
	NATSURL        string
	NATSSubject    string
	MetricsAddr    string
	ABI            string
	LogLevel       string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLMON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", chain.NetworkStarknet)
	v.SetDefault("interval", 1)
	v.SetDefault("max-retries", 0)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("price-precision", 18)
	v.SetDefault("nats-subject", "poolmon.prices")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		Network:        strings.ToLower(strings.TrimSpace(v.GetString("network"))),
		Pools:          getStringSlice(v, "pool"),
		Interval:       v.GetInt("interval"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		PricePrecision: v.GetInt("price-precision"),
		Out:            v.GetString("out"),
		NATSURL:        v.GetString("nats-url"),
		NATSSubject:    v.GetString("nats-subject"),
		MetricsAddr:    v.GetString("metrics-addr"),
		ABI:            v.GetString("abi"),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the values a monitor cannot start without.
func (c Config) Validate() error {
	if _, err := c.PoolAddresses(); err != nil {
		return err
	}
	if c.RPCURL == "" {
		return fmt.Errorf("%w: rpc url is required", monitor.ErrInvalidConfig)
	}
	if _, err := chain.ParseEndpoint(c.RPCURL); err != nil {
		return fmt.Errorf("%w: %v", monitor.ErrInvalidConfig, err)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be a positive number of seconds, got %d", monitor.ErrInvalidConfig, c.Interval)
	}
	switch c.Network {
	case chain.NetworkStarknet, chain.NetworkEVM:
	default:
		return fmt.Errorf("%w: unknown network %q", monitor.ErrInvalidConfig, c.Network)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max-retries must not be negative", monitor.ErrInvalidConfig)
	}
	if c.PricePrecision < 0 {
		return fmt.Errorf("%w: price-precision must not be negative", monitor.ErrInvalidConfig)
	}
	if c.NATSURL != "" && strings.TrimSpace(c.NATSSubject) == "" {
		return fmt.Errorf("%w: nats-subject is required with nats-url", monitor.ErrInvalidConfig)
	}
	return nil
}

// PoolAddresses parses the configured pools. Duplicates are rejected.
func (c Config) PoolAddresses() ([]model.Address, error) {
	if len(c.Pools) == 0 {
		return nil, fmt.Errorf("%w: at least one pool address is required", monitor.ErrInvalidConfig)
	}
	seen := make(map[model.Address]struct{}, len(c.Pools))
	out := make([]model.Address, 0, len(c.Pools))
	for _, raw := range c.Pools {
		addr, err := model.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: pool %q: %v", monitor.ErrInvalidConfig, raw, err)
		}
		if addr.IsZero() {
			return nil, fmt.Errorf("%w: pool %q is the zero address", monitor.ErrInvalidConfig, raw)
		}
		if _, ok := seen[addr]; ok {
			return nil, fmt.Errorf("%w: pool %s listed twice", monitor.ErrInvalidConfig, addr.Hex())
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out, nil
}

// MonitorConfigs returns one monitor.Config per pool.
func (c Config) MonitorConfigs() ([]monitor.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pools, err := c.PoolAddresses()
	if err != nil {
		return nil, err
	}
	out := make([]monitor.Config, 0, len(pools))
	for _, pool := range pools {
		out = append(out, monitor.Config{
			Pool:         pool,
			RPCURL:       c.RPCURL,
			Interval:     time.Duration(c.Interval) * time.Second,
			MaxRetries:   c.MaxRetries,
			RetryBackoff: c.RetryBackoff,
		})
	}
	return out, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
