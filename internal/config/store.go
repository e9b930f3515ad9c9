// internal/config/store.go
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// Store owns the loaded configuration and its mutable blacklist sets.
// All reads are snapshot-style; Blacklist is the only mutation and rewrites
// the config file synchronously so bans survive restarts.
type Store struct {
	mu    sync.Mutex
	v     *viper.Viper
	cfg   *Config
	coins map[string]struct{}
	devs  map[string]struct{}
}

func newStore(v *viper.Viper, cfg *Config) *Store {
	s := &Store{
		v:     v,
		cfg:   cfg,
		coins: make(map[string]struct{}, len(cfg.BlacklistedCoins)),
		devs:  make(map[string]struct{}, len(cfg.BlacklistedDevs)),
	}
	for _, addr := range cfg.BlacklistedCoins {
		s.coins[addr] = struct{}{}
	}
	for _, addr := range cfg.BlacklistedDevs {
		s.devs[addr] = struct{}{}
	}
	return s
}

// Config returns the loaded configuration. Callers treat it as read-only.
func (s *Store) Config() *Config {
	return s.cfg
}

// IsBlacklisted reports whether the token address or its developer address
// is banned. An empty developer address never matches.
func (s *Store) IsBlacklisted(coin, dev string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dev != "" {
		if _, ok := s.devs[dev]; ok {
			return true
		}
	}
	_, ok := s.coins[coin]
	return ok
}

// Blacklist adds the token address and, when set, its developer address to
// the blacklists and persists the configuration. Idempotent: addresses
// already present are not duplicated and cause no rewrite on their own.
func (s *Store) Blacklist(coin, dev string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if _, ok := s.coins[coin]; !ok {
		s.coins[coin] = struct{}{}
		s.cfg.BlacklistedCoins = append(s.cfg.BlacklistedCoins, coin)
		changed = true
	}
	if dev != "" {
		if _, ok := s.devs[dev]; !ok {
			s.devs[dev] = struct{}{}
			s.cfg.BlacklistedDevs = append(s.cfg.BlacklistedDevs, dev)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	s.v.Set("blacklisted_coins", s.cfg.BlacklistedCoins)
	s.v.Set("blacklisted_devs", s.cfg.BlacklistedDevs)
	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("persist blacklists: %w", err)
	}
	return nil
}

// BlacklistedCoinCount returns the number of banned token addresses.
func (s *Store) BlacklistedCoinCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.coins)
}
