// internal/screener/filters.go
package screener

import (
	"math"

	"github.com/solwatch/screener-bot/internal/config"
	"github.com/solwatch/screener-bot/internal/token"
)

const (
	// Volume above this multiple of the configured minimum, paired with a
	// nearly flat price, is treated as wash trading.
	fakeVolumeMultiplier = 10
	flatPriceBandPercent = 5.0
)

// FilterEngine evaluates the heuristic predicates of the pipeline against
// a token snapshot and the static filter configuration.
type FilterEngine struct {
	filters          config.Filters
	bundledThreshold float64
}

// NewFilterEngine binds the engine to the configured thresholds.
func NewFilterEngine(filters config.Filters, supply config.SupplyCheck) *FilterEngine {
	return &FilterEngine{
		filters:          filters,
		bundledThreshold: supply.BundledThreshold,
	}
}

// HasSocials reports whether the token has at least one website and one
// social media link.
func (e *FilterEngine) HasSocials(t *token.Token) bool {
	return len(t.Websites) > 0 && len(t.Socials) > 0
}

// BundledSupply estimates holder concentration from the liquidity/FDV ratio
// and flags the token when it crosses the configured threshold.
func (e *FilterEngine) BundledSupply(t *token.Token) bool {
	topHolderRatio := 0.0
	if t.FDV > 0 {
		topHolderRatio = 1 - t.Liquidity/t.FDV
	}
	bundled := topHolderRatio > e.bundledThreshold
	t.SupplyBundled = bundled
	return bundled
}

// FakeVolume flags reported volume inconsistent with price movement.
// The flag sticks on the token when detected.
func (e *FilterEngine) FakeVolume(t *token.Token, priceChange24h float64) bool {
	if t.Volume24h > e.filters.MinVolume24h*fakeVolumeMultiplier &&
		math.Abs(priceChange24h) < flatPriceBandPercent {
		t.FakeVolumeDetected = true
		return true
	}
	return false
}

// PassesFilters applies the four configured numeric thresholds. All must hold.
func (e *FilterEngine) PassesFilters(t *token.Token, priceChange24h float64) bool {
	return t.Liquidity >= e.filters.MinLiquidity &&
		t.Volume24h >= e.filters.MinVolume24h &&
		t.FDV >= e.filters.MinFDV &&
		math.Abs(priceChange24h) <= e.filters.MaxPriceChange24h
}
