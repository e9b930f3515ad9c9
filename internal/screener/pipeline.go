// internal/screener/pipeline.go
package screener

import (
	"context"

	"go.uber.org/zap"

	"github.com/solwatch/screener-bot/internal/token"
	"github.com/solwatch/screener-bot/internal/trade"
)

// Classification thresholds. First match wins.
const (
	pumpedPriceChange  = 100.0
	ruggedPriceChange  = -90.0
	ruggedMaxLiquidity = 1000.0
	tier1MinVolume     = 1_000_000.0
	tier1MinLiquidity  = 250_000.0
)

// RiskVerifier classifies a token via an external risk report, recording
// the outcome on the token.
type RiskVerifier interface {
	Verify(ctx context.Context, t *token.Token) bool
}

// Trader submits one trade instruction and reports whether it was accepted.
type Trader interface {
	Trade(ctx context.Context, t *token.Token, action trade.Action, amount float64) bool
}

// BlacklistStore reads and mutates the persistent token/developer blacklists.
type BlacklistStore interface {
	IsBlacklisted(coin, dev string) bool
	Blacklist(coin, dev string) error
}

// Pipeline runs the ordered evaluation chain for one fetched token payload:
// parse, social presence, risk verification, supply concentration, the
// combined blacklist/filter/fake-volume gate, then classification with an
// optional buy.
type Pipeline struct {
	filters   *FilterEngine
	risk      RiskVerifier
	trader    Trader
	blacklist BlacklistStore
	amountSol float64
	logger    *zap.Logger
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Filters   *FilterEngine
	Risk      RiskVerifier
	Trader    Trader
	Blacklist BlacklistStore
	AmountSol float64
	Logger    *zap.Logger
}

// NewPipeline creates an evaluation pipeline.
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	return &Pipeline{
		filters:   cfg.Filters,
		risk:      cfg.Risk,
		trader:    cfg.Trader,
		blacklist: cfg.Blacklist,
		amountSol: cfg.AmountSol,
		logger:    cfg.Logger.Named("pipeline"),
	}
}

// Evaluate runs the full chain for one pair payload. Rejections return
// (nil, nil) and persist nothing; only a malformed payload returns an error.
func (p *Pipeline) Evaluate(ctx context.Context, pair *token.Pair) (*token.Token, error) {
	t, err := token.Parse(pair)
	if err != nil {
		return nil, err
	}
	priceChange24h := float64(pair.PriceChange.H24)

	if !p.filters.HasSocials(t) {
		p.logger.Debug("rejected: missing socials", zap.String("token", t.Address))
		return nil, nil
	}

	if !p.risk.Verify(ctx, t) {
		if err := p.blacklist.Blacklist(t.Address, t.DevAddress); err != nil {
			p.logger.Error("blacklist update failed",
				zap.String("token", t.Address),
				zap.Error(err))
		}
		p.logger.Info("rejected: risk verification",
			zap.String("token", t.Address),
			zap.String("rugcheck_status", string(t.RugcheckStatus)))
		return nil, nil
	}

	if p.filters.BundledSupply(t) {
		p.logger.Debug("rejected: bundled supply", zap.String("token", t.Address))
		return nil, nil
	}

	// All three predicates run unconditionally so the fake-volume flag is
	// always recorded on the token before the gate decides.
	blacklisted := p.blacklist.IsBlacklisted(t.Address, t.DevAddress)
	passesFilters := p.filters.PassesFilters(t, priceChange24h)
	fakeVolume := p.filters.FakeVolume(t, priceChange24h)
	if blacklisted || !passesFilters || fakeVolume {
		p.logger.Debug("rejected: combined gate",
			zap.String("token", t.Address),
			zap.Bool("blacklisted", blacklisted),
			zap.Bool("passes_filters", passesFilters),
			zap.Bool("fake_volume", fakeVolume))
		return nil, nil
	}

	switch {
	case priceChange24h > pumpedPriceChange:
		t.Status = token.StatusPumped
		p.trader.Trade(ctx, t, trade.ActionBuy, p.amountSol)
	case priceChange24h < ruggedPriceChange && t.Liquidity < ruggedMaxLiquidity:
		t.Status = token.StatusRugged
	case t.Volume24h > tier1MinVolume && t.Liquidity > tier1MinLiquidity:
		t.Status = token.StatusTier1
		p.trader.Trade(ctx, t, trade.ActionBuy, p.amountSol)
	default:
		t.Status = token.StatusDead
	}

	return t, nil
}
