// internal/token/token.go
package token

import (
	"fmt"
	"time"
)

// Status classifies a token after a full evaluation pass.
type Status string

const (
	StatusNormal Status = "normal"
	StatusPumped Status = "pumped"
	StatusRugged Status = "rugged"
	StatusTier1  Status = "tier1"
	StatusDead   Status = "dead"
)

// RugcheckStatus is the outcome of the external risk-report verification.
type RugcheckStatus string

const (
	RugcheckUnknown RugcheckStatus = "unknown"
	RugcheckGood    RugcheckStatus = "good"
	RugcheckRug     RugcheckStatus = "rug"
	RugcheckError   RugcheckStatus = "error"
)

// Token holds everything tracked about one on-chain token address.
// A token's identity is its address; re-processing the same address
// overwrites mutable fields, it never creates a second record.
type Token struct {
	Address            string         `db:"token_address"`
	Symbol             string         `db:"symbol"`
	Name               string         `db:"name"`
	ChainID            string         `db:"chain_id"`
	DexID              string         `db:"dex_id"`
	DevAddress         string         `db:"dev_address"`
	FirstSeen          time.Time      `db:"first_seen"`
	LastUpdated        time.Time      `db:"last_updated"`
	MaxPrice           float64        `db:"max_price"`
	MinPrice           float64        `db:"min_price"`
	CurrentPrice       float64        `db:"current_price"`
	Volume24h          float64        `db:"volume_24h"`
	Liquidity          float64        `db:"liquidity"`
	FDV                float64        `db:"fdv"`
	Status             Status         `db:"status"`
	FakeVolumeDetected bool           `db:"fake_volume_detected"`
	RugcheckStatus     RugcheckStatus `db:"rugcheck_status"`
	SupplyBundled      bool           `db:"supply_bundled"`
	Websites           []string       `db:"-"`
	Socials            []string       `db:"-"`
}

// MissingFieldError reports a required key absent from an API payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Parse builds a Token from a DexScreener pair payload.
// Required base-token fields produce a MissingFieldError when absent;
// numeric fields are coerced to 0.0 on any conversion failure.
func Parse(pair *Pair) (*Token, error) {
	if pair.BaseToken == nil {
		return nil, &MissingFieldError{Field: "baseToken"}
	}
	if pair.BaseToken.Address == "" {
		return nil, &MissingFieldError{Field: "baseToken.address"}
	}
	if pair.BaseToken.Symbol == "" {
		return nil, &MissingFieldError{Field: "baseToken.symbol"}
	}
	if pair.BaseToken.Name == "" {
		return nil, &MissingFieldError{Field: "baseToken.name"}
	}

	price := float64(pair.PriceUsd)

	fdv := float64(pair.FDV)
	if fdv == 0 {
		fdv = float64(pair.MarketCap)
	}

	chainID := pair.ChainID
	if chainID == "" {
		chainID = "solana"
	}

	now := time.Now()
	return &Token{
		Address:        pair.BaseToken.Address,
		Symbol:         pair.BaseToken.Symbol,
		Name:           pair.BaseToken.Name,
		ChainID:        chainID,
		DexID:          poolCode(pair.DexID),
		FirstSeen:      now,
		LastUpdated:    now,
		CurrentPrice:   price,
		MaxPrice:       price,
		MinPrice:       price,
		Volume24h:      float64(pair.Volume.H24),
		Liquidity:      float64(pair.Liquidity.USD),
		FDV:            fdv,
		Status:         StatusNormal,
		RugcheckStatus: RugcheckUnknown,
		Websites:       pair.Info.websiteURLs(),
		Socials:        pair.Info.socialURLs(),
	}, nil
}

// UpdatePrice sets the current price, widens the running extrema and
// refreshes LastUpdated.
func (t *Token) UpdatePrice(newPrice float64) {
	t.CurrentPrice = newPrice
	if newPrice > t.MaxPrice {
		t.MaxPrice = newPrice
	}
	if newPrice < t.MinPrice {
		t.MinPrice = newPrice
	}
	t.LastUpdated = time.Now()
}

// poolCode normalizes a DexScreener venue name to the short pool code
// the trade relay understands. Unknown venues fall back to "auto".
func poolCode(dexID string) string {
	switch dexID {
	case "pumpfun":
		return "pump"
	case "raydium":
		return "raydium"
	default:
		return "auto"
	}
}
