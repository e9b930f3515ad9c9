// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/solwatch/screener-bot/internal/token"
)

// Report aggregates the persisted tokens at the end of a pass. Status counts
// only cover tokens with neither the fake-volume nor the bundled-supply flag.
type Report struct {
	TotalTokens        int                  `json:"total_tokens"`
	StatusCounts       map[token.Status]int `json:"status_counts"`
	FakeVolumeDetected int                  `json:"fake_volume_detected"`
	BundledSupplyCount int                  `json:"bundled_supply_count"`
	Blacklisted        int                  `json:"blacklisted"`
}

// Store persists classified tokens and aggregates them into reports.
type Store interface {
	// SaveToken upserts the token's current state keyed by address and
	// appends one history event for this evaluation.
	SaveToken(ctx context.Context, t *token.Token) error

	// Report aggregates the persisted token table.
	Report(ctx context.Context) (*Report, error)

	Close() error
}
