// internal/storage/sqlite/sqlite_test.go
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/solwatch/screener-bot/internal/token"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleToken(address string, status token.Status) *token.Token {
	now := time.Now()
	return &token.Token{
		Address:        address,
		Symbol:         "SMPL",
		Name:           "Sample",
		ChainID:        "solana",
		DexID:          "raydium",
		FirstSeen:      now,
		LastUpdated:    now,
		CurrentPrice:   0.05,
		MinPrice:       0.05,
		MaxPrice:       0.05,
		Volume24h:      60000,
		Liquidity:      20000,
		FDV:            150000,
		Status:         status,
		RugcheckStatus: token.RugcheckGood,
	}
}

func TestSaveTokenUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tok := sampleToken("Mint111", token.StatusNormal)
	require.NoError(t, store.SaveToken(ctx, tok))

	// Saving the same address again overwrites the row instead of adding one.
	tok.Status = token.StatusPumped
	tok.CurrentPrice = 0.2
	require.NoError(t, store.SaveToken(ctx, tok))

	var count int
	require.NoError(t, store.db.Get(&count, `SELECT COUNT(*) FROM token`))
	assert.Equal(t, 1, count)

	var status string
	require.NoError(t, store.db.Get(&status,
		`SELECT status FROM token WHERE token_address = ?`, "Mint111"))
	assert.Equal(t, "pumped", status)
}

func TestSaveTokenAppendsHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tok := sampleToken("Mint111", token.StatusNormal)
	require.NoError(t, store.SaveToken(ctx, tok))
	require.NoError(t, store.SaveToken(ctx, tok))

	var count int
	require.NoError(t, store.db.Get(&count,
		`SELECT COUNT(*) FROM token_history WHERE token_address = ?`, "Mint111"))
	assert.Equal(t, 2, count)
}

func TestReportAggregation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, sampleToken("Clean111", token.StatusNormal)))

	fake := sampleToken("Fake111", token.StatusNormal)
	fake.FakeVolumeDetected = true
	require.NoError(t, store.SaveToken(ctx, fake))

	bundled := sampleToken("Bundled111", token.StatusNormal)
	bundled.SupplyBundled = true
	require.NoError(t, store.SaveToken(ctx, bundled))

	report, err := store.Report(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalTokens)
	assert.Equal(t, 1, report.StatusCounts[token.StatusNormal])
	assert.Equal(t, 1, report.FakeVolumeDetected)
	assert.Equal(t, 1, report.BundledSupplyCount)
}

func TestReportOnEmptyDatabase(t *testing.T) {
	store := newTestStore(t)

	report, err := store.Report(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalTokens)
	assert.Zero(t, report.FakeVolumeDetected)
	assert.Zero(t, report.BundledSupplyCount)

	// Every status appears in the counts even with no rows.
	for _, status := range []token.Status{
		token.StatusNormal, token.StatusPumped, token.StatusRugged,
		token.StatusTier1, token.StatusDead,
	} {
		count, ok := report.StatusCounts[status]
		assert.True(t, ok)
		assert.Zero(t, count)
	}
}
