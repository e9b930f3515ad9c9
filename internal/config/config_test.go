// internal/config/config_test.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, body, 0o644))
	return path
}

func minimalConfig() map[string]any {
	return map[string]any{
		"api_settings": map[string]any{
			"dexscreener_api_url": "https://api.dexscreener.com",
			"rugcheck_url":        "https://api.rugcheck.xyz/v1/tokens",
		},
		"telegram_settings": map[string]any{
			"telegram_bot_token": "token",
			"telegram_chat_id":   123456,
		},
		"filters": map[string]any{
			"min_liquidity":        10000,
			"min_volume_24h":       50000,
			"min_fdv":              100000,
			"max_price_change_24h": 200,
		},
		"supply_check": map[string]any{
			"bundled_threshold": 0.9,
		},
	}
}

func TestLoad(t *testing.T) {
	store, err := Load(writeConfigFile(t, minimalConfig()))
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "https://api.dexscreener.com", cfg.API.DexScreenerURL)
	assert.Equal(t, int64(123456), cfg.Telegram.ChatID)
	assert.Equal(t, 10000.0, cfg.Filters.MinLiquidity)
	assert.Equal(t, 0.9, cfg.SupplyCheck.BundledThreshold)
}

func TestLoadAppliesDefaults(t *testing.T) {
	store, err := Load(writeConfigFile(t, minimalConfig()))
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, DefaultSlippage, cfg.Transaction.Slippage)
	assert.Equal(t, DefaultAmountInSol, cfg.Transaction.AmountInSol)
	assert.Equal(t, DefaultAmountInToken, cfg.Transaction.AmountInToken)
	assert.Equal(t, DefaultMinSolBalance, cfg.Transaction.MinSolBalance)
	assert.Equal(t, time.Duration(DefaultRequestDelay)*time.Second, cfg.API.RequestDelay)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"no dexscreener url", func(doc map[string]any) {
			doc["api_settings"].(map[string]any)["dexscreener_api_url"] = ""
		}},
		{"no rugcheck url", func(doc map[string]any) {
			doc["api_settings"].(map[string]any)["rugcheck_url"] = ""
		}},
		{"no bot token", func(doc map[string]any) {
			doc["telegram_settings"].(map[string]any)["telegram_bot_token"] = ""
		}},
		{"no chat id", func(doc map[string]any) {
			doc["telegram_settings"].(map[string]any)["telegram_chat_id"] = 0
		}},
		{"negative request delay", func(doc map[string]any) {
			doc["api_settings"].(map[string]any)["request_delay"] = -1
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := minimalConfig()
			tc.mutate(doc)
			_, err := Load(writeConfigFile(t, doc))
			assert.Error(t, err)
		})
	}
}

func TestBlacklist(t *testing.T) {
	path := writeConfigFile(t, minimalConfig())
	store, err := Load(path)
	require.NoError(t, err)

	assert.False(t, store.IsBlacklisted("Mint111", "Dev111"))

	require.NoError(t, store.Blacklist("Mint111", "Dev111"))
	assert.True(t, store.IsBlacklisted("Mint111", ""))
	assert.True(t, store.IsBlacklisted("Other111", "Dev111"))
	assert.False(t, store.IsBlacklisted("Other111", ""))
	assert.Equal(t, 1, store.BlacklistedCoinCount())

	// Idempotent: repeating the ban changes nothing.
	require.NoError(t, store.Blacklist("Mint111", "Dev111"))
	assert.Equal(t, 1, store.BlacklistedCoinCount())
	assert.Equal(t, []string{"Mint111"}, store.Config().BlacklistedCoins)
	assert.Equal(t, []string{"Dev111"}, store.Config().BlacklistedDevs)
}

func TestBlacklistPersistsToDisk(t *testing.T) {
	path := writeConfigFile(t, minimalConfig())
	store, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, store.Blacklist("Mint111", "Dev111"))

	// A fresh load from the rewritten file sees the bans.
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsBlacklisted("Mint111", ""))
	assert.True(t, reloaded.IsBlacklisted("Other111", "Dev111"))
}

func TestBlacklistEmptyDevAddress(t *testing.T) {
	store, err := Load(writeConfigFile(t, minimalConfig()))
	require.NoError(t, err)

	require.NoError(t, store.Blacklist("Mint111", ""))
	assert.True(t, store.IsBlacklisted("Mint111", ""))
	assert.Empty(t, store.Config().BlacklistedDevs)
}
