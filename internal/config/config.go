// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application settings loaded from config.json.
type Config struct {
	API              APISettings         `mapstructure:"api_settings"`
	Telegram         TelegramSettings    `mapstructure:"telegram_settings"`
	Transaction      TransactionSettings `mapstructure:"transaction_settings"`
	Filters          Filters             `mapstructure:"filters"`
	SupplyCheck      SupplyCheck         `mapstructure:"supply_check"`
	BlacklistedCoins []string            `mapstructure:"blacklisted_coins"`
	BlacklistedDevs  []string            `mapstructure:"blacklisted_devs"`
}

// APISettings groups the upstream endpoints and the per-token request delay.
type APISettings struct {
	DexScreenerURL  string        `mapstructure:"dexscreener_api_url"`
	RugcheckURL     string        `mapstructure:"rugcheck_url"`
	RequestDelay    time.Duration `mapstructure:"-"`
	RequestDelaySec int           `mapstructure:"request_delay"`
	PumpPortalKey   string        `mapstructure:"pump_portal_api_key"`
	SolanaRPCURL    string        `mapstructure:"solana_rpc_url"`
	WalletPublicKey string        `mapstructure:"solana_wallet_public_key"`
}

// TelegramSettings configures the notification sink.
type TelegramSettings struct {
	BotToken string `mapstructure:"telegram_bot_token"`
	ChatID   int64  `mapstructure:"telegram_chat_id"`
}

// TransactionSettings holds the trade parameters passed to the relay.
type TransactionSettings struct {
	Slippage      float64 `mapstructure:"slippage"`
	AmountInSol   float64 `mapstructure:"amountInSol"`
	AmountInToken float64 `mapstructure:"amountInToken"`
	MinSolBalance float64 `mapstructure:"minSolBalance"`
}

// Filters holds the numeric thresholds of the filter engine.
type Filters struct {
	MinLiquidity      float64 `mapstructure:"min_liquidity"`
	MinVolume24h      float64 `mapstructure:"min_volume_24h"`
	MinFDV            float64 `mapstructure:"min_fdv"`
	MaxPriceChange24h float64 `mapstructure:"max_price_change_24h"`
}

// SupplyCheck configures the supply-concentration heuristic.
type SupplyCheck struct {
	BundledThreshold float64 `mapstructure:"bundled_threshold"`
}

const (
	DefaultSlippage      = 5.0
	DefaultAmountInSol   = 0.05
	DefaultAmountInToken = 100.0
	DefaultMinSolBalance = 0.1
	DefaultRequestDelay  = 2
)

// Load reads configuration from the given file path and validates it.
// A missing or malformed file is fatal at startup.
func Load(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("transaction_settings.slippage", DefaultSlippage)
	v.SetDefault("transaction_settings.amountInSol", DefaultAmountInSol)
	v.SetDefault("transaction_settings.amountInToken", DefaultAmountInToken)
	v.SetDefault("transaction_settings.minSolBalance", DefaultMinSolBalance)
	v.SetDefault("api_settings.request_delay", DefaultRequestDelay)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	cfg.API.RequestDelay = time.Duration(cfg.API.RequestDelaySec) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return newStore(v, &cfg), nil
}

// validate checks required fields.
func (c *Config) validate() error {
	if c.API.DexScreenerURL == "" {
		return fmt.Errorf("api_settings.dexscreener_api_url is required")
	}
	if c.API.RugcheckURL == "" {
		return fmt.Errorf("api_settings.rugcheck_url is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram_settings.telegram_bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram_settings.telegram_chat_id is required")
	}
	if c.API.RequestDelaySec <= 0 {
		return fmt.Errorf("invalid api_settings.request_delay")
	}
	return nil
}
