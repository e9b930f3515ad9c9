// internal/trade/executor.go
package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/screener-bot/internal/token"
)

// Action is the trade direction sent to the relay.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// priorityFeeSOL is the fixed priority fee attached to every relay order.
const priorityFeeSOL = 0.0001

const requestTimeout = 15 * time.Second

// BalanceSource reports the wallet's SOL balance. Implementations never
// fail; an unavailable balance reads as 0.0.
type BalanceSource interface {
	SolBalance(ctx context.Context) float64
}

// Notifier delivers a user-facing message; failures stay inside the sink.
type Notifier interface {
	Notify(text string)
}

// Executor submits buy and sell instructions to the trade relay, gated by
// a wallet balance precondition.
type Executor struct {
	endpoint      string
	httpc         *http.Client
	balance       BalanceSource
	notifier      Notifier
	slippage      float64
	minSolBalance float64
	logger        *zap.Logger
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	Endpoint      string
	Balance       BalanceSource
	Notifier      Notifier
	Slippage      float64
	MinSolBalance float64
	Logger        *zap.Logger
}

// NewExecutor creates a trade executor for the given relay endpoint.
func NewExecutor(cfg *ExecutorConfig) *Executor {
	return &Executor{
		endpoint:      cfg.Endpoint,
		httpc:         &http.Client{Timeout: requestTimeout},
		balance:       cfg.Balance,
		notifier:      cfg.Notifier,
		slippage:      cfg.Slippage,
		minSolBalance: cfg.MinSolBalance,
		logger:        cfg.Logger.Named("trade"),
	}
}

type relayResponse struct {
	Errors []json.RawMessage `json:"errors"`
}

// Trade submits one order to the relay. Buys require the wallet to cover the
// full amount; sells require the configured minimum SOL balance to remain.
// A failed precondition notifies the user and skips the relay call entirely.
// Returns whether the order was accepted; transport errors never propagate.
func (e *Executor) Trade(ctx context.Context, t *token.Token, action Action, amount float64) bool {
	e.logger.Info("submitting trade",
		zap.String("action", string(action)),
		zap.String("token", t.Address),
		zap.String("status", string(t.Status)),
		zap.Float64("amount", amount))

	balance := e.balance.SolBalance(ctx)
	if (action == ActionBuy && balance < amount) ||
		(action == ActionSell && balance < e.minSolBalance) {
		e.logger.Warn("insufficient SOL balance",
			zap.Float64("balance", balance),
			zap.String("action", string(action)),
			zap.Float64("amount", amount),
			zap.String("token", t.Address))
		e.notifier.Notify(fmt.Sprintf(
			"Trade failed: insufficient SOL balance (%g SOL) for %s of %g SOL on %s",
			balance, action, amount, t.Address))
		return false
	}

	// Buys are denominated in absolute SOL, sells in a token percentage.
	var orderAmount any = amount
	denominatedInSol := "true"
	if action == ActionSell {
		orderAmount = fmt.Sprintf("%g%%", amount)
		denominatedInSol = "false"
	}

	order := map[string]any{
		"action":           action,
		"mint":             t.Address,
		"amount":           orderAmount,
		"denominatedInSol": denominatedInSol,
		"slippage":         e.slippage,
		"priorityFee":      priorityFeeSOL,
		"pool":             t.DexID,
	}

	resp, err := e.submit(ctx, order)
	if err != nil {
		e.logger.Error("trade submission failed",
			zap.String("action", string(action)),
			zap.String("token", t.Address),
			zap.Error(err))
		return false
	}
	if len(resp.Errors) > 0 {
		e.logger.Error("trade rejected by relay",
			zap.String("action", string(action)),
			zap.String("token", t.Address),
			zap.Any("errors", resp.Errors))
		return false
	}

	e.logger.Info("trade successful",
		zap.String("action", string(action)),
		zap.String("token", t.Address))
	e.notifier.Notify(fmt.Sprintf("%s command sent for %s", actionTitle(action), t.Symbol))
	return true
}

func (e *Executor) submit(ctx context.Context, order map[string]any) (*relayResponse, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode relay response: %w", err)
	}
	return &parsed, nil
}

func actionTitle(action Action) string {
	if action == ActionSell {
		return "Sell"
	}
	return "Buy"
}
