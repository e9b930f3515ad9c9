// internal/trade/balance.go
package trade

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// WalletBalance reads the SOL balance of a configured wallet over RPC.
// Without a wallet public key every read reports 0.0, which makes each
// trade precondition fail safely.
type WalletBalance struct {
	rpc    *rpc.Client
	pubkey *solana.PublicKey
	logger *zap.Logger
}

// NewWalletBalance creates a balance source for the given RPC URL and
// base58 wallet public key. An empty key is allowed and disables trading.
func NewWalletBalance(rpcURL, walletPubkey string, logger *zap.Logger) (*WalletBalance, error) {
	w := &WalletBalance{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("wallet"),
	}
	if walletPubkey != "" {
		pubkey, err := solana.PublicKeyFromBase58(walletPubkey)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet public key: %w", err)
		}
		w.pubkey = &pubkey
	}
	return w, nil
}

// SolBalance returns the wallet balance in SOL. Any RPC failure is logged
// and reads as 0.0.
func (w *WalletBalance) SolBalance(ctx context.Context) float64 {
	if w.pubkey == nil {
		return 0.0
	}

	result, err := w.rpc.GetBalance(ctx, *w.pubkey, rpc.CommitmentFinalized)
	if err != nil {
		w.logger.Error("balance fetch failed", zap.Error(err))
		return 0.0
	}

	balanceSOL := float64(result.Value) / float64(solana.LAMPORTS_PER_SOL)
	w.logger.Info("current SOL balance", zap.Float64("sol", balanceSOL))
	return balanceSOL
}
