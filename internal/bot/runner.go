// internal/bot/runner.go
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/screener-bot/internal/config"
	"github.com/solwatch/screener-bot/internal/dexscreener"
	"github.com/solwatch/screener-bot/internal/notify"
	"github.com/solwatch/screener-bot/internal/rugcheck"
	"github.com/solwatch/screener-bot/internal/screener"
	"github.com/solwatch/screener-bot/internal/storage"
	"github.com/solwatch/screener-bot/internal/storage/sqlite"
	"github.com/solwatch/screener-bot/internal/token"
	"github.com/solwatch/screener-bot/internal/trade"
)

const (
	defaultDatabasePath = "dist/screener_data.db"
	pumpPortalTradeURL  = "https://pumpportal.fun/api/trade?api-key=%s"
)

// TokenSource discovers token addresses and fetches their pair details.
type TokenSource interface {
	DiscoverTokens(ctx context.Context) []string
	TokenPair(ctx context.Context, address string) (*token.Pair, error)
}

// Evaluator runs the full evaluation chain for one pair payload.
type Evaluator interface {
	Evaluate(ctx context.Context, pair *token.Pair) (*token.Token, error)
}

// Runner drives the discover→fetch→evaluate loop. Tokens are processed
// sequentially with a fixed delay in between as a self-imposed rate limit
// against the upstream API; do not parallelize the per-token work.
type Runner struct {
	store      *config.Store
	source     TokenSource
	pipeline   Evaluator
	db         storage.Store
	notifier   notify.Notifier
	delay      time.Duration
	logger     *zap.Logger
	shutdownCh chan os.Signal
}

// RunnerConfig wires a Runner from its collaborators.
type RunnerConfig struct {
	Store    *config.Store
	Source   TokenSource
	Pipeline Evaluator
	DB       storage.Store
	Notifier notify.Notifier
	Logger   *zap.Logger
}

// NewRunner creates a runner from pre-built collaborators.
func NewRunner(cfg *RunnerConfig) *Runner {
	return &Runner{
		store:      cfg.Store,
		source:     cfg.Source,
		pipeline:   cfg.Pipeline,
		db:         cfg.DB,
		notifier:   cfg.Notifier,
		delay:      cfg.Store.Config().API.RequestDelay,
		logger:     cfg.Logger.Named("runner"),
		shutdownCh: make(chan os.Signal, 1),
	}
}

// Bootstrap loads the configuration at path and wires the production
// collaborators: Telegram notifications, the Solana balance source, the
// PumpPortal executor, the DexScreener client and the SQLite sink.
func Bootstrap(configPath string, logger *zap.Logger) (*Runner, error) {
	store, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := store.Config()

	notifier, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	if err != nil {
		return nil, fmt.Errorf("init notifier: %w", err)
	}

	balance, err := trade.NewWalletBalance(cfg.API.SolanaRPCURL, cfg.API.WalletPublicKey, logger)
	if err != nil {
		return nil, fmt.Errorf("init wallet balance: %w", err)
	}

	executor := trade.NewExecutor(&trade.ExecutorConfig{
		Endpoint:      fmt.Sprintf(pumpPortalTradeURL, cfg.API.PumpPortalKey),
		Balance:       balance,
		Notifier:      notifier,
		Slippage:      cfg.Transaction.Slippage,
		MinSolBalance: cfg.Transaction.MinSolBalance,
		Logger:        logger,
	})

	pipeline := screener.NewPipeline(&screener.PipelineConfig{
		Filters:   screener.NewFilterEngine(cfg.Filters, cfg.SupplyCheck),
		Risk:      rugcheck.NewClient(cfg.API.RugcheckURL, logger),
		Trader:    executor,
		Blacklist: store,
		AmountSol: cfg.Transaction.AmountInSol,
		Logger:    logger,
	})

	db, err := sqlite.New(defaultDatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return NewRunner(&RunnerConfig{
		Store:    store,
		Source:   dexscreener.NewClient(cfg.API.DexScreenerURL, logger),
		Pipeline: pipeline,
		DB:       db,
		Notifier: notifier,
		Logger:   logger,
	}), nil
}

// Run executes evaluation passes until the context is cancelled or a
// SIGINT/SIGTERM arrives. The in-flight pass always completes; cancellation
// is only observed between passes.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case sig := <-r.shutdownCh:
			r.logger.Info("signal received", zap.String("signal", sig.String()))
			cancel()
		case <-runCtx.Done():
		}
	}()

	r.notifier.Notify("Screener bot started.")
	r.logger.Info("screener bot started")

	for {
		select {
		case <-runCtx.Done():
			r.notifier.Notify("Screener bot stopped.")
			r.logger.Info("screener bot stopped")
			return nil
		default:
		}

		if err := r.runPass(runCtx); err != nil {
			r.logger.Error("pass aborted", zap.Error(err))
		}
	}
}

// runPass processes one discovery batch token by token and sends the
// end-of-pass report. A persistence failure aborts the pass.
func (r *Runner) runPass(ctx context.Context) error {
	addresses := r.source.DiscoverTokens(ctx)

	for _, address := range addresses {
		pair, err := r.source.TokenPair(ctx, address)
		if err != nil {
			r.logger.Error("token fetch failed",
				zap.String("token", address),
				zap.Error(err))
			r.sleep()
			continue
		}
		if pair == nil {
			r.sleep()
			continue
		}

		t, err := r.pipeline.Evaluate(ctx, pair)
		if err != nil {
			r.logger.Error("token processing failed",
				zap.String("token", address),
				zap.Error(err))
			r.sleep()
			continue
		}
		if t == nil {
			r.logger.Info("token rejected", zap.String("token", address))
			r.sleep()
			continue
		}

		if err := r.db.SaveToken(ctx, t); err != nil {
			return fmt.Errorf("persist token %s: %w", t.Address, err)
		}
		r.logger.Info("processed token",
			zap.String("token", t.Address),
			zap.String("status", string(t.Status)))
		r.sleep()
	}

	report, err := r.db.Report(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	report.Blacklisted = r.store.BlacklistedCoinCount()
	r.notifier.Notify(formatReport(report))
	return nil
}

func (r *Runner) sleep() {
	time.Sleep(r.delay)
}

// Close releases the persistence sink.
func (r *Runner) Close() error {
	return r.db.Close()
}

func formatReport(report *storage.Report) string {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf("Analysis Report: %+v", *report)
	}
	return "Analysis Report: " + string(body)
}
