// cmd/bot/main.go
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/solwatch/screener-bot/internal/bot"
	"github.com/solwatch/screener-bot/internal/logging"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to config.json")
	dev := flag.Bool("dev", false, "enable debug logging")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logCfg := logging.DefaultConfig()
	logCfg.Development = *dev
	logger := logging.New(logCfg)
	defer logger.Sync()
	logger.Info("Starting screener bot")

	runner, err := bot.Bootstrap(*configPath, logger)
	if err != nil {
		logger.Error("Failed to initialize bot", zap.Error(err))
		os.Exit(1)
	}
	defer runner.Close()

	if err := runner.Run(ctx); err != nil {
		logger.Error("Bot execution error", zap.Error(err))
		os.Exit(1)
	}
}
