package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	telegram "roundness-meter/internal/api"
	"roundness-meter/internal/container"
)

// NewBotCmd создаёт команду запуска Telegram-бота
func NewBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Run a Telegram bot that measures roundness of parts on photos sent by users.
The token is read from TELEGRAM_TOKEN (environment or .env file).`,
		Args: cobra.NoArgs,
		RunE: runBotCmd,
	}
}

func runBotCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, c.UserService, c.MeasurementService, c.Measurements, logger)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	logger.Info("bot is running")
	return bot.Run(ctx)
}
