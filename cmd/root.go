package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roundness-meter/config"
	app "roundness-meter/internal/application"
	"roundness-meter/internal/container"
	"roundness-meter/internal/domain/entity"
)

var errMissingImagePath = errors.New("--image_path is required")

// NewRootCmd создаёт корневую команду: измерение файла или каталога
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundness-meter",
		Short: "Measure out-of-roundness of circular parts in images",
		Long: `roundness-meter finds circular contours in an image, fits circles to them
and reports the out-of-roundness in pixels using one of four methods:
min_zone, least_squares, min_circumscribed, max_inscribed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMeasureCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("config", "", "Path to YAML config file")

	cmd.Flags().String("image_path", "", "Path to an image file or a directory of images")
	cmd.Flags().String("method", string(entity.DefaultMethod),
		"Roundness method: min_zone, least_squares, min_circumscribed, max_inscribed")
	cmd.Flags().String("output_dir", "output", "Directory for result images")
	cmd.Flags().Bool("show", false, "Display result images in a window")

	cmd.AddCommand(NewBotCmd())

	return cmd
}

// loadConfig читает конфигурацию и применяет флаги, заданные явно
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("method"); f != nil && f.Changed {
		cfg.Method = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output_dir"); f != nil && f.Changed {
		cfg.OutputDir = f.Value.String()
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// setupLogger создаёт структурированный логгер в stderr
func setupLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func runMeasureCmd(cmd *cobra.Command, _ []string) error {
	imagePath, _ := cmd.Flags().GetString("image_path")
	if imagePath == "" {
		return errMissingImagePath
	}
	show, _ := cmd.Flags().GetBool("show")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("close container", "error", err)
		}
	}()

	opts := app.BatchOptions{
		Method:    cfg.ParsedMethod(),
		OutputDir: cfg.OutputDir,
		Show:      show,
	}
	return runMeasure(ctx, cmd.OutOrStdout(), c.BatchService, imagePath, opts)
}

func runMeasure(ctx context.Context, out io.Writer, batch *app.BatchService, imagePath string, opts app.BatchOptions) error {
	info, err := os.Stat(imagePath)
	if err != nil {
		return fmt.Errorf("image path: %w", err)
	}

	if !info.IsDir() {
		outcome, err := batch.ProcessFile(ctx, imagePath, opts)
		if err != nil {
			return fmt.Errorf("process %s: %w", imagePath, err)
		}
		printOutcome(out, *outcome)
		fmt.Fprintln(out, "Processing complete.")
		return nil
	}

	outcomes, err := batch.ProcessDirectory(ctx, imagePath, opts)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		fmt.Fprintf(out, "%s:\n", o.Image)
		if o.Err != nil {
			fmt.Fprintf(out, "  Error: %v\n", o.Err)
			continue
		}
		printOutcome(out, o)
	}
	fmt.Fprintln(out, "Processing complete.")
	return nil
}

func printOutcome(out io.Writer, o entity.ImageOutcome) {
	if !o.Report.HasShapes() {
		fmt.Fprintln(out, "No circles detected.")
		return
	}
	for _, s := range o.Report.Shapes {
		fmt.Fprintf(out, "Circle %d: Roundness = %.2f pixels\n", s.Index, s.Result.Roundness)
	}
}
