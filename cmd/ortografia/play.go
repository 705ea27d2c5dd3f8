package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/ortografia/internal/cli"
	"github.com/at-ishikawa/ortografia/internal/config"
	"github.com/at-ishikawa/ortografia/internal/dictionary"
)

func newPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start an interactive spelling quiz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			engine, err := loadOrCreateEngine(cmd, cfg)
			if err != nil {
				return err
			}

			logger, closeLogger, err := newAnswerLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLogger()

			playCLI := cli.NewPlayCLI(engine, cfg.StateFile, logger, cmd.InOrStdin(), cmd.OutOrStdout())
			playCLI.Greet()
			return playCLI.Run(cmd.Context(), playCLI)
		},
	}
}

// loadOrCreateEngine starts a new state from the configured words file when
// no state file exists yet.
func loadOrCreateEngine(cmd *cobra.Command, cfg *config.Config) (*cli.QuestionEngine, error) {
	engine, existed, err := cli.LoadEngine(cfg.StateFile, engineOptions(cfg.Selection)...)
	if err != nil {
		return nil, fmt.Errorf("cli.LoadEngine() > %w", err)
	}
	if existed {
		return engine, nil
	}
	if cfg.Dictionary.WordsFile == "" {
		return nil, fmt.Errorf("state file %s not found. Load a dictionary first with `ortografia dictionary load`", cfg.StateFile)
	}

	words, err := dictionary.LoadFile(cfg.Dictionary.WordsFile)
	if err != nil {
		return nil, fmt.Errorf("dictionary.LoadFile() > %w", err)
	}
	types, err := cfg.Dictionary.Types()
	if err != nil {
		return nil, err
	}
	result, err := dictionary.AddWords(engine, words, types)
	if err != nil {
		return nil, fmt.Errorf("dictionary.AddWords() > %w", err)
	}
	slog.Default().Debug("created a new state",
		slog.String("words_file", cfg.Dictionary.WordsFile),
		slog.Int("added", result.Added),
	)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started a new session with %d questions from %s.\n", result.Added, cfg.Dictionary.WordsFile)
	return engine, nil
}
