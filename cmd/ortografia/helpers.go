package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/ortografia/internal/answerlog"
	"github.com/at-ishikawa/ortografia/internal/cli"
	"github.com/at-ishikawa/ortografia/internal/config"
	"github.com/at-ishikawa/ortografia/internal/database"
	"github.com/at-ishikawa/ortografia/internal/selection"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func engineOptions(cfg config.SelectionConfig) []selection.Option {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return []selection.Option{
		selection.WithRand(rand.New(rand.NewSource(seed))),
		selection.WithScoreDepth(cfg.ScoreDepth),
		selection.WithRankDecayRate(cfg.RankDecayRate),
	}
}

// loadExistingEngine fails when the state file has not been created yet.
func loadExistingEngine(cfg *config.Config) (*cli.QuestionEngine, error) {
	engine, existed, err := cli.LoadEngine(cfg.StateFile, engineOptions(cfg.Selection)...)
	if err != nil {
		return nil, fmt.Errorf("cli.LoadEngine() > %w", err)
	}
	if !existed {
		return nil, fmt.Errorf("state file %s not found. Load a dictionary first with `ortografia dictionary load`", cfg.StateFile)
	}
	return engine, nil
}

// newAnswerLogger returns the configured loggers and a function releasing them.
func newAnswerLogger(cfg *config.Config) (answerlog.Logger, func(), error) {
	var loggers answerlog.MultiLogger
	closeFn := func() {}

	if cfg.AnswerLog.CSVFile != "" {
		csvLogger, err := answerlog.NewCSVLogger(cfg.AnswerLog.CSVFile)
		if err != nil {
			return nil, closeFn, fmt.Errorf("answerlog.NewCSVLogger() > %w", err)
		}
		loggers = append(loggers, csvLogger)
	}
	if cfg.AnswerLog.Database {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() { _ = db.Close() }
		loggers = append(loggers, answerlog.NewDBLogger(answerlog.NewDBRepository(db)))
	}
	return loggers, closeFn, nil
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is not configured")
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}
