package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/ortografia/internal/orthography"
	"github.com/at-ishikawa/ortografia/internal/selection"
)

type Config struct {
	StateFile  string           `mapstructure:"state_file" validate:"required"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	AnswerLog  AnswerLogConfig  `mapstructure:"answer_log"`
	Selection  SelectionConfig  `mapstructure:"selection"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

type DictionaryConfig struct {
	// WordsFile is loaded when a new session starts without a state file.
	WordsFile        string   `mapstructure:"words_file" validate:"omitempty,file"`
	PlaceholderTypes []string `mapstructure:"placeholder_types" validate:"dive,placeholder_type"`
	MaxRetryAttempts uint     `mapstructure:"max_retry_attempts" validate:"lte=10"`
	// CacheDir keeps downloaded word lists. Empty disables caching.
	CacheDir string `mapstructure:"cache_dir"`
}

type AnswerLogConfig struct {
	CSVFile string `mapstructure:"csv_file"`
	// Database also writes answers to the database section's server.
	Database bool `mapstructure:"database"`
}

type SelectionConfig struct {
	ScoreDepth    int     `mapstructure:"score_depth" validate:"gte=1"`
	RankDecayRate float64 `mapstructure:"rank_decay_rate" validate:"gt=0"`
	// Seed fixes the jitter source. 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ortografia")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("state_file", filepath.Join("data", "state.json"))
	v.SetDefault("dictionary.words_file", "")
	v.SetDefault("dictionary.placeholder_types", []string{"RZ", "CH", "U"})
	v.SetDefault("dictionary.max_retry_attempts", 3)
	v.SetDefault("dictionary.cache_dir", "")
	v.SetDefault("answer_log.csv_file", filepath.Join("data", "answers.csv"))
	v.SetDefault("answer_log.database", false)
	v.SetDefault("selection.score_depth", selection.DefaultScoreDepth)
	v.SetDefault("selection.rank_decay_rate", selection.DefaultRankDecayRate)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "ortografia")
	v.SetDefault("database.username", "user")

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Types parses the configured placeholder types.
func (c DictionaryConfig) Types() ([]orthography.PlaceholderType, error) {
	types := make([]orthography.PlaceholderType, 0, len(c.PlaceholderTypes))
	for _, s := range c.PlaceholderTypes {
		t, err := orthography.ParsePlaceholderType(s)
		if err != nil {
			return nil, fmt.Errorf("orthography.ParsePlaceholderType() > %w", err)
		}
		types = append(types, t)
	}
	return types, nil
}
