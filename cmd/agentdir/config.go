package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/presenter"
	"github.com/summon-ai/agentdir/pkg/telemetry"
	"github.com/summon-ai/agentdir/pkg/vote"
)

// AppConfig is the merged configuration from flags, AGENTDIR_* environment
// variables, .env and config.yaml.
type AppConfig struct {
	ContentDir string            `mapstructure:"content_dir"`
	Store      localstore.Config `mapstructure:"store"`
	Votes      VotesConfig       `mapstructure:"votes"`
	LogLevel   string            `mapstructure:"log_level"`
	LogFormat  string            `mapstructure:"log_format"`
	Tracing    telemetry.Config  `mapstructure:"tracing"`
}

// VotesConfig controls the vote widget.
type VotesConfig struct {
	// Restore seeds new sessions with the persisted choice.
	Restore bool `mapstructure:"restore"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("content_dir", "content")
	v.SetDefault("store.backend", localstore.BackendSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("votes.restore", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "fmt")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sampler", "ratio")
	v.SetDefault("tracing.ratio", 1.0)
}

func initConfig(v *viper.Viper) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		presenter.Warning("failed to load .env: " + err.Error())
	}

	v.SetEnvPrefix("AGENTDIR")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.agentdir")
	v.AddConfigPath(".")

	setDefaults(v)

	// Missing config files are fine.
	_ = v.ReadInConfig()
}

func loadConfig(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	return &cfg, nil
}

// loadDirectory loads the content root. Files that fail validation are
// reported as warnings and skipped so the rest of the directory stays usable.
func loadDirectory(ctx context.Context, cfg *AppConfig) (*content.Directory, error) {
	dir, err := content.LoadDir(ctx, cfg.ContentDir)
	if dir == nil {
		return nil, err
	}
	if err != nil {
		for _, fe := range content.FieldErrors(err) {
			logger.G(ctx).WithField("path", fe.Path).WithField("field", fe.Field).Warn(fe.Message)
		}
		presenter.Warning("some content files are invalid, run 'agentdir validate' for details")
	}
	return dir, nil
}

// sessionOptions returns the vote options implied by cfg.
func sessionOptions(cfg *AppConfig) []vote.Option {
	if cfg.Votes.Restore {
		return []vote.Option{vote.WithRestore()}
	}
	return nil
}
