package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/quotabar/internal/adapters/browsers"
	statusadapter "github.com/bnema/quotabar/internal/adapters/render/status"
	tomlrepo "github.com/bnema/quotabar/internal/adapters/repo/toml"
	"github.com/bnema/quotabar/internal/adapters/runner"
	"github.com/bnema/quotabar/internal/application"
	"github.com/bnema/quotabar/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	configName    = "config"
	configType    = "toml"
	configDirName = ".quotabar"

	refreshIntervalKey = "refresh.interval"
	runnerNameKey      = "runner.name"
	runnerExtraDirsKey = "runner.extra_dirs"
	scriptPathKey      = "script.path"
	staleAfterKey      = "display.stale_after"
	logPathKey         = "log.path"
)

type appConfig struct {
	RefreshInterval time.Duration
	RunnerName      string
	ExtraRunnerDirs []string
	ScriptPath      string
	StaleAfter      time.Duration
	LogPath         string
}

type app struct {
	fetcher  ports.UsageFetcher
	store    ports.SnapshotStore
	detector ports.BrowserDetector
	renderer func(application.State, statusadapter.RenderOptions) (string, error)
	now      func() time.Time
	log      zerolog.Logger
	cfg      appConfig
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store, err := tomlrepo.NewSnapshotStore(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("wire snapshot store: %w", err)
	}

	detector := browsers.NewDetector()
	fetcher := runner.NewScriptFetcher(
		cfg.RunnerName,
		cfg.ScriptPath,
		cfg.ExtraRunnerDirs,
		detector,
		ports.SystemClock{},
		log,
	)

	return &app{
		fetcher:  fetcher,
		store:    store,
		detector: detector,
		renderer: statusadapter.Render,
		now:      time.Now,
		log:      log,
		cfg:      cfg,
	}, nil
}

func loadConfig() (appConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return appConfig{}, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, configDirName)

	v := viper.GetViper()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("QUOTABAR")
	v.SetEnvKeyReplacer(keyReplacer())
	v.AutomaticEnv()

	v.SetDefault(refreshIntervalKey, "30s")
	v.SetDefault(runnerNameKey, "uv")
	v.SetDefault(runnerExtraDirsKey, []string{})
	v.SetDefault(scriptPathKey, filepath.Join(configDir, "fetch_usage.py"))
	v.SetDefault(staleAfterKey, "6h")
	v.SetDefault(logPathKey, "")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return appConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return appConfig{
		RefreshInterval: v.GetDuration(refreshIntervalKey),
		RunnerName:      v.GetString(runnerNameKey),
		ExtraRunnerDirs: v.GetStringSlice(runnerExtraDirsKey),
		ScriptPath:      v.GetString(scriptPathKey),
		StaleAfter:      v.GetDuration(staleAfterKey),
		LogPath:         v.GetString(logPathKey),
	}, nil
}

func keyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// newLogger returns a file-backed structured logger, or a no-op logger when
// no log path is configured so terminal output stays clean.
func newLogger(logPath string) (zerolog.Logger, error) {
	if logPath == "" {
		return zerolog.Nop(), nil
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
	}

	return zerolog.New(file).With().Timestamp().Logger(), nil
}

func (a *app) newReconciler() *application.Reconciler {
	return application.NewReconciler(a.fetcher, a.store, ports.SystemClock{}, a.log)
}

func (a *app) renderOptions() statusadapter.RenderOptions {
	return statusadapter.RenderOptions{
		Now:        a.now(),
		StaleAfter: a.cfg.StaleAfter,
	}
}
