package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultHistoryLimit = 10

type Config struct {
	WorkDir      string
	TrashRoot    string
	HistoryFile  string
	LogFile      string
	HistoryLimit int
	LogLevel     slog.Level
	NoColor      bool
}

// Load reads .env (or the given files) into the environment and builds the config from it.
// Relative paths are resolved against the working directory.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg := &Config{
		WorkDir:      getEnv("FILESHELL_WORKDIR", cwd),
		TrashRoot:    getEnv("FILESHELL_TRASH_DIR", ".trash"),
		HistoryFile:  getEnv("FILESHELL_HISTORY_FILE", ".history"),
		LogFile:      getEnv("FILESHELL_LOG_FILE", "shell.log"),
		HistoryLimit: getInt("FILESHELL_HISTORY_LIMIT", DefaultHistoryLimit),
		LogLevel:     getLevel("FILESHELL_LOG_LEVEL", slog.LevelWarn),
		NoColor:      getBool("FILESHELL_NO_COLOR", false),
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve turns every configured path into an absolute one. State paths are
// anchored at the working directory the shell starts in.
func (c *Config) Resolve() error {
	workDir, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return fmt.Errorf("resolve FILESHELL_WORKDIR: %w", err)
	}
	c.WorkDir = workDir

	c.TrashRoot = anchor(workDir, c.TrashRoot)
	c.HistoryFile = anchor(workDir, c.HistoryFile)
	c.LogFile = anchor(workDir, c.LogFile)
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.WorkDir) == "" {
		return fmt.Errorf("FILESHELL_WORKDIR cannot be empty")
	}

	info, err := os.Stat(c.WorkDir)
	if err != nil {
		return fmt.Errorf("FILESHELL_WORKDIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("FILESHELL_WORKDIR %q is not a directory", c.WorkDir)
	}

	if strings.TrimSpace(c.TrashRoot) == "" {
		return fmt.Errorf("FILESHELL_TRASH_DIR cannot be empty")
	}

	if strings.TrimSpace(c.HistoryFile) == "" {
		return fmt.Errorf("FILESHELL_HISTORY_FILE cannot be empty")
	}

	if strings.TrimSpace(c.LogFile) == "" {
		return fmt.Errorf("FILESHELL_LOG_FILE cannot be empty")
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("FILESHELL_HISTORY_LIMIT must be positive")
	}

	return nil
}

func anchor(base string, p string) string {
	if strings.TrimSpace(p) == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}

	return level
}
