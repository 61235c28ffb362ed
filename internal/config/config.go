package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvConfigPath  = "TIMETABLE_CONFIG"
	EnvEnvironment = "TIMETABLE_ENV"
	EnvExportDir   = "TIMETABLE_EXPORT_DIR"
)

const (
	defaultEnv        = "production"
	defaultPageSize   = 5
	defaultPDFTimeout = 30
)

// Config is the application configuration. Time-axis preferences are not
// here; they live in the settings table of the database.
type Config struct {
	// Env selects the logger setup: "development" or "production".
	Env string `yaml:"env"`

	DBPath  string `yaml:"db_path"`
	LogPath string `yaml:"log_path"`

	// ExportDir receives files written by every exporter.
	ExportDir string `yaml:"export_dir"`

	// PageSize is the number of entries per page in the entry list.
	PageSize int `yaml:"page_size"`

	// ChromePath points at a Chromium binary for PDF export. Empty lets
	// chromedp search the usual locations.
	ChromePath string `yaml:"chrome_path"`

	// PDFTimeout bounds one PDF export, in seconds.
	PDFTimeout int `yaml:"pdf_timeout"`
}

// Dir returns ~/.config/timetable, or ./.timetable if there is no user config dir.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".timetable"
	}
	return filepath.Join(base, "timetable")
}

// DefaultPath returns the config file location used when neither a flag nor
// TIMETABLE_CONFIG names one.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(Dir(), "exports")
	}
	return filepath.Join(home, "Timetables")
}

func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Env:        defaultEnv,
		DBPath:     filepath.Join(dir, "timetable.db"),
		LogPath:    filepath.Join(dir, "timetable.log"),
		ExportDir:  defaultExportDir(),
		PageSize:   defaultPageSize,
		PDFTimeout: defaultPDFTimeout,
	}
}

// Normalize fills in missing or invalid values so that partially written
// configs still behave.
func (c *Config) Normalize() {
	d := DefaultConfig()
	switch c.Env {
	case "development", "production":
	default:
		c.Env = d.Env
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.LogPath == "" {
		c.LogPath = d.LogPath
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.PDFTimeout <= 0 {
		c.PDFTimeout = d.PDFTimeout
	}
}

func (c *Config) PDFTimeoutDuration() time.Duration {
	return time.Duration(c.PDFTimeout) * time.Second
}

// Load reads the YAML config at path. On first run the file does not exist:
// a default config is written with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".timetable-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}

// Resolve loads .env from the working directory if present, picks the config
// path (flag, then TIMETABLE_CONFIG, then the default), loads it and applies
// environment overrides. It returns the config and the path it came from.
func Resolve(flagPath string) (*Config, string, error) {
	_ = godotenv.Load(".env")

	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath()
	}

	cfg, err := Load(path)
	if err != nil {
		return cfg, path, err
	}
	cfg.applyEnv()
	return cfg, path, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEnvironment)); v != "" {
		c.Env = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		c.ExportDir = v
	}
	c.Normalize()
}
