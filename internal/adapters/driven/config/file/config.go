package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// AppConfig is the typed application configuration, stored as TOML at
// ~/.possync/config.toml. Constructors receive the relevant sections
// explicitly; nothing reads this from a global.
type AppConfig struct {
	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	// DataDir overrides the SQLite data directory.
	DataDir string `toml:"data_dir,omitempty"`

	Provider  ProviderConfig  `toml:"provider"`
	Delay     DelayConfig     `toml:"delay"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Webhook   WebhookConfig   `toml:"webhook"`

	// Bars lists the provider accounts to synchronise.
	Bars []BarConfig `toml:"bars"`
}

// ProviderConfig configures the POS provider client.
type ProviderConfig struct {
	BaseURL           string `toml:"base_url"`
	StockURL          string `toml:"stock_url,omitempty"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// DelayConfig bounds the randomized pause between provider requests.
type DelayConfig struct {
	MinSeconds int `toml:"min_seconds"`
	MaxSeconds int `toml:"max_seconds"`
}

// SchedulerConfig configures the recurring sync task.
type SchedulerConfig struct {
	Enabled       bool `toml:"enabled"`
	IntervalHours int  `toml:"interval_hours"`
}

// WebhookConfig configures the optional run-summary webhook.
type WebhookConfig struct {
	URL            string `toml:"url,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
}

// BarConfig holds one bar's provider credentials.
type BarConfig struct {
	ID     string `toml:"id"`
	Email  string `toml:"email"`
	Secret string `toml:"secret"`
	EmpID  int    `toml:"emp_id"`
}

// Default returns a config with every tunable at its default.
func Default() *AppConfig {
	return &AppConfig{
		Provider: ProviderConfig{
			TimeoutSeconds:    30,
			RequestsPerMinute: 10,
		},
		Delay: DelayConfig{
			MinSeconds: 5,
			MaxSeconds: 30,
		},
		Scheduler: SchedulerConfig{
			Enabled:       true,
			IntervalHours: 6,
		},
	}
}

// DefaultDir returns the default config directory (~/.possync).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".possync"), nil
}

// Load reads config.toml from configDir, applying defaults for anything
// unset. If configDir is empty, ~/.possync is used. A missing file yields
// the defaults, not an error.
func Load(configDir string) (*AppConfig, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config as TOML to configDir/config.toml, creating the
// directory if needed. Credentials live here, so the file is 0600.
func (c *AppConfig) Save(configDir string) error {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Accounts returns the configured bars as provider accounts keyed by id.
func (c *AppConfig) Accounts() map[string]domain.ProviderAccount {
	accounts := make(map[string]domain.ProviderAccount, len(c.Bars))
	for _, bar := range c.Bars {
		accounts[bar.ID] = domain.ProviderAccount{
			BarID:  bar.ID,
			Email:  bar.Email,
			Secret: bar.Secret,
			EmpID:  bar.EmpID,
		}
	}
	return accounts
}

// BarIDs returns the configured bar ids in declaration order.
func (c *AppConfig) BarIDs() []string {
	ids := make([]string, 0, len(c.Bars))
	for _, bar := range c.Bars {
		ids = append(ids, bar.ID)
	}
	return ids
}

// DelayBounds returns the configured delay window as durations.
func (c *AppConfig) DelayBounds() (min, max time.Duration) {
	return time.Duration(c.Delay.MinSeconds) * time.Second,
		time.Duration(c.Delay.MaxSeconds) * time.Second
}

// SchedulerSettings converts the TOML section to the domain config.
func (c *AppConfig) SchedulerSettings() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled: c.Scheduler.Enabled,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDPOSSync: {
				Enabled:  c.Scheduler.Enabled,
				Interval: time.Duration(c.Scheduler.IntervalHours) * time.Hour,
			},
		},
	}
}
