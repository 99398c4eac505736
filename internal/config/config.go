package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "SUDPRAKTIKA_CONFIG"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChanEnv   = "TELEGRAM_CHANNEL"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	ledgerDriverEnv   = "LEDGER_DRIVER"
	ledgerDSNEnv      = "LEDGER_DSN"
	logLevelEnv       = "LOG_LEVEL"
	codePDFEnv        = "CRIMINAL_CODE_PDF"
)

// Ledger drivers understood by the app wiring.
const (
	LedgerFile     = "file"
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Site          SiteConfig         `yaml:"site"`
	Code          CodeConfig         `yaml:"code"`
	Ingest        IngestConfig       `yaml:"ingest"`
	Classifier    ClassifierConfig   `yaml:"classifier"`
	Ledger        LedgerConfig       `yaml:"ledger"`
	Telegram      TelegramConfig     `yaml:"telegram"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Metrics       MetricsConfig      `yaml:"metrics"`
}

// LoggingConfig sets the slog level string.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig points at the Jekyll site receiving generated records.
type SiteConfig struct {
	Root        string `yaml:"root"`
	SourceLabel string `yaml:"sourceLabel"`
}

// CodeConfig drives the criminal code segmentation run.
type CodeConfig struct {
	PDFPath    string `yaml:"pdfPath"`
	Duplicates string `yaml:"duplicates"`
}

// IngestConfig describes where channel posts come from.
type IngestConfig struct {
	Scanner string            `yaml:"scanner"`
	Channel string            `yaml:"channel"`
	Limit   int               `yaml:"limit"`
	Timeout time.Duration     `yaml:"timeout"`
	BaseURL string            `yaml:"baseUrl"`
	Options map[string]string `yaml:"options"`
}

// ClassifierConfig optionally replaces the embedded citation tables.
type ClassifierConfig struct {
	TablesPath string `yaml:"tablesPath"`
}

// LedgerConfig selects the processed-post store.
type LedgerConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// TelegramConfig carries Bot API credentials shared by the bot scanner and notifier.
type TelegramConfig struct {
	BotToken    string `yaml:"botToken"`
	APIEndpoint string `yaml:"apiEndpoint"`
}

// NotificationConfig encapsulates the run summary target.
type NotificationConfig struct {
	ChatID int64 `yaml:"chatId"`
}

// Enabled reports whether a summary chat is configured.
func (n NotificationConfig) Enabled() bool {
	return n.ChatID != 0
}

// SchedulerConfig defines when watch mode runs the ingest job.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// MetricsConfig sets the node-exporter textfile target; empty disables flushing.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfilePath"`
}

// Load reads .env, YAML configuration (if present) and applies environment overrides.
// An empty path falls back to SUDPRAKTIKA_CONFIG.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChanEnv); v != "" {
		c.Ingest.Channel = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Notifications.ChatID = id
		} else {
			log.Printf("config: ignoring %s=%q: %v", telegramChatIDEnv, v, err)
		}
	}

	if v := os.Getenv(ledgerDriverEnv); v != "" {
		c.Ledger.Driver = v
	}

	if v := os.Getenv(ledgerDSNEnv); v != "" {
		c.Ledger.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(codePDFEnv); v != "" {
		c.Code.PDFPath = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Site.Root != "" {
		base.Site.Root = override.Site.Root
	}
	if override.Site.SourceLabel != "" {
		base.Site.SourceLabel = override.Site.SourceLabel
	}

	if override.Code.PDFPath != "" {
		base.Code.PDFPath = override.Code.PDFPath
	}
	if override.Code.Duplicates != "" {
		base.Code.Duplicates = override.Code.Duplicates
	}

	if override.Ingest.Scanner != "" {
		base.Ingest.Scanner = override.Ingest.Scanner
	}
	if override.Ingest.Channel != "" {
		base.Ingest.Channel = override.Ingest.Channel
	}
	if override.Ingest.Limit > 0 {
		base.Ingest.Limit = override.Ingest.Limit
	}
	if override.Ingest.Timeout > 0 {
		base.Ingest.Timeout = override.Ingest.Timeout
	}
	if override.Ingest.BaseURL != "" {
		base.Ingest.BaseURL = override.Ingest.BaseURL
	}
	if len(override.Ingest.Options) > 0 {
		base.Ingest.Options = override.Ingest.Options
	}

	if override.Classifier.TablesPath != "" {
		base.Classifier.TablesPath = override.Classifier.TablesPath
	}

	if override.Ledger.Driver != "" {
		base.Ledger.Driver = override.Ledger.Driver
	}
	if override.Ledger.Path != "" {
		base.Ledger.Path = override.Ledger.Path
	}
	if override.Ledger.DSN != "" {
		base.Ledger.DSN = override.Ledger.DSN
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.APIEndpoint != "" {
		base.Telegram.APIEndpoint = override.Telegram.APIEndpoint
	}

	if override.Notifications.ChatID != 0 {
		base.Notifications.ChatID = override.Notifications.ChatID
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Metrics.TextfilePath != "" {
		base.Metrics.TextfilePath = override.Metrics.TextfilePath
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Site:    SiteConfig{Root: ".", SourceLabel: "Telegram канал Верховного Суду"},
		Code:    CodeConfig{PDFPath: "criminal_code.pdf", Duplicates: "all"},
		Ingest: IngestConfig{
			Scanner: "web",
			Channel: "supremecourtua",
			Limit:   100,
			Timeout: 10 * time.Second,
		},
		Ledger:    LedgerConfig{Driver: LedgerFile, Path: "_data/processed_posts.json"},
		Scheduler: SchedulerConfig{CronExpression: "0 */6 * * *", Timezone: defaultTimezone, location: tz},
	}
}
