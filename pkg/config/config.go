package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/observe"
)

// Defaults applied by Validate when a field is left empty.
const (
	DefaultAddr           = ":8080"
	DefaultAllowedOrigin  = "http://localhost:8081"
	DefaultRateLimit      = 10.0
	DefaultRateBurst      = 20
	DefaultRequestTimeout = 30 * time.Second
	DefaultQueue          = "ats_analysis"
	DefaultReplyExchange  = "analysis_results"
	DefaultConcurrency    = 3
	DefaultRegion         = "auto"
	DefaultOutputDir      = "./reports"
)

// Config represents the application configuration.
type Config struct {
	TaxonomyLocation string        `json:"taxonomy_location,omitempty"`
	Server           ServerConfig  `json:"server"`
	Log              LogConfig     `json:"log"`
	Worker           WorkerConfig  `json:"worker"`
	Storage          StorageConfig `json:"storage"`
	Pandoc           PandocConfig  `json:"pandoc"`
	Defaults         DefaultConfig `json:"defaults"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
	RateLimit      float64  `json:"rate_limit"` // Requests per second; 0 disables limiting
	RateBurst      int      `json:"rate_burst"`
	RequestTimeout string   `json:"request_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// WorkerConfig holds queue consumer settings.
type WorkerConfig struct {
	RabbitMQURL   string `json:"rabbitmq_url,omitempty"`
	Queue         string `json:"queue"`
	ReplyExchange string `json:"reply_exchange"`
	Concurrency   int    `json:"concurrency"`
}

// StorageConfig locates CV documents referenced by queued jobs.
type StorageConfig struct {
	Bucket    string `json:"bucket,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	Region    string `json:"region,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
}

// PandocConfig holds pandoc-related configuration.
type PandocConfig struct {
	TemplatePath string `json:"template_path,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// Timeout returns the parsed request timeout.
func (s *ServerConfig) Timeout() (timeout time.Duration) {
	timeout = DefaultRequestTimeout
	parsed, err := time.ParseDuration(s.RequestTimeout)
	if err == nil && parsed > 0 {
		timeout = parsed
	}
	return timeout
}

// DefaultPath returns the default config file location.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".ats-match", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
// An empty configPath means the default location, which may be absent.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'ats-match init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	ApplyEnv(&cfg)

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// ApplyEnv overrides fields from the environment, after loading .env from the
// working directory if present.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.TaxonomyLocation = env.Str("ATS_TAXONOMY", cfg.TaxonomyLocation)

	cfg.Server.Addr = env.Str("ATS_ADDR", cfg.Server.Addr)
	if origins := compact(env.List("ATS_ALLOWED_ORIGINS", "")); len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}
	cfg.Server.RateLimit = env.Float("ATS_RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.RateBurst = env.Int("ATS_RATE_BURST", cfg.Server.RateBurst)
	if timeout := env.Duration("ATS_REQUEST_TIMEOUT", 0); timeout > 0 {
		cfg.Server.RequestTimeout = timeout.String()
	}

	cfg.Log.Level = env.Str("ATS_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = env.Str("ATS_LOG_FORMAT", cfg.Log.Format)

	cfg.Worker.RabbitMQURL = env.Str("RABBITMQ_URL", cfg.Worker.RabbitMQURL)
	cfg.Worker.Queue = env.Str("ATS_QUEUE", cfg.Worker.Queue)
	cfg.Worker.ReplyExchange = env.Str("ATS_REPLY_EXCHANGE", cfg.Worker.ReplyExchange)
	cfg.Worker.Concurrency = env.Int("ATS_WORKERS", cfg.Worker.Concurrency)

	cfg.Storage.Bucket = env.Str("S3_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.Endpoint = env.Str("S3_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.Region = env.Str("S3_REGION", cfg.Storage.Region)
	cfg.Storage.AccessKey = env.Str("S3_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = env.Str("S3_SECRET_KEY", cfg.Storage.SecretKey)
}

func compact(list []string) (out []string) {
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate fills in defaults and checks the configuration.
func (c *Config) Validate() (err error) {
	if c.TaxonomyLocation != "" {
		_, err = os.Stat(c.TaxonomyLocation)
		if os.IsNotExist(err) {
			err = errors.Errorf("taxonomy file not found: %s", c.TaxonomyLocation)
			return err
		}
		err = nil
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{DefaultAllowedOrigin}
	}
	if c.Server.RateLimit < 0 {
		err = errors.New("server.rate_limit cannot be negative")
		return err
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = DefaultRateBurst
	}
	if c.Server.RequestTimeout == "" {
		c.Server.RequestTimeout = DefaultRequestTimeout.String()
	}
	var timeout time.Duration
	timeout, err = time.ParseDuration(c.Server.RequestTimeout)
	if err != nil || timeout <= 0 {
		err = errors.Errorf("server.request_timeout is not a positive duration: %s", c.Server.RequestTimeout)
		return err
	}

	_, err = observe.ParseLevel(c.Log.Level)
	if err != nil {
		err = errors.Wrap(err, "log.level")
		return err
	}
	if c.Log.Format == "" {
		c.Log.Format = observe.FormatText
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format != observe.FormatText && c.Log.Format != observe.FormatJSON {
		err = errors.Errorf("log.format must be %s or %s", observe.FormatText, observe.FormatJSON)
		return err
	}

	if c.Worker.Queue == "" {
		c.Worker.Queue = DefaultQueue
	}
	if c.Worker.ReplyExchange == "" {
		c.Worker.ReplyExchange = DefaultReplyExchange
	}
	if c.Worker.Concurrency == 0 {
		c.Worker.Concurrency = DefaultConcurrency
	}
	if c.Worker.Concurrency < 0 {
		err = errors.New("worker.concurrency cannot be negative")
		return err
	}

	if c.Storage.Region == "" {
		c.Storage.Region = DefaultRegion
	}
	if c.Storage.Bucket != "" && (c.Storage.AccessKey == "") != (c.Storage.SecretKey == "") {
		err = errors.New("storage.access_key and storage.secret_key must be set together")
		return err
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{DefaultAllowedOrigin},
			RateLimit:      DefaultRateLimit,
			RateBurst:      DefaultRateBurst,
			RequestTimeout: DefaultRequestTimeout.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: observe.FormatText,
		},
		Worker: WorkerConfig{
			Queue:         DefaultQueue,
			ReplyExchange: DefaultReplyExchange,
			Concurrency:   DefaultConcurrency,
		},
		Storage: StorageConfig{
			Region: DefaultRegion,
		},
		Defaults: DefaultConfig{
			OutputDir: DefaultOutputDir,
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
