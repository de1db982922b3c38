package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile = "config.yml"
	envPrefix   = "TODO"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Board   BoardConfig   `yaml:"board" mapstructure:"board"`
	Worker  WorkerConfig  `yaml:"worker" mapstructure:"worker"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            string        `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RateLimit       int           `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development" mapstructure:"development"`
	File        string `yaml:"file" mapstructure:"file"`
	MaxSizeMB   int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups  int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays  int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// BoardConfig describes the table: its name, the directory holding one
// <column>.txt per column, and the columns created at start.
type BoardConfig struct {
	Name     string   `yaml:"name" mapstructure:"name"`
	Dir      string   `yaml:"dir" mapstructure:"dir"`
	Columns  []string `yaml:"columns" mapstructure:"columns"`
	Autosave bool     `yaml:"autosave" mapstructure:"autosave"`
}

type WorkerConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("logging.development", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)

	v.SetDefault("board.name", "Todos")
	v.SetDefault("board.dir", "board")
	v.SetDefault("board.columns", []string{"Todo", "Doing", "Done"})
	v.SetDefault("board.autosave", true)

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.interval", 5*time.Minute)
}

// Flags registers the command-line flags shared by the binaries.
func Flags(flags *pflag.FlagSet) {
	flags.String("config", DefaultFile, "path to the YAML config file")
	flags.Bool("print-config", false, "print the effective config and exit")
	flags.String("board-dir", "", "directory of <column>.txt files")
	flags.Bool("dev", false, "development logging")
}

// Load reads defaults, then the YAML file, then TODO_* environment
// variables, then flags. A missing file is only an error when it was
// asked for explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := DefaultFile
	explicit := false
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			path, explicit = f.Value.String(), f.Changed
		}
		if err := bindFlag(v, flags, "board.dir", "board-dir"); err != nil {
			return nil, err
		}
		if err := bindFlag(v, flags, "logging.development", "dev"); err != nil {
			return nil, err
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) error {
	f := flags.Lookup(name)
	if f == nil {
		return nil
	}
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind flag %s: %w", name, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q: %w", c.Server.Port, err)
	}
	if c.Board.Dir == "" {
		return errors.New("board.dir is empty")
	}
	seen := make(map[string]bool, len(c.Board.Columns))
	for _, col := range c.Board.Columns {
		if strings.TrimSpace(col) == "" {
			return errors.New("board.columns contains an empty name")
		}
		if seen[col] {
			return fmt.Errorf("board.columns: duplicate column %q", col)
		}
		seen[col] = true
	}
	if c.Worker.Enabled && c.Worker.Interval <= 0 {
		return fmt.Errorf("worker.interval must be positive, got %s", c.Worker.Interval)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// WriteYAML dumps the effective config.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
