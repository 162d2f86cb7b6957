package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hoursboard/timereport/internal/report"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Board    BoardConfig    `mapstructure:"board"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds the local cache database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// BoardConfig holds host platform API configuration
type BoardConfig struct {
	APIURL     string           `mapstructure:"api_url"`
	Token      string           `mapstructure:"token"`
	BoardID    string           `mapstructure:"board_id"`
	Timezone   string           `mapstructure:"timezone"`
	APITimeout time.Duration    `mapstructure:"api_timeout"`
	Columns    report.ColumnIDs `mapstructure:"columns"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/timereport.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("board.api_timeout", 30*time.Second)
	viper.SetDefault("board.timezone", "Asia/Jerusalem")
	viper.SetDefault("board.columns.event_type", "status")
	viper.SetDefault("board.columns.approval", "approval_status")
	viper.SetDefault("board.columns.date", "date")
	viper.SetDefault("board.columns.duration", "numbers")
	viper.SetDefault("board.columns.notes", "text")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	// Credentials come from the environment, never the config file.
	viper.BindEnv("board.token", "BOARD_API_TOKEN")
	viper.BindEnv("board.api_url", "BOARD_API_URL")
	viper.BindEnv("board.board_id", "BOARD_ID")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Board.APIURL == "" {
		return fmt.Errorf("board.api_url is required")
	}
	if c.Board.Token == "" {
		return fmt.Errorf("board.token is required")
	}
	if c.Board.BoardID == "" {
		return fmt.Errorf("board.board_id is required")
	}
	if c.Board.Columns.EventType == "" {
		return fmt.Errorf("board.columns.event_type is required")
	}
	if c.Board.Columns.Date == "" {
		return fmt.Errorf("board.columns.date is required")
	}
	if c.Board.Columns.Duration == "" {
		return fmt.Errorf("board.columns.duration is required")
	}
	if _, err := time.LoadLocation(c.Board.Timezone); err != nil {
		return fmt.Errorf("invalid board.timezone: %w", err)
	}
	return nil
}
