package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WarehouseConfig configures the data source the three base tables are read from.
type WarehouseConfig struct {
	Driver     string       `yaml:"driver" mapstructure:"driver"`
	User       string       `yaml:"user" mapstructure:"user"`
	Password   string       `yaml:"password" mapstructure:"password"`
	Account    string       `yaml:"account" mapstructure:"account"`
	Port       int          `yaml:"port" mapstructure:"port"`
	Warehouse  string       `yaml:"warehouse" mapstructure:"warehouse"`
	Database   string       `yaml:"database" mapstructure:"database"`
	Schema     string       `yaml:"schema" mapstructure:"schema"`
	SQLitePath string       `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Limit      int          `yaml:"limit" mapstructure:"limit"`
	Tables     TablesConfig `yaml:"tables" mapstructure:"tables"`
	Files      FilesConfig  `yaml:"files" mapstructure:"files"`
}

// TablesConfig names the three warehouse tables.
type TablesConfig struct {
	Indicators string `yaml:"indicators" mapstructure:"indicators"`
	Fabric     string `yaml:"fabric" mapstructure:"fabric"`
	Locations  string `yaml:"locations" mapstructure:"locations"`
}

// FilesConfig locates flat-file snapshots when the driver is "files".
type FilesConfig struct {
	Indicators       string `yaml:"indicators" mapstructure:"indicators"`
	Fabric           string `yaml:"fabric" mapstructure:"fabric"`
	Locations        string `yaml:"locations" mapstructure:"locations"`
	Delimiter        string `yaml:"delimiter" mapstructure:"delimiter"`
	DecimalComma     bool   `yaml:"decimal_comma" mapstructure:"decimal_comma"`
	LocationSkipRows int    `yaml:"location_skip_rows" mapstructure:"location_skip_rows"`
}

// DashboardConfig configures the territory selector.
type DashboardConfig struct {
	DefaultRegion  string `yaml:"default_region" mapstructure:"default_region"`
	ExcludedRegion string `yaml:"excluded_region" mapstructure:"excluded_region"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ReportRate     float64  `yaml:"report_rate" mapstructure:"report_rate"`
	ReportBurst    int      `yaml:"report_burst" mapstructure:"report_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TERRITORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("warehouse.driver", "postgres")
	v.SetDefault("warehouse.port", 5432)
	v.SetDefault("warehouse.user", "")
	v.SetDefault("warehouse.password", "")
	v.SetDefault("warehouse.account", "")
	v.SetDefault("warehouse.warehouse", "")
	v.SetDefault("warehouse.database", "")
	v.SetDefault("warehouse.schema", "")
	v.SetDefault("warehouse.sqlite_path", "territory.db")
	v.SetDefault("warehouse.limit", 0)
	v.SetDefault("warehouse.tables.indicators", "TABLA_BASE_MUNICIPIOS")
	v.SetDefault("warehouse.tables.fabric", "TABLA_TEJIDO_MUNICIPIOS")
	v.SetDefault("warehouse.tables.locations", "TABLA_DIVIPOLA_MUNICIPIOS")
	v.SetDefault("warehouse.files.indicators", "Base_municipios.txt")
	v.SetDefault("warehouse.files.fabric", "Tejido_Municipios.txt")
	v.SetDefault("warehouse.files.locations", "DIVIPOLA_Municipios.xlsx")
	v.SetDefault("warehouse.files.delimiter", "|")
	v.SetDefault("warehouse.files.decimal_comma", true)
	v.SetDefault("warehouse.files.location_skip_rows", 10)
	v.SetDefault("dashboard.default_region", "Arauca")
	v.SetDefault("dashboard.excluded_region", "No determinado")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.report_rate", 2.0)
	v.SetDefault("server.report_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings required by the given mode are present.
// Modes: "load" (any command reading the base tables) and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "load", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	w := c.Warehouse
	switch w.Driver {
	case "postgres":
		if w.Account == "" {
			errs = append(errs, "warehouse.account is required")
		}
		if w.User == "" {
			errs = append(errs, "warehouse.user is required")
		}
	case "sqlite":
		if w.SQLitePath == "" {
			errs = append(errs, "warehouse.sqlite_path is required")
		}
	case "files":
		if w.Files.Indicators == "" || w.Files.Fabric == "" || w.Files.Locations == "" {
			errs = append(errs, "warehouse.files needs indicators, fabric and locations paths")
		}
	default:
		errs = append(errs, fmt.Sprintf("warehouse.driver %q is not one of postgres, sqlite, files", w.Driver))
	}
	if w.Limit < 0 {
		errs = append(errs, "warehouse.limit must be >= 0")
	}

	if mode == "serve" {
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.ReportRate < 0 || c.Server.ReportBurst < 0 {
			errs = append(errs, "server.report_rate and server.report_burst must be >= 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger replaces the global zap logger with one built from cfg. Every
// entry carries the service name and the warehouse driver the tables come
// from, so logs from the CLI and the server can be told apart downstream.
func InitLogger(cfg LogConfig, driver string) error {
	zapCfg, err := loggerConfig(cfg, driver)
	if err != nil {
		return err
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger.Named("territory"))

	return nil
}

func loggerConfig(cfg LogConfig, driver string) (zap.Config, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Sampling = nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, eris.Wrapf(err, "config: parse log level %q", cfg.Level)
	}
	zapCfg.Level.SetLevel(level)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]any{
		"service": "territory-profile",
		"driver":  driver,
	}
	return zapCfg, nil
}
