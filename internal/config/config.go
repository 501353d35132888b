// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures every knob the pipeline reads, loaded once at startup and
// passed into the components that need it.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	DB      DBConfig      `mapstructure:"db"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig describes the single Open Library search request.
type APIConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Query          string `mapstructure:"query"`
	Sort           string `mapstructure:"sort"`
	Fields         string `mapstructure:"fields"`
	Limit          int    `mapstructure:"limit"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	ConnURL string `mapstructure:"conn_url"`
	Table   string `mapstructure:"table"`
}

// OutputConfig sets the destinations for exported artifacts.
type OutputConfig struct {
	CSVPath  string `mapstructure:"csv_path"`
	JSONPath string `mapstructure:"json_path"`
	PlotDir  string `mapstructure:"plot_dir"`
	PlotFile string `mapstructure:"plot_file"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

var validTable = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load builds a Config from an optional .env file, an optional config file,
// and the environment.
func Load(path string) (Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The connection URL is the one externally required variable.
	if err := v.BindEnv("db.conn_url", "DB_CONN_URL"); err != nil {
		return Config{}, fmt.Errorf("bind DB_CONN_URL: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.endpoint", "https://openlibrary.org/search.json")
	v.SetDefault("api.query", "fiction")
	v.SetDefault("api.sort", "rating")
	v.SetDefault("api.fields", "title,author_name,first_publish_year,ratings_sortable")
	v.SetDefault("api.limit", 100)
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("api.user_agent", "bookpipeline/1.0 (+https://github.com/libdata/bookpipeline)")
	v.SetDefault("db.table", "LibBooks")
	v.SetDefault("output.csv_path", "books_cleaned.csv")
	v.SetDefault("output.json_path", "books.json")
	v.SetDefault("output.plot_dir", "Visualizations")
	v.SetDefault("output.plot_file", "countplot.png")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. The connection
// URL is deliberately not checked here: a missing URL is a database sink
// construction error, not a config load error.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.Endpoint) == "" {
		return fmt.Errorf("api.endpoint must be set")
	}
	if c.API.Limit <= 0 {
		return fmt.Errorf("api.limit must be > 0")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0")
	}
	if !validTable.MatchString(c.DB.Table) {
		return fmt.Errorf("invalid db.table %q", c.DB.Table)
	}
	return nil
}

// SearchURL assembles the full search request URL with encoded parameters.
func (c Config) SearchURL() (string, error) {
	u, err := url.Parse(c.API.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse api.endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", c.API.Query)
	q.Set("sort", c.API.Sort)
	q.Set("fields", c.API.Fields)
	q.Set("limit", strconv.Itoa(c.API.Limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HTTPTimeout converts the configured timeout into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
