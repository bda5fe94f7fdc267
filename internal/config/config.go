package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
)

// Config holds all application configuration
type Config struct {
	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production test"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Files
	OutputDir      string `envconfig:"OUTPUT_DIR" default:"outputs" validate:"required"`
	DataDir        string `envconfig:"DATA_DIR" default:"data/nhl" validate:"required"`
	NetworkLogPath string `envconfig:"NETWORK_LOG_PATH" default:"outputs/network_log.txt" validate:"required"`

	// HTTP
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"20s" validate:"gt=0"`
	HTTPUserAgent string        `envconfig:"HTTP_USER_AGENT" default:"Mozilla/5.0"`
	HTTPReferer   string        `envconfig:"HTTP_REFERER" default:"https://www.nhl.com/"`
	PacingDelay   time.Duration `envconfig:"PACING_DELAY" default:"120ms" validate:"gte=0"`

	// League
	Season string   `envconfig:"SEASON" validate:"omitempty,len=8,numeric"`
	Teams  []string `envconfig:"NHL_TEAMS" default:"ANA,BOS,BUF,CAR,CBJ,CGY,CHI,COL,DAL,DET,EDM,FLA,LAK,MIN,MTL,NJD,NSH,NYI,NYR,OTT,PHI,PIT,SEA,SJS,STL,TBL,TOR,UTA,VAN,VGK,WPG,WSH" validate:"min=1,dive,required"`

	// Provider base URLs
	StatsAPIBaseURL      string `envconfig:"STATSAPI_BASE_URL" default:"https://statsapi.web.nhl.com/api/v1" validate:"required,url"`
	APIWebBaseURL        string `envconfig:"APIWEB_BASE_URL" default:"https://api-web.nhle.com/v1" validate:"required,url"`
	StatsRESTBaseURL     string `envconfig:"STATS_REST_BASE_URL" default:"https://api.nhle.com/stats/rest/en" validate:"required,url"`
	ESPNSiteBaseURL      string `envconfig:"ESPN_SITE_BASE_URL" default:"https://site.api.espn.com/apis/site/v2/sports/hockey/nhl" validate:"required,url"`
	ESPNStandingsBaseURL string `envconfig:"ESPN_STANDINGS_BASE_URL" default:"https://site.api.espn.com/apis/v2/sports/hockey/nhl" validate:"required,url"`

	// Reference inputs, first existing candidate wins
	RinksPaths           []string `envconfig:"REF_RINKS_PATHS" default:"data/reference/rinks.csv,rinks.csv,/mnt/data/rinks.csv"`
	GoaliesPaths         []string `envconfig:"REF_GOALIES_PATHS" default:"data/reference/goalies.csv,goalies.csv,/mnt/data/goalies.csv"`
	InjuriesPaths        []string `envconfig:"REF_INJURIES_PATHS" default:"data/reference/injuries.csv,injuries.csv,/mnt/data/injuries.csv"`
	BaseProjectionsPaths []string `envconfig:"BASE_PROJECTIONS_PATHS" default:"outputs/projections.csv,projections.csv,data/projections.csv"`
	PlayersPaths         []string `envconfig:"PLAYERS_PATHS" default:"outputs/players.csv,players.csv"`

	// Normalizer field resolution overrides (JSON)
	NormalizerRulesFile string `envconfig:"NORMALIZER_RULES_FILE"`

	// Snapshot mirror
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Redis payload cache
	RedisEnabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379" validate:"gt=0,lt=65536"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"30m" validate:"gt=0"`

	// Monitoring
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL" validate:"omitempty,url"`
	MetricsJob     string `envconfig:"METRICS_JOB" default:"nhlproj" validate:"required"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment config")
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// Validate checks struct tags, then the rules that span fields
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.RedisEnabled && c.RedisHost == "" {
		return errors.New("REDIS_HOST is required when REDIS_ENABLED is set")
	}

	return nil
}

// SeasonCode returns SEASON when set, else the season in progress at now
func (c *Config) SeasonCode(now time.Time) string {
	if c.Season != "" {
		return c.Season
	}
	return normalize.SeasonCode(now)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
