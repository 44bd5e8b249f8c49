package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Durations are expressed in
// seconds so the YAML stays plain numbers.
type Config struct {
	Symbol string `yaml:"symbol" default:"XAU/USD" validate:"required"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`

	Server struct {
		Listen string `yaml:"listen" default:":5000" validate:"required"`
	} `yaml:"server"`

	PriceSource struct {
		BaseURL              string   `yaml:"base_url" default:"https://api.twelvedata.com" validate:"required,url"`
		APIKey               string   `yaml:"api_key" validate:"required"`
		Intervals            []string `yaml:"intervals" validate:"min=1"`
		OutputSize           int      `yaml:"output_size" default:"200" validate:"gt=0"`
		InterCallDelaySec    int      `yaml:"inter_call_delay_sec" default:"2" validate:"gte=0"`
		RateLimitCooldownSec int      `yaml:"rate_limit_cooldown_sec" default:"61" validate:"gte=0"`
	} `yaml:"price_source"`

	StatsSource struct {
		BaseURL string `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"required,url"`
		APIKey  string `yaml:"api_key" validate:"required"`
	} `yaml:"stats_source"`

	Calendar struct {
		RSSURL        string `yaml:"rss_url" default:"https://www.forexfactory.com/rss"`
		HorizonHours  int    `yaml:"horizon_hours" default:"4" validate:"gt=0"`
		SampleOnEmpty bool   `yaml:"sample_on_empty" default:"true"`
	} `yaml:"calendar"`

	// Correlations maps a proxy name to the tradable symbol fetched for it
	// via the batched quote request. Authoritative indicators (yields, DXY,
	// VIX, USD/EUR) come from the statistics provider and are not listed
	// here.
	Correlations map[string]string `yaml:"correlations"`

	CacheTTL struct {
		QuoteSec       int `yaml:"quote_sec" default:"30" validate:"gt=0"`
		PriceDataSec   int `yaml:"price_data_sec" default:"300" validate:"gt=0"`
		CorrelationSec int `yaml:"correlation_sec" default:"60" validate:"gt=0"`
		NewsSec        int `yaml:"news_sec" default:"3600" validate:"gt=0"`
	} `yaml:"cache_ttl"`

	Timeouts struct {
		PrimarySec     int `yaml:"primary_sec" default:"20" validate:"gt=0"`
		CorrelationSec int `yaml:"correlation_sec" default:"10" validate:"gt=0"`
		EventsSec      int `yaml:"events_sec" default:"5" validate:"gt=0"`
	} `yaml:"timeouts"`

	Analysis struct {
		PrimaryTimeframe  string  `yaml:"primary_timeframe" default:"1h"`
		RSIPeriod         int     `yaml:"rsi_period" default:"14" validate:"gt=0"`
		RSIOverbought     float64 `yaml:"rsi_overbought" default:"70"`
		RSIOversold       float64 `yaml:"rsi_oversold" default:"30"`
		MAPeriods         []int   `yaml:"ma_periods"`
		LevelLookback     int     `yaml:"level_lookback" default:"50" validate:"gt=0"`
		ClusterTolerance  float64 `yaml:"cluster_tolerance" default:"0.001" validate:"gt=0"`
		AlertProximityPct float64 `yaml:"alert_proximity_pct" default:"0.2" validate:"gt=0"`
		YieldAlertBps     float64 `yaml:"yield_alert_bps" default:"5" validate:"gt=0"`
		VolumeLookback    int     `yaml:"volume_lookback" default:"20" validate:"gt=0"`
		HighVolumeRatio   float64 `yaml:"high_volume_ratio" default:"1.5" validate:"gt=0"`
	} `yaml:"analysis"`

	Schedule struct {
		UpdateCron string `yaml:"update_cron" default:"0 */15 * * * *" validate:"required"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// Slice and map defaults the defaults tag cannot express.
	if len(cfg.PriceSource.Intervals) == 0 {
		cfg.PriceSource.Intervals = []string{"15min", "1h", "4h"}
	}
	if len(cfg.Analysis.MAPeriods) == 0 {
		cfg.Analysis.MAPeriods = []int{50, 200}
	}
	if len(cfg.Correlations) == 0 {
		cfg.Correlations = map[string]string{
			"EUR/USD": "EUR/USD",
			"USD/JPY": "USD/JPY",
			"GBP/USD": "GBP/USD",
			"BTC/USD": "BTC/USD",
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		cfg.PriceSource.APIKey = v
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.StatsSource.APIKey = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("UPDATE_CRON"); v != "" {
		cfg.Schedule.UpdateCron = v
	}

	return cfg, nil
}

// Validate checks that all required fields are set and within range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Analysis.RSIOversold >= c.Analysis.RSIOverbought {
		return fmt.Errorf("rsi_oversold must be below rsi_overbought")
	}
	for _, iv := range c.PriceSource.Intervals {
		if iv == c.Analysis.PrimaryTimeframe {
			return nil
		}
	}
	return fmt.Errorf("primary_timeframe %q is not in price_source.intervals", c.Analysis.PrimaryTimeframe)
}

// Duration accessors for the seconds-typed fields.

func (c *Config) QuoteTTL() time.Duration { return time.Duration(c.CacheTTL.QuoteSec) * time.Second }

func (c *Config) PriceDataTTL() time.Duration {
	return time.Duration(c.CacheTTL.PriceDataSec) * time.Second
}

func (c *Config) CorrelationTTL() time.Duration {
	return time.Duration(c.CacheTTL.CorrelationSec) * time.Second
}

func (c *Config) NewsTTL() time.Duration { return time.Duration(c.CacheTTL.NewsSec) * time.Second }

func (c *Config) PrimaryTimeout() time.Duration {
	return time.Duration(c.Timeouts.PrimarySec) * time.Second
}

func (c *Config) CorrelationTimeout() time.Duration {
	return time.Duration(c.Timeouts.CorrelationSec) * time.Second
}

func (c *Config) EventsTimeout() time.Duration {
	return time.Duration(c.Timeouts.EventsSec) * time.Second
}

func (c *Config) InterCallDelay() time.Duration {
	return time.Duration(c.PriceSource.InterCallDelaySec) * time.Second
}

func (c *Config) RateLimitCooldown() time.Duration {
	return time.Duration(c.PriceSource.RateLimitCooldownSec) * time.Second
}

func (c *Config) EventHorizon() time.Duration {
	return time.Duration(c.Calendar.HorizonHours) * time.Hour
}
