package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	CacheConfig struct {
		UnusedTTL            time.Duration // 0 => entries are never evicted
		MaxRetries           uint          // 0 => no automatic retry
		RetryInitialInterval time.Duration
		RetryMaxInterval     time.Duration
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		RollbarToken string
		PageSize     int
		SessionPath  string
		API          APIConfig
		Cache        CacheConfig
	}
)

// NewConfig loads the configuration from defaults, the optional `.env.<env>` file and the environment.
// ENV selects the environment (DEV by default) and is used as the environment variables prefix,
// eg. DEV_API_BASEURL. API_URL is honoured as well for the backend base URL.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Education Platform")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("cache.unusedTTL", time.Duration(0))
	v.SetDefault("cache.maxRetries", 0)
	v.SetDefault("cache.retryInitialInterval", 500*time.Millisecond)
	v.SetDefault("cache.retryMaxInterval", 10*time.Second)
	v.SetDefault("table.pageSize", 10)
	v.SetDefault("session.path", defaultSessionPath())

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(".", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.baseURL", env+"_API_BASEURL", "API_URL"); err != nil {
		return nil, errors.Wrap(err, "binding API_URL")
	}

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		PageSize:     v.GetInt("table.pageSize"),
		SessionPath:  v.GetString("session.path"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.baseURL"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Cache: CacheConfig{
			UnusedTTL:            v.GetDuration("cache.unusedTTL"),
			MaxRetries:           v.GetUint("cache.maxRetries"),
			RetryInitialInterval: v.GetDuration("cache.retryInitialInterval"),
			RetryMaxInterval:     v.GetDuration("cache.retryMaxInterval"),
		},
	}
	if conf.PageSize <= 0 {
		conf.PageSize = 10
	}
	return conf, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "education-platform", "session.yaml")
}
