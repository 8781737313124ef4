package Config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the console needs at startup.
type Config struct {
	Port          string
	APIBaseURL    string
	SessionDir    string
	SessionTTL    time.Duration
	SessionIdle   time.Duration
	SweepSchedule string
	DatabasePath  string
	LogDir        string
	TemplatesDir  string
	ToastTimeout  time.Duration
	CookieSecure  bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "3001")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("SESSION_DIR", "data/sessions")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_IDLE", "2h")
	v.SetDefault("SWEEP_SCHEDULE", "@every 15m")
	v.SetDefault("DATABASE_PATH", "data/console.db")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("TEMPLATES_DIR", "./Templates")
	v.SetDefault("TOAST_TIMEOUT", "2s")
	v.SetDefault("COOKIE_SECURE", false)
}

// LoadConfig reads .env, the optional YAML file named by CONSOLE_CONFIG and
// the process environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return load(viper.New(), os.Getenv("CONSOLE_CONFIG"))
}

func load(v *viper.Viper, file string) (*Config, error) {
	defaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, err
			}
			log.Printf("Config file %s not found, using defaults", file)
		}
	}

	cfg := &Config{
		Port:          v.GetString("PORT"),
		APIBaseURL:    v.GetString("API_BASE_URL"),
		SessionDir:    v.GetString("SESSION_DIR"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		SessionIdle:   v.GetDuration("SESSION_IDLE"),
		SweepSchedule: v.GetString("SWEEP_SCHEDULE"),
		DatabasePath:  v.GetString("DATABASE_PATH"),
		LogDir:        v.GetString("LOG_DIR"),
		TemplatesDir:  v.GetString("TEMPLATES_DIR"),
		ToastTimeout:  v.GetDuration("TOAST_TIMEOUT"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL must not be empty")
	}
	return cfg, nil
}
