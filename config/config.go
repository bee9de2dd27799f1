package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	StorageDriver string `mapstructure:"STORAGE_DRIVER"` // file, memory, redis, postgres, sqlite
	DataDir       string `mapstructure:"DATA_DIR"`

	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisPrefix string `mapstructure:"REDIS_PREFIX"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	SQLitePath string `mapstructure:"SQLITE_PATH"`

	DefaultVendorID string `mapstructure:"DEFAULT_VENDOR_ID"`
	Currency        string `mapstructure:"CURRENCY"`
	MinPayoutAmount int64  `mapstructure:"MIN_PAYOUT_AMOUNT"`

	LogProduction bool `mapstructure:"LOG_PRODUCTION"`
}

var keys = []string{
	"STORAGE_DRIVER", "DATA_DIR",
	"REDIS_ADDR", "REDIS_PREFIX",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"SQLITE_PATH",
	"DEFAULT_VENDOR_ID", "CURRENCY", "MIN_PAYOUT_AMOUNT",
	"LOG_PRODUCTION",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("STORAGE_DRIVER", "file")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PREFIX", "marketplace:")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "marketplace")
	v.SetDefault("SQLITE_PATH", "./data/ledger.db")
	v.SetDefault("DEFAULT_VENDOR_ID", "vendor-default")
	v.SetDefault("CURRENCY", "NGN")
	v.SetDefault("MIN_PAYOUT_AMOUNT", 1000)
	v.SetDefault("LOG_PRODUCTION", false)

	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// DSN builds the postgres connection string the same way the services do.
func (c Config) DSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}
