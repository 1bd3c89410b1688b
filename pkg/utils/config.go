package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Model    ModelConfig
}

type AppConfig struct {
	Name      string
	Debug     bool
	LogPath   string
	OpTimeout time.Duration `validate:"min=0"`
}

type DatabaseConfig struct {
	Driver     string `validate:"oneof=postgres sqlite"`
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	MaxConns   int32 `validate:"min=1"`
	SQLitePath string
	Seed       bool
}

type ModelConfig struct {
	ModelPath      string `validate:"required"`
	TokenizerPath  string `validate:"required"`
	MaxSeqLength   int    `validate:"min=2,max=512"`
	RuntimeLibrary string
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"debug":     "DEBUG",
	"db-driver": "DB_DRIVER",
	"model":     "MODEL_PATH",
	"tokenizer": "TOKENIZER_PATH",
}

// LoadConfig reads configFile (dotenv format) when present, then the
// environment, then any bound flags. A missing file is not an error.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("env")
	}

	// Set defaults
	v.SetDefault("APP_NAME", "movie-sentiment")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("OP_TIMEOUT", "30s")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "movies")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_SEED", true)
	v.SetDefault("SQLITE_PATH", "data/movies.db")
	v.SetDefault("MODEL_PATH", "ml_model/sentiment_model.onnx")
	v.SetDefault("TOKENIZER_PATH", "ml_model/sentiment_transformer_tokenizer")
	v.SetDefault("MAX_SEQ_LENGTH", 128)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	config := &Config{
		App: AppConfig{
			Name:      v.GetString("APP_NAME"),
			Debug:     v.GetBool("DEBUG"),
			LogPath:   v.GetString("LOG_PATH"),
			OpTimeout: v.GetDuration("OP_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASS"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			SQLitePath: v.GetString("SQLITE_PATH"),
			Seed:       v.GetBool("DB_SEED"),
		},
		Model: ModelConfig{
			ModelPath:      v.GetString("MODEL_PATH"),
			TokenizerPath:  v.GetString("TOKENIZER_PATH"),
			MaxSeqLength:   v.GetInt("MAX_SEQ_LENGTH"),
			RuntimeLibrary: v.GetString("ONNXRUNTIME_LIB"),
		},
	}

	if errs := ValidateStruct(config); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", FormatValidationErrors(errs))
	}

	return config, nil
}
