package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort                string   `env:"PORT" envDefault:"5000"`
	AppName                string   `env:"APP_NAME" envDefault:"nemo-ecommerce-server"`
	Env                    string   `env:"ENV" envDefault:"development"`
	GrpcPort               string   `env:"GRPC_PORT"`
	MongoURI               string   `env:"MONGODB_URI,required,notEmpty"`
	MongoDBName            string   `env:"MONGO_DB_NAME" envDefault:"nemo-ecommerce-db"`
	MongoCollection        string   `env:"MONGO_COLLECTION" envDefault:"products"`
	MaxBodyBytes           int64    `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	CorsAllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogFormat              string   `env:"LOG_FORMAT" envDefault:"JSON"`
	LogLevel               string   `env:"LOG_LEVEL" envDefault:"INFO"`
	TraceStdout            bool     `env:"TRACE_STDOUT" envDefault:"false"`
	TraceIDRatio           float64  `env:"TRACE_ID_RATIO" envDefault:"1"`
	RemoteLogHttpURI       string   `env:"REMOTE_LOG_HTTP_URI"`
	RemoteTraceRpcURI      string   `env:"REMOTE_TRACE_RPC_URI"`
	RemoteProfilingHttpURI string   `env:"REMOTE_PROFILING_HTTP_URI"`
}

// SafeConfig is what gets logged at startup; the connection string may carry credentials.
type SafeConfig struct {
	AppPort                string   `json:"app_port"`
	AppName                string   `json:"app_name"`
	Env                    string   `json:"env"`
	GrpcPort               string   `json:"grpc_port"`
	MongoDBName            string   `json:"mongo_db_name"`
	MongoCollection        string   `json:"mongo_collection"`
	MaxBodyBytes           int64    `json:"max_body_bytes"`
	CorsAllowedOrigins     []string `json:"cors_allowed_origins"`
	LogFormat              string   `json:"log_format"`
	LogLevel               string   `json:"log_level"`
	RemoteLogHttpURI       string   `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string   `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string   `json:"remote_profiling_http_uri"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ToSafeConfig drops secrets so the result can be logged.
func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		Env:                    c.Env,
		GrpcPort:               c.GrpcPort,
		MongoDBName:            c.MongoDBName,
		MongoCollection:        c.MongoCollection,
		MaxBodyBytes:           c.MaxBodyBytes,
		CorsAllowedOrigins:     c.CorsAllowedOrigins,
		LogFormat:              c.LogFormat,
		LogLevel:               c.LogLevel,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.TraceIDRatio < 0 || cfg.TraceIDRatio > 1 {
		return nil, fmt.Errorf("TRACE_ID_RATIO must be within [0, 1], got %v", cfg.TraceIDRatio)
	}
	return &cfg, nil
}

var (
	configInstance *Config
	configOnce     sync.Once
)

// Instance loads the configuration once and exits the process when it is invalid.
func Instance(log *slog.Logger) *Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Error("Invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		configInstance = cfg

		if cfg.RemoteLogHttpURI == "" {
			log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
		}
		if cfg.RemoteTraceRpcURI == "" {
			log.Warn("Missing REMOTE_TRACE_RPC_URI will skip sending trace")
		}
		if cfg.RemoteProfilingHttpURI == "" {
			log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip sending profiling")
		}

		attrs := StructAttrs("data", cfg.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		log.Info("Configuration loaded successfully", anyAttrs...)
	})

	return configInstance
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "5000"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key := prefix + "." + jsonKey(t.Field(i))

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

// jsonKey prefers the json tag and falls back to snake_case of the field name.
func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}
