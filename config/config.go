// server/config/config.go
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// --- Sub-structs, mirroring the YAML layout ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type StoreConfig struct {
	UseMemory bool `mapstructure:"useMemory"`
}

type MongoConfig struct {
	URI     string        `mapstructure:"uri"`
	DBName  string        `mapstructure:"dbName"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type RateLimitConfig struct {
	PerMinute int `mapstructure:"perMinute"`
	Burst     int `mapstructure:"burst"`
}

type AuthConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	JWTSecret     string        `mapstructure:"jwtSecret"`
	Expiration    time.Duration `mapstructure:"expiration"`
	AdminEmail    string        `mapstructure:"adminEmail"`
	AdminPassword string        `mapstructure:"adminPassword"`
}

type SeedConfig struct {
	DemoData bool `mapstructure:"demoData"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

// Enabled reports whether document uploads can be served.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// --- Top-level Config ---

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Seed      SeedConfig      `mapstructure:"seed"`
	S3        S3Config        `mapstructure:"s3"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("store.useMemory", true)
	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017/safaipak")
	v.SetDefault("mongo.dbName", "safaipak")
	v.SetDefault("mongo.timeout", "10s")
	v.SetDefault("log.env", "development")
	v.SetDefault("log.level", "debug")
	v.SetDefault("cors.allowOrigins", []string{"*"})
	v.SetDefault("rateLimit.perMinute", 0)
	v.SetDefault("rateLimit.burst", 20)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwtSecret", "safaipak-dev-secret")
	v.SetDefault("auth.expiration", "24h")
	v.SetDefault("auth.adminEmail", "admin@safaipak.pk")
	v.SetDefault("auth.adminPassword", "changeme")
	v.SetDefault("seed.demoData", false)
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "GIN_MODE")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("mongo.timeout", "MONGO_TIMEOUT")
	v.BindEnv("log.env", "APP_ENV")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("cors.allowOrigins", "CORS_ALLOW_ORIGINS")
	v.BindEnv("rateLimit.perMinute", "RATE_LIMIT_PER_MINUTE")
	v.BindEnv("rateLimit.burst", "RATE_LIMIT_BURST")
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("auth.jwtSecret", "JWT_SECRET")
	v.BindEnv("auth.expiration", "JWT_EXPIRATION")
	v.BindEnv("auth.adminEmail", "ADMIN_EMAIL")
	v.BindEnv("auth.adminPassword", "ADMIN_PASSWORD")
	v.BindEnv("seed.demoData", "SEED_DEMO_DATA")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
}

// LoadConfig reads config.yaml from path and overrides it with environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	v.AutomaticEnv()
	bindEnv(v)

	// A missing file is fine, env vars and defaults still apply.
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	// Memory mode stays on unless USE_MEMORY_DB is literally "false".
	config.Store.UseMemory = useMemoryStore(v)
	config.CORS.AllowOrigins = splitOrigins(config.CORS.AllowOrigins)
	return
}

func useMemoryStore(v *viper.Viper) bool {
	if raw, ok := os.LookupEnv("USE_MEMORY_DB"); ok {
		return raw != "false"
	}
	return v.GetBool("store.useMemory")
}

// splitOrigins accepts both a YAML list and a comma separated env value.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
