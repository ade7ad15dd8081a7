package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type JWTConfig struct {
	SecretKey  string
	TTL        time.Duration
	BcryptCost int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	VariantsTopic string
	OrdersTopic   string
	GroupID       string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

type MetricsConfig struct {
	Enabled bool
}

var defaults = map[string]any{
	"app.env":          "dev",
	"http.port":        ":8080",
	"grpc.port":        ":8082",
	"shutdown.timeout": 10,

	"logger.level":              "debug",
	"logger.encoding":           "console",
	"logger.disable.caller":     false,
	"logger.disable.stacktrace": true,

	"postgres.host":               "localhost",
	"postgres.port":               "5433",
	"postgres.user":               "omnipos",
	"postgres.password":           "omnipos",
	"postgres.db":                 "omnipos_catalog",
	"postgres.sslmode":            "disable",
	"postgres.max.open.conns":     10,
	"postgres.max.idle.conns":     5,
	"postgres.conn.max.lifetime":  300,
	"postgres.conn.max.idle.time": 60,
	"postgres.auto.migrate":       true,

	"jwt.secret.key":  "your-secret-key-change-this-in-prod",
	"jwt.ttl.minutes": 60 * 24,
	"bcrypt.cost":     12,

	"redis.enabled":  true,
	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"kafka.enabled":         true,
	"kafka.brokers":         "localhost:9092",
	"kafka.topic.variants":  "catalog.variant.events",
	"kafka.topic.orders":    "orders.events",
	"kafka.group.inventory": "catalog-inventory",

	"elasticsearch.enabled":   true,
	"elasticsearch.addresses": "http://localhost:9200",
	"elasticsearch.username":  "",
	"elasticsearch.password":  "",

	"metrics.enabled": true,
}

// LoadEnv reads .env when present, then the process environment. Keys map
// from env names by replacing "_" with ".", so POSTGRES_HOST is postgres.host.
func LoadEnv() *Config {
	_ = godotenv.Load()
	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func load(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          v.GetString("app.env"),
			HTTPPort:        v.GetString("http.port"),
			GRPCPort:        v.GetString("grpc.port"),
			ShutdownTimeout: time.Duration(v.GetInt("shutdown.timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level:             v.GetString("logger.level"),
			Encoding:          v.GetString("logger.encoding"),
			DisableCaller:     v.GetBool("logger.disable.caller"),
			DisableStacktrace: v.GetBool("logger.disable.stacktrace"),
		},
		Postgres: PostgresConfig{
			Host:            v.GetString("postgres.host"),
			Port:            v.GetString("postgres.port"),
			User:            v.GetString("postgres.user"),
			Password:        v.GetString("postgres.password"),
			DBName:          v.GetString("postgres.db"),
			SSLMode:         v.GetString("postgres.sslmode"),
			MaxOpenConns:    v.GetInt("postgres.max.open.conns"),
			MaxIdleConns:    v.GetInt("postgres.max.idle.conns"),
			ConnMaxLifetime: v.GetInt("postgres.conn.max.lifetime"),
			ConnMaxIdleTime: v.GetInt("postgres.conn.max.idle.time"),
			AutoMigrate:     v.GetBool("postgres.auto.migrate"),
		},
		JWT: JWTConfig{
			SecretKey:  v.GetString("jwt.secret.key"),
			TTL:        time.Duration(v.GetInt("jwt.ttl.minutes")) * time.Minute,
			BcryptCost: v.GetInt("bcrypt.cost"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Kafka: KafkaConfig{
			Enabled:       v.GetBool("kafka.enabled"),
			Brokers:       splitList(v.GetString("kafka.brokers")),
			VariantsTopic: v.GetString("kafka.topic.variants"),
			OrdersTopic:   v.GetString("kafka.topic.orders"),
			GroupID:       v.GetString("kafka.group.inventory"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   v.GetBool("elasticsearch.enabled"),
			Addresses: splitList(v.GetString("elasticsearch.addresses")),
			Username:  v.GetString("elasticsearch.username"),
			Password:  v.GetString("elasticsearch.password"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "dev" || c.Server.AppEnv == "development"
}
