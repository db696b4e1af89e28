package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

// 开发环境下 JWT_SECRET 缺省时使用的签名密钥，生产环境必须显式配置
const developmentJWTSecret = "knudge-development-secret"

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"knudge"`
	Version     string `env:"SERVICE_VERSION" envDefault:"0.1.0"`

	// 跨域白名单，为空时回显请求 Origin
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"knudge"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"10"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"50"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"knudge"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// 引导流程事件投递
	EventsEnabled  bool   `env:"EVENTS_ENABLED" envDefault:"false"`
	EventsExchange string `env:"EVENTS_EXCHANGE" envDefault:"knudge.events"`
	EventsQueue    string `env:"EVENTS_QUEUE" envDefault:"knudge.onboarding.events"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"60"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	TracingSampler float64 `env:"TRACING_SAMPLER" envDefault:"0.1"`

	// 引导会话存储：redis, postgres, memory
	OnboardingBackend    string `env:"ONBOARDING_BACKEND" envDefault:"redis"`
	OnboardingStorageKey string `env:"ONBOARDING_STORAGE_KEY" envDefault:"knudge-onboarding"`

	// 动态流分页
	FeedPageSize     int  `env:"FEED_PAGE_SIZE" envDefault:"10"`
	FeedMaxTotal     int  `env:"FEED_MAX_TOTAL" envDefault:"40"`
	FeedFetchDelayMS int  `env:"FEED_FETCH_DELAY_MS" envDefault:"1000"`
	LoginDelayMS     int  `env:"LOGIN_DELAY_MS" envDefault:"1500"`
	LoginLockSeconds int  `env:"LOGIN_LOCK_SECONDS" envDefault:"10"`
	AuthRateLimitRPM int  `env:"AUTH_RATE_LIMIT_RPM" envDefault:"30"`
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required")
		}
		log.Printf("WARN: JWT_SECRET is not set, using development secret")
		Cfg.JWTSecret = developmentJWTSecret
	}

	switch Cfg.OnboardingBackend {
	case "redis", "postgres", "memory":
	default:
		log.Fatalf("ONBOARDING_BACKEND must be one of redis, postgres, memory, got %q", Cfg.OnboardingBackend)
	}

	if Cfg.OnboardingBackend == "memory" && Cfg.IsProduction() {
		log.Printf("WARN: ONBOARDING_BACKEND=memory loses sessions on restart")
	}
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) FeedFetchDelay() time.Duration {
	return time.Duration(c.FeedFetchDelayMS) * time.Millisecond
}

func (c *Config) LoginDelay() time.Duration {
	return time.Duration(c.LoginDelayMS) * time.Millisecond
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// RedisRequired redis 后端、限流都依赖 redis，登录锁在 redis 可用时也使用它
func (c *Config) RedisRequired() bool {
	return c.OnboardingBackend == "redis" || c.RateLimitEnabled
}
