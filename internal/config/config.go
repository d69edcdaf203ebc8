package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Review    ReviewConfig    `mapstructure:"review"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// QuizConfig 出题编排参数
// 阈值来源于线上调参经验，均可按需覆盖
type QuizConfig struct {
	MaxQuestionCount     int     `mapstructure:"max_question_count"`
	MaxRetriesPerNode    int     `mapstructure:"max_retries_per_node"`
	DuplicateThreshold   float64 `mapstructure:"duplicate_threshold"`
	QualityThreshold     float64 `mapstructure:"quality_threshold"`
	ShortAnswerThreshold float64 `mapstructure:"short_answer_threshold"`
	Concurrency          int     `mapstructure:"concurrency"`
}

type ReviewConfig struct {
	DueSoonMinutes       int `mapstructure:"due_soon_minutes"`
	StatsCacheTTLMinutes int `mapstructure:"stats_cache_ttl_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ADAPTIVE_QUIZ")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Quiz = cfg.Quiz.withDefaults()
	cfg.Review = cfg.Review.withDefaults()
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 30
	}

	return &cfg, nil
}

func (q QuizConfig) withDefaults() QuizConfig {
	if q.MaxQuestionCount <= 0 {
		q.MaxQuestionCount = 50
	}
	if q.MaxRetriesPerNode <= 0 {
		q.MaxRetriesPerNode = 3
	}
	if q.DuplicateThreshold <= 0 || q.DuplicateThreshold > 1 {
		q.DuplicateThreshold = 0.85
	}
	if q.QualityThreshold <= 0 || q.QualityThreshold > 1 {
		q.QualityThreshold = 0.7
	}
	if q.ShortAnswerThreshold <= 0 || q.ShortAnswerThreshold > 1 {
		q.ShortAnswerThreshold = 0.6
	}
	if q.Concurrency <= 0 {
		q.Concurrency = 1
	}
	return q
}

func (r ReviewConfig) withDefaults() ReviewConfig {
	if r.DueSoonMinutes <= 0 {
		r.DueSoonMinutes = 60
	}
	if r.StatsCacheTTLMinutes <= 0 {
		r.StatsCacheTTLMinutes = 5
	}
	return r
}

// OracleTimeout 每次 Oracle 调用的超时上限，超时按一次失败尝试处理
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}
