package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Redis    RedisConfig     `mapstructure:"redis"`
	JWT      JWTConfig       `mapstructure:"jwt"`
	App      AppConfig       `mapstructure:"app"`
	OSS      OSSConfig       `mapstructure:"oss"`
	Push     PushConfig      `mapstructure:"push"`
	Alipay   AlipayConfig    `mapstructure:"alipay"`
	Wechat   WechatPayConfig `mapstructure:"wechat"`
	Bank     BankConfig      `mapstructure:"bank"`
	Webhook  WebhookConfig   `mapstructure:"webhook"`
	Checkout CheckoutConfig  `mapstructure:"checkout"`
	Gateway  GatewayConfig   `mapstructure:"gateway"`
	NATS     NATSConfig      `mapstructure:"nats"`
	Tracing  TracingConfig   `mapstructure:"tracing"`
	Learning LearningConfig  `mapstructure:"learning"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	SignExpire      int64  `mapstructure:"sign_expire"` // 下载链接有效期（秒）
}

type PushConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	AppKey          int64  `mapstructure:"app_key"`
	RegionID        string `mapstructure:"region_id"` // e.g., "cn-hangzhou"
}

type AlipayConfig struct {
	AppID        string `mapstructure:"app_id"`
	PrivateKey   string `mapstructure:"private_key"` // 应用私钥
	PublicKey    string `mapstructure:"public_key"`  // 支付宝公钥 (不是应用公钥)
	NotifyURL    string `mapstructure:"notify_url"`  // 异步通知地址
	IsProduction bool   `mapstructure:"is_production"`
}

type WechatPayConfig struct {
	AppID                string `mapstructure:"app_id"`
	MchID                string `mapstructure:"mch_id"`
	MchCertificateSerial string `mapstructure:"mch_cert_serial"`
	MchPrivateKey        string `mapstructure:"mch_private_key"`
	APIv3Key             string `mapstructure:"apiv3_key"`
	NotifyURL            string `mapstructure:"notify_url"`
}

// BankConfig 银行转账收款账户（VietQR）
type BankConfig struct {
	BankID      string `mapstructure:"bank_id"` // e.g., "MB", "VCB"
	AccountNo   string `mapstructure:"account_no"`
	AccountName string `mapstructure:"account_name"`
	Template    string `mapstructure:"template"` // compact2 / qr_only / print
	QRBaseURL   string `mapstructure:"qr_base_url"`
}

// WebhookConfig 银行到账回调鉴权
type WebhookConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CheckoutConfig struct {
	PaymentFee          int64  `mapstructure:"payment_fee"`           // 固定手续费（VND）
	IndicatorPeriodDays int    `mapstructure:"indicator_period_days"` // 指标订阅周期
	DefaultChannel      string `mapstructure:"default_channel"`       // bank / alipay / wechat
}

// GatewayConfig 外部支付网关调用的超时、重试与熔断参数
type GatewayConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      uint64        `mapstructure:"max_retries"`
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerReset    time.Duration `mapstructure:"breaker_reset"`
}

type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP/HTTP，空则输出到 stdout
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type LearningConfig struct {
	CompletionThreshold float64 `mapstructure:"completion_threshold"` // 百分比
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	// 数据库配置验证
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	// Redis 配置验证
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	if c.Checkout.PaymentFee < 0 {
		return errors.New("checkout.payment_fee must not be negative")
	}
	if c.Checkout.IndicatorPeriodDays <= 0 {
		return errors.New("checkout.indicator_period_days must be positive")
	}
	if c.Learning.CompletionThreshold <= 0 || c.Learning.CompletionThreshold > 100 {
		return errors.New("learning.completion_threshold must be in (0, 100]")
	}

	return nil
}

// SetDefaults 注册默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("oss.sign_expire", 900)
	v.SetDefault("bank.template", "compact2")
	v.SetDefault("bank.qr_base_url", "https://img.vietqr.io/image")
	v.SetDefault("checkout.payment_fee", 0)
	v.SetDefault("checkout.indicator_period_days", 30)
	v.SetDefault("checkout.default_channel", "bank")
	v.SetDefault("gateway.timeout", 5*time.Second)
	v.SetDefault("gateway.max_retries", 2)
	v.SetDefault("gateway.breaker_failures", 5)
	v.SetDefault("gateway.breaker_reset", 30*time.Second)
	v.SetDefault("nats.subject_prefix", "commerce")
	v.SetDefault("tracing.service_name", "course-commerce")
	v.SetDefault("tracing.sample_ratio", 0.1)
	v.SetDefault("learning.completion_threshold", 70)
}

// LoadConfig 加载配置
func LoadConfig() {
	// .env 可选
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if apiKey := os.Getenv("WEBHOOK_API_KEY"); apiKey != "" {
		GlobalConfig.Webhook.APIKey = apiKey
	}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		GlobalConfig.NATS.URL = natsURL
	}

	// 验证配置
	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
