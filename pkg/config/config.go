// Package config 提供 TOML 配置加载、环境变量覆盖与默认值
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/wyfcoding/bondtrading/pkg/logger"
)

// Config 交易管道配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// 输入数据配置
	Data DataConfig `mapstructure:"data"`
	// 算法参数配置
	Algo AlgoConfig `mapstructure:"algo"`
	// GUI 快照输出配置
	GUI GUIConfig `mapstructure:"gui"`
	// 数据库配置（历史数据落库，可选）
	Database DatabaseConfig `mapstructure:"database"`
	// 日志配置
	Logger logger.Config `mapstructure:"logger"`
}

// DataConfig 输入文件与输出目录
type DataConfig struct {
	// 参考价格文件
	PricesFile string `mapstructure:"prices_file" default:"data/prices.txt"`
	// 人工交易文件
	TradesFile string `mapstructure:"trades_file" default:"data/trades.txt"`
	// 行情文件
	MarketDataFile string `mapstructure:"market_data_file" default:"data/mktdata.txt"`
	// 询价文件
	InquiriesFile string `mapstructure:"inquiries_file" default:"data/inquiries.txt"`
	// 历史数据输出目录
	OutputDir string `mapstructure:"output_dir" default:"output"`
}

// AlgoConfig 算法阶段参数
type AlgoConfig struct {
	// 订单簿深度（每侧档位数）
	BookDepth int `mapstructure:"book_depth" default:"5"`
	// 穿越价差阈值，分数报价格式之外的十进制字符串，如 "0.0078125" (1/128)
	SpreadThreshold string `mapstructure:"spread_threshold" default:"0.0078125"`
	// 报价可见数量两档（交替使用）
	QuoteSizeA int64 `mapstructure:"quote_size_a" default:"1000000"`
	QuoteSizeB int64 `mapstructure:"quote_size_b" default:"2000000"`
	// 询价自动回价价格
	InquiryQuotePrice string `mapstructure:"inquiry_quote_price" default:"100"`
}

// GUIConfig 价格快照节流输出
type GUIConfig struct {
	// 节流间隔（毫秒）
	ThrottleMs int `mapstructure:"throttle_ms" default:"300"`
	// 最多输出的更新条数
	MaxUpdates int `mapstructure:"max_updates" default:"100"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：mysql
	Driver string `mapstructure:"driver" default:"mysql"`
	// 数据源名称，留空则跳过落库
	DSN string `mapstructure:"dsn"`
	// 最大连接数
	MaxOpenConns int `mapstructure:"max_open_conns" default:"25"`
	// 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns" default:"5"`
}

// Load 从 TOML 文件加载配置，使用默认值，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// 配置文件不存在时仅用默认值
	_ = v.ReadInConfig()

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		c.ServiceName = "tradingsystem"
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.Algo.BookDepth <= 0 {
		return fmt.Errorf("algo.book_depth must be positive, got %d", c.Algo.BookDepth)
	}
	if c.Algo.QuoteSizeA <= 0 || c.Algo.QuoteSizeB <= 0 {
		return fmt.Errorf("algo quote sizes must be positive")
	}
	if c.GUI.ThrottleMs < 0 {
		return fmt.Errorf("gui.throttle_ms must not be negative")
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "tradingsystem")
	v.SetDefault("environment", "dev")

	v.SetDefault("data.prices_file", "data/prices.txt")
	v.SetDefault("data.trades_file", "data/trades.txt")
	v.SetDefault("data.market_data_file", "data/mktdata.txt")
	v.SetDefault("data.inquiries_file", "data/inquiries.txt")
	v.SetDefault("data.output_dir", "output")

	v.SetDefault("algo.book_depth", 5)
	v.SetDefault("algo.spread_threshold", "0.0078125")
	v.SetDefault("algo.quote_size_a", int64(1000000))
	v.SetDefault("algo.quote_size_b", int64(2000000))
	v.SetDefault("algo.inquiry_quote_price", "100")

	v.SetDefault("gui.throttle_ms", 300)
	v.SetDefault("gui.max_updates", 100)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/tradingsystem.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)
}
