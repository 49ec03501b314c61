package config

import (
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 支付监听链配置
type ChainConfig struct {
	Enabled       bool   `mapstructure:"enabled"`        // 是否启用链上支付监听
	RpcUrl        string `mapstructure:"rpc_url"`        // RPC节点URL
	ContractAddr  string `mapstructure:"contract_addr"`  // 募资合约地址
	StartBlock    uint64 `mapstructure:"start_block"`    // 起始区块号
	Confirmations uint64 `mapstructure:"confirmations"`  // 确认区块数
	BatchSize     uint64 `mapstructure:"batch_size"`     // 单次扫描区块数
	PollInterval  int    `mapstructure:"poll_interval"`  // 轮询间隔（秒）
	WorkerPool    int    `mapstructure:"worker_pool"`    // 事件处理协程池大小
}

// AdminConfig 管理员身份配置
type AdminConfig struct {
	Addresses []string `mapstructure:"addresses"` // 管理员地址列表
}

// IsAdmin 判断地址是否为管理员
func (a AdminConfig) IsAdmin(addr common.Address) bool {
	for _, s := range a.Addresses {
		if common.HexToAddress(s) == addr {
			return true
		}
	}
	return false
}

type TaskConfig struct {
	Interval           int `mapstructure:"interval"`            // 任务间隔（秒）
	DistributeInterval int `mapstructure:"distribute_interval"` // 自动分配间隔（秒）
	DistributeMinAge   int `mapstructure:"distribute_min_age"`  // 收益条目最小滞留时间（秒），到期才自动分配
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/cineflare")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "cineflare")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.enabled", false)
	viper.SetDefault("chain.start_block", 0)
	viper.SetDefault("chain.confirmations", 12)
	viper.SetDefault("chain.batch_size", 1000)
	viper.SetDefault("chain.poll_interval", 60)
	viper.SetDefault("chain.worker_pool", 8)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("task.distribute_interval", 3600)
	viper.SetDefault("task.distribute_min_age", 86400)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
