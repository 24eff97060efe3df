package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 与原版应用保持一致的默认值
const (
	DEFAULT_MAX_NO_OF_WORDS = 10
	DEFAULT_SCORE_INCREASE  = 20
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	MaxNoOfWords  int    `mapstructure:"max_no_of_words"`
	ScoreIncrease int    `mapstructure:"score_increase"`
	WordListFile  string `mapstructure:"word_list_file"`

	// 会话空闲超过该时长后会被清理
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// 为空时排行榜只保存在内存中
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	RedisDB         int    `mapstructure:"redis_db"`
	LeaderboardSize int    `mapstructure:"leaderboard_size"`
}

func InitConfig() *AppConfig {
	config, err := LoadConfig("app_config")
	if err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	return config
}

// LoadConfig 读取 JSON 配置文件，文件不存在时使用默认值。
// 环境变量 UNSCRAMBLE_<KEY> 优先于文件中的值。
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("unscramble")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")

			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("检查配置文件失败: %w", err)
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("max_no_of_words", DEFAULT_MAX_NO_OF_WORDS)
	v.SetDefault("score_increase", DEFAULT_SCORE_INCREASE)
	v.SetDefault("word_list_file", "")
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("leaderboard_size", 10)
}

func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("端口无效: %d", c.Port)
	}
	if c.MaxNoOfWords < 1 {
		return fmt.Errorf("每局词数必须大于 0: %d", c.MaxNoOfWords)
	}
	if c.ScoreIncrease < 0 {
		return fmt.Errorf("加分不能为负数: %d", c.ScoreIncrease)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("会话过期时间必须大于 0: %s", c.SessionTTL)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("排行榜长度必须大于 0: %d", c.LeaderboardSize)
	}

	return nil
}
