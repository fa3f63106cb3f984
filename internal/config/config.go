package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 主配置结构
type Config struct {
	App       App      `yaml:"app"`
	Server    Server   `yaml:"server"`
	Log       Log      `yaml:"log"`
	Database  DB       `yaml:"database"`
	Cache     Cache    `yaml:"cache"`
	Auth      Auth     `yaml:"auth"`
	Google    Google   `yaml:"google"`
	Airtable  Airtable `yaml:"airtable"`
	Tracker   Tracker  `yaml:"tracker"`
	CORS      CORS     `yaml:"cors"`
	RateLimit Limit    `yaml:"rate_limit"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
}

// 服务器配置
type Server struct {
	Port         int `yaml:"port"`
	ReadTimeout  int `yaml:"read_timeout"`
	WriteTimeout int `yaml:"write_timeout"`
}

// 日志配置
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// 数据库配置（提交审核队列）
type DB struct {
	Driver   string `yaml:"driver"` // mysql | sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// 缓存配置（Redis，仅用于点击计数加锁）
type Cache struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
	AdminEmail      string `yaml:"admin_email"`
	AdminLandingURL string `yaml:"admin_landing_url"`
}

// Google OAuth 配置
type Google struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	UserInfoURL  string `yaml:"userinfo_url"`
	TimeoutSec   int    `yaml:"timeout_seconds"`
}

// Airtable 配置
type Airtable struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	BaseID     string `yaml:"base_id"`
	Table      string `yaml:"table"`
	View       string `yaml:"view"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

// 点击追踪配置
type Tracker struct {
	CallTimeoutSec int `yaml:"call_timeout_seconds"`
	QueueSize      int `yaml:"queue_size"`
	Workers        int `yaml:"workers"`
	LockTTLSec     int `yaml:"lock_ttl_seconds"`
}

// 跨域配置
type CORS struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// 限流配置
type Limit struct {
	Enabled   bool     `yaml:"enabled"`
	Requests  int64    `yaml:"requests_per_minute"`
	Burst     int64    `yaml:"burst"`
	SkipPaths []string `yaml:"skip_paths"`
}

// 加载配置：先读 YAML，再用环境变量覆盖密钥类配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Google.ClientID, "GOOGLE_CLIENT_ID")
	set(&c.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	set(&c.Google.RedirectURI, "GOOGLE_REDIRECT_URI")
	set(&c.Auth.Secret, "JWT_SECRET")
	set(&c.Auth.AdminEmail, "ADMIN_EMAIL")
	set(&c.Airtable.APIKey, "AIRTABLE_API_KEY")
	set(&c.Airtable.BaseID, "AIRTABLE_BASE_ID")
	set(&c.Airtable.Table, "AIRTABLE_TABLE")
	set(&c.Database.Password, "DB_PASSWORD")
	set(&c.Cache.Password, "REDIS_PASSWORD")

	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.ExpirationHours == 0 {
		c.Auth.ExpirationHours = 24
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "bookdirectstays"
	}
	if c.Auth.AdminLandingURL == "" {
		c.Auth.AdminLandingURL = "/admin"
	}
	if c.Google.TimeoutSec == 0 {
		c.Google.TimeoutSec = 5
	}
	if c.Airtable.Table == "" {
		c.Airtable.Table = "Hosts"
	}
	if c.Airtable.TimeoutSec == 0 {
		c.Airtable.TimeoutSec = 5
	}
	if c.Tracker.CallTimeoutSec == 0 {
		c.Tracker.CallTimeoutSec = 5
	}
	if c.Tracker.QueueSize == 0 {
		c.Tracker.QueueSize = 256
	}
	if c.Tracker.Workers == 0 {
		c.Tracker.Workers = 2
	}
	if c.Tracker.LockTTLSec == 0 {
		// 租期覆盖一次读加一次写，再留一倍余量
		c.Tracker.LockTTLSec = 3 * c.Tracker.CallTimeoutSec
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
}

// Validate 检查启动所必需的配置项
func (c *Config) Validate() error {
	var missing []string
	required := map[string]string{
		"google.client_id":     c.Google.ClientID,
		"google.client_secret": c.Google.ClientSecret,
		"google.redirect_uri":  c.Google.RedirectURI,
		"auth.secret":          c.Auth.Secret,
		"auth.admin_email":     c.Auth.AdminEmail,
		"airtable.api_key":     c.Airtable.APIKey,
		"airtable.base_id":     c.Airtable.BaseID,
	}
	for key, val := range required {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("缺少必要配置: %s", strings.Join(missing, ", "))
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return errors.New("database.driver 只支持 mysql 或 sqlite")
	}
	if c.Auth.ExpirationHours <= 0 {
		return fmt.Errorf("auth.expiration_hours 必须大于 0，当前为 %d", c.Auth.ExpirationHours)
	}
	if c.Tracker.LockTTLSec <= 2*c.Tracker.CallTimeoutSec {
		return fmt.Errorf("tracker.lock_ttl_seconds (%d) 必须大于两次调用超时之和 (%d)",
			c.Tracker.LockTTLSec, 2*c.Tracker.CallTimeoutSec)
	}
	return nil
}

// SessionTTL 管理员会话有效期
func (a Auth) SessionTTL() time.Duration {
	return time.Duration(a.ExpirationHours) * time.Hour
}

// Timeout Google 调用超时
func (g Google) Timeout() time.Duration {
	return time.Duration(g.TimeoutSec) * time.Second
}

// Timeout Airtable 调用超时
func (a Airtable) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// CallTimeout 单次远程调用超时
func (t Tracker) CallTimeout() time.Duration {
	return time.Duration(t.CallTimeoutSec) * time.Second
}

// LockTTL 每个 host 的锁租期
func (t Tracker) LockTTL() time.Duration {
	return time.Duration(t.LockTTLSec) * time.Second
}
