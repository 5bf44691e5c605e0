package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
)

// Config 应用配置
type Config struct {
	Port string `toml:"port"`

	// 密钥只从环境变量读取
	XiniuAccessKeyID     string `toml:"-"`
	XiniuAccessKeySecret string `toml:"-"`
	MetasoSecretKey      string `toml:"-"`
	QichachaAppKey       string `toml:"-"`
	QichachaSecretKey    string `toml:"-"`

	XiniuBaseURL    string `toml:"xiniu_base_url"`
	MetasoURL       string `toml:"metaso_url"`
	QichachaBaseURL string `toml:"qichacha_base_url"`

	CallTimeout Duration `toml:"call_timeout"` // 单次外部调用超时
	CacheTTL    Duration `toml:"cache_ttl"`
	Workers     int      `toml:"workers"` // 每个sheet内的并发数，1 为顺序处理

	InputDir       string   `toml:"input_dir"`
	OutputDir      string   `toml:"output_dir"`
	PeerFundsPath  string   `toml:"peer_funds_path"`
	DealLogPath    string   `toml:"deal_log_path"`
	CompanyColumns []string `toml:"company_columns"`

	// sheet名 -> [起始行, 结束行)，数据行从0开始
	Ranges map[string][2]int `toml:"ranges"`
}

// Duration 支持 "30s" 形式的toml字段
type Duration struct {
	time.Duration
}

// UnmarshalText 实现文本反序列化
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return eris.Wrapf(err, "config: invalid duration %q", string(text))
	}
	d.Duration = v
	return nil
}

// MarshalText 实现文本序列化
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Port:           "8080",
		CallTimeout:    Duration{30 * time.Second},
		CacheTTL:       Duration{24 * time.Hour},
		Workers:        1,
		InputDir:       "data/input/excel",
		OutputDir:      "data/output",
		PeerFundsPath:  "data/input/pf_companies.json",
		DealLogPath:    "data/input/deallog_companies.json",
		CompanyColumns: []string{"示范企业名称", "企业名称"},
		Ranges:         map[string][2]int{},
	}
}

// Load 加载配置：默认值 -> toml文件（可选，path为空或不存在时跳过） -> 环境变量
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, eris.Wrapf(err, "config: parse %s", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, eris.Wrapf(err, "config: read %s", path)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.XiniuAccessKeyID = getEnv("XINIU_ACCESS_KEY_ID", "")
	c.XiniuAccessKeySecret = getEnv("XINIU_ACCESS_KEY_SECRET", "")
	c.MetasoSecretKey = getEnv("METASO_SECRET_KEY", "")
	c.QichachaAppKey = getEnv("QICHACHA_APP_KEY", "")
	c.QichachaSecretKey = getEnv("QICHACHA_SECRET_KEY", "")

	c.XiniuBaseURL = getEnv("XINIU_BASE_URL", c.XiniuBaseURL)
	c.MetasoURL = getEnv("METASO_URL", c.MetasoURL)
	c.QichachaBaseURL = getEnv("QICHACHA_BASE_URL", c.QichachaBaseURL)

	c.InputDir = getEnv("ENRICH_INPUT_DIR", c.InputDir)
	c.OutputDir = getEnv("ENRICH_OUTPUT_DIR", c.OutputDir)

	if v := getEnv("ENRICH_WORKERS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := getEnv("ENRICH_CALL_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CallTimeout = Duration{d}
		}
	}
}

// Validate 检查核心流程需要的密钥，缺失时返回包含所有缺失项的错误
func (c *Config) Validate() error {
	var missing []string
	if c.XiniuAccessKeyID == "" {
		missing = append(missing, "XINIU_ACCESS_KEY_ID")
	}
	if c.XiniuAccessKeySecret == "" {
		missing = append(missing, "XINIU_ACCESS_KEY_SECRET")
	}
	if c.MetasoSecretKey == "" {
		missing = append(missing, "METASO_SECRET_KEY")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required secrets: %s", strings.Join(missing, ", "))
	}
	if c.Workers < 1 {
		return eris.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	if c.CallTimeout.Duration <= 0 {
		return eris.New("config: call_timeout must be positive")
	}
	return nil
}

// ValidateRegistry 检查工商变更接口的密钥
func (c *Config) ValidateRegistry() error {
	if c.QichachaAppKey == "" || c.QichachaSecretKey == "" {
		return eris.New("config: missing QICHACHA_APP_KEY or QICHACHA_SECRET_KEY")
	}
	return nil
}

// RangeFor sheet的行范围，未配置时返回整表
func (c *Config) RangeFor(sheet string) (start, end int, ok bool) {
	r, ok := c.Ranges[sheet]
	if !ok {
		return 0, 0, false
	}
	return r[0], r[1], true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
