package config

import (
	"os"
	"time"
)

// Default configuration values.
const (
	defaultSearchURL      = "https://localhost:9200"
	defaultIndexPrefix    = "wazuh-alerts-4.x-"
	defaultSearchRetries  = 3
	defaultSearchTimeout  = 30 * time.Second
	defaultWebSearchURL   = "https://html.duckduckgo.com/html/"
	defaultWebSearchLimit = 5
	defaultWebRegion      = "wt-wt"
	defaultHTTPTimeout    = 15 * time.Second
	defaultLLMModel       = "claude-sonnet-4-5"
	defaultLLMMaxTokens   = 4096
	defaultLLMTemperature = 0.7
	defaultReportDays     = 7
	defaultMaxSampleSize  = 1000
	defaultSampleLimit    = 200
	defaultOutputDir      = "./reports"
	defaultLogoPath       = "./logo-full-color-cropped.png"
	defaultWeatherURL     = "https://api.openweathermap.org"
	defaultGeoCountry     = "CZ"
	defaultStocksURL      = "https://query1.finance.yahoo.com"
	defaultServerAddress  = ":8002"
	defaultServerTimeout  = 60 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
)

// Transport values accepted by the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search"`
	WebSearch WebSearchConfig `yaml:"web_search"`
	LLM       LLMConfig       `yaml:"llm"`
	Report    ReportConfig    `yaml:"report"`
	Weather   WeatherConfig   `yaml:"weather"`
	Stocks    StocksConfig    `yaml:"stocks"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SearchConfig holds the incident index backend configuration.
type SearchConfig struct {
	URL                string        `env:"OPENSEARCH_URL"      yaml:"url"`
	Username           string        `env:"OPENSEARCH_USERNAME" yaml:"username"`
	Password           string        `env:"OPENSEARCH_PASSWORD" yaml:"password"`
	InsecureSkipVerify bool          `env:"OPENSEARCH_INSECURE" yaml:"insecure_skip_verify"`
	IndexPrefix        string        `yaml:"index_prefix"`
	MaxRetries         int           `yaml:"max_retries"`
	Timeout            time.Duration `yaml:"timeout"`
}

// WebSearchConfig holds the web search tool configuration.
type WebSearchConfig struct {
	BaseURL    string        `yaml:"base_url"`
	MaxResults int           `yaml:"max_results"`
	Region     string        `yaml:"region"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LLMConfig holds the chat model configuration. BaseURL may point at a
// proxy that fronts other model providers.
type LLMConfig struct {
	BaseURL     string  `env:"ANTHROPIC_BASE_URL" yaml:"base_url"`
	APIKey      string  `env:"ANTHROPIC_API_KEY"  yaml:"api_key"`
	Model       string  `env:"LLM_MODEL"          yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	Days          int    `env:"REPORT_DAYS"          yaml:"days"`
	MaxSampleSize int    `env:"MAX_INCIDENTS_SAMPLE" yaml:"max_sample_size"`
	SampleLimit   int    `yaml:"sample_limit"`
	OutputDir     string `env:"REPORT_OUTPUT_DIR"    yaml:"output_dir"`
	LogoPath      string `env:"COMPANY_LOGO_PATH"    yaml:"logo_path"`
}

// WeatherConfig holds the OpenWeatherMap client configuration.
type WeatherConfig struct {
	APIKey      string        `env:"OPENWEATHERMAP_API_KEY" yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	CountryCode string        `yaml:"country_code"`
	Timeout     time.Duration `yaml:"timeout"`
}

// StocksConfig holds the stock quote client configuration.
type StocksConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig holds the MCP server transport configuration.
type ServerConfig struct {
	Transport       string        `env:"MCP_TRANSPORT" yaml:"transport"`
	Address         string        `env:"MCP_ADDRESS"   yaml:"address"`
	Debug           bool          `env:"APP_DEBUG"     yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	return LoadFileWithDefaults[Config](path, setDefaults)
}

// LoadOrDefault loads configuration from path, falling back to defaults
// (still honoring environment overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := NewDefault()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return Load(path)
}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	setSearchDefaults(&cfg.Search)
	setWebSearchDefaults(&cfg.WebSearch)
	setLLMDefaults(&cfg.LLM)
	setReportDefaults(&cfg.Report)
	setWeatherDefaults(&cfg.Weather)
	setStocksDefaults(&cfg.Stocks)
	setServerDefaults(&cfg.Server)
	setLoggingDefaults(&cfg.Logging)
}

func setSearchDefaults(s *SearchConfig) {
	if s.URL == "" {
		s.URL = defaultSearchURL
	}
	if s.IndexPrefix == "" {
		s.IndexPrefix = defaultIndexPrefix
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = defaultSearchRetries
	}
	if s.Timeout == 0 {
		s.Timeout = defaultSearchTimeout
	}
}

func setWebSearchDefaults(w *WebSearchConfig) {
	if w.BaseURL == "" {
		w.BaseURL = defaultWebSearchURL
	}
	if w.MaxResults == 0 {
		w.MaxResults = defaultWebSearchLimit
	}
	if w.Region == "" {
		w.Region = defaultWebRegion
	}
	if w.Timeout == 0 {
		w.Timeout = defaultHTTPTimeout
	}
}

func setLLMDefaults(l *LLMConfig) {
	if l.Model == "" {
		l.Model = defaultLLMModel
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = defaultLLMMaxTokens
	}
	if l.Temperature == 0 {
		l.Temperature = defaultLLMTemperature
	}
}

func setReportDefaults(r *ReportConfig) {
	if r.Days == 0 {
		r.Days = defaultReportDays
	}
	if r.MaxSampleSize == 0 {
		r.MaxSampleSize = defaultMaxSampleSize
	}
	if r.SampleLimit == 0 {
		r.SampleLimit = defaultSampleLimit
	}
	if r.OutputDir == "" {
		r.OutputDir = defaultOutputDir
	}
	if r.LogoPath == "" {
		r.LogoPath = defaultLogoPath
	}
}

func setWeatherDefaults(w *WeatherConfig) {
	if w.BaseURL == "" {
		w.BaseURL = defaultWeatherURL
	}
	if w.CountryCode == "" {
		w.CountryCode = defaultGeoCountry
	}
	if w.Timeout == 0 {
		w.Timeout = defaultHTTPTimeout
	}
}

func setStocksDefaults(s *StocksConfig) {
	if s.BaseURL == "" {
		s.BaseURL = defaultStocksURL
	}
	if s.Timeout == 0 {
		s.Timeout = defaultHTTPTimeout
	}
}

func setServerDefaults(s *ServerConfig) {
	if s.Transport == "" {
		s.Transport = TransportStdio
	}
	if s.Address == "" {
		s.Address = defaultServerAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultServerTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultServerTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
