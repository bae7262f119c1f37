package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ArticlesEnhancer/internal/domain"
)

const (
	configPathEnv      = "ARTICLE_ENHANCER_CONFIG"
	logLevelEnv        = "LOG_LEVEL"
	portEnv            = "PORT"
	laravelAPIEnv      = "LARAVEL_API"
	storeURLEnv        = "ARTICLE_STORE_URL"
	storeDriverEnv     = "STORE_DRIVER"
	databaseDSNEnv     = "DATABASE_DSN"
	mongoURIEnv        = "MONGODB_URI"
	aiProviderEnv      = "AI_PROVIDER"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv     = "GEMINI_MODEL"
	chatGPTAPIKeyEnv   = "CHATGPT_API_KEY"
	chatGPTModelEnv    = "CHATGPT_MODEL"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	defaultStoreURL    = "http://127.0.0.1:8000/api/articles"
	defaultGeminiModel = "gemini-2.5-flash"
)

// Store drivers.
const (
	StoreHTTP     = "http"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongodb"
)

// AI providers.
const (
	ProviderGemini  = "gemini"
	ProviderChatGPT = "chatgpt"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Server        ServerConfig       `yaml:"server"`
	Store         StoreConfig        `yaml:"store"`
	Worker        WorkerConfig       `yaml:"worker"`
	Research      ResearchConfig     `yaml:"research"`
	AI            AIConfig           `yaml:"ai"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the liveness listener.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// StoreConfig selects and configures the article store backend.
type StoreConfig struct {
	Driver     string        `yaml:"driver"`
	URL        string        `yaml:"url"`
	DSN        string        `yaml:"dsn"`
	MongoURI   string        `yaml:"mongoUri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

// WorkerConfig tunes the polling loop.
type WorkerConfig struct {
	PollInterval time.Duration `yaml:"pollInterval"`
}

// ResearchConfig tunes the search-and-scrape stage.
type ResearchConfig struct {
	Engine          string        `yaml:"engine"`
	Endpoint        string        `yaml:"endpoint"`
	MaxSources      int           `yaml:"maxSources"`
	SearchTimeout   time.Duration `yaml:"searchTimeout"`
	PageTimeout     time.Duration `yaml:"pageTimeout"`
	MaxSnippetChars int           `yaml:"maxSnippetChars"`
	MinSnippetChars int           `yaml:"minSnippetChars"`
	OriginDomains   []string      `yaml:"originDomains"`
	FallbackText    string        `yaml:"fallbackText"`
	UserAgents      []string      `yaml:"userAgents"`
}

// AIConfig selects the text generator and bounds the prompt.
type AIConfig struct {
	Provider         string `yaml:"provider"`
	MaxOriginalChars int    `yaml:"maxOriginalChars"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	APIKey  string        `yaml:"apiKey"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChatGPTConfig defines how to contact an OpenAI-compatible API.
type ChatGPTConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Timeout      time.Duration `yaml:"timeout"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to the ARTICLE_ENHANCER_CONFIG variable.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}

	if v := os.Getenv(laravelAPIEnv); v != "" {
		c.Store.URL = v
	}
	if v := os.Getenv(storeURLEnv); v != "" {
		c.Store.URL = v
	}
	if v := os.Getenv(storeDriverEnv); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(mongoURIEnv); v != "" {
		c.Store.MongoURI = v
	}

	if v := os.Getenv(aiProviderEnv); v != "" {
		c.AI.Provider = strings.ToLower(v)
	}
	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}

	if override.Store.Driver != "" {
		base.Store.Driver = strings.ToLower(override.Store.Driver)
	}
	if override.Store.URL != "" {
		base.Store.URL = override.Store.URL
	}
	if override.Store.DSN != "" {
		base.Store.DSN = override.Store.DSN
	}
	if override.Store.MongoURI != "" {
		base.Store.MongoURI = override.Store.MongoURI
	}
	if override.Store.Database != "" {
		base.Store.Database = override.Store.Database
	}
	if override.Store.Collection != "" {
		base.Store.Collection = override.Store.Collection
	}
	if override.Store.Timeout > 0 {
		base.Store.Timeout = override.Store.Timeout
	}

	if override.Worker.PollInterval > 0 {
		base.Worker.PollInterval = override.Worker.PollInterval
	}

	r := override.Research
	if r.Engine != "" {
		base.Research.Engine = strings.ToLower(r.Engine)
	}
	if r.Endpoint != "" {
		base.Research.Endpoint = r.Endpoint
	}
	if r.MaxSources > 0 {
		base.Research.MaxSources = r.MaxSources
	}
	if r.SearchTimeout > 0 {
		base.Research.SearchTimeout = r.SearchTimeout
	}
	if r.PageTimeout > 0 {
		base.Research.PageTimeout = r.PageTimeout
	}
	if r.MaxSnippetChars > 0 {
		base.Research.MaxSnippetChars = r.MaxSnippetChars
	}
	if r.MinSnippetChars > 0 {
		base.Research.MinSnippetChars = r.MinSnippetChars
	}
	if len(r.OriginDomains) > 0 {
		base.Research.OriginDomains = r.OriginDomains
	}
	if r.FallbackText != "" {
		base.Research.FallbackText = r.FallbackText
	}
	if len(r.UserAgents) > 0 {
		base.Research.UserAgents = r.UserAgents
	}

	if override.AI.Provider != "" {
		base.AI.Provider = strings.ToLower(override.AI.Provider)
	}
	if override.AI.MaxOriginalChars > 0 {
		base.AI.MaxOriginalChars = override.AI.MaxOriginalChars
	}

	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.BaseURL != "" {
		base.Gemini.BaseURL = override.Gemini.BaseURL
	}
	if override.Gemini.Timeout > 0 {
		base.Gemini.Timeout = override.Gemini.Timeout
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}
	if override.ChatGPT.Timeout > 0 {
		base.ChatGPT.Timeout = override.ChatGPT.Timeout
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Port: "3000"},
		Store: StoreConfig{
			Driver:     StoreHTTP,
			URL:        defaultStoreURL,
			Database:   "articles",
			Collection: "articles",
			Timeout:    10 * time.Second,
		},
		Worker: WorkerConfig{PollInterval: 5 * time.Second},
		Research: ResearchConfig{
			Engine:          "google",
			MaxSources:      2,
			SearchTimeout:   5 * time.Second,
			PageTimeout:     4 * time.Second,
			MaxSnippetChars: 1500,
			MinSnippetChars: 100,
			OriginDomains:   []string{"beyondchats.com"},
			FallbackText:    domain.DefaultFallbackText,
		},
		AI: AIConfig{Provider: ProviderGemini, MaxOriginalChars: 5000},
		Gemini: GeminiConfig{
			Model:   defaultGeminiModel,
			Timeout: 60 * time.Second,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are an expert editor who rewrites articles as clean HTML.",
			Timeout:      60 * time.Second,
		},
	}
}
