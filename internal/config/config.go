package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultPGHost         = "127.0.0.1"
	DefaultPGPort         = 5432
	DefaultPGUser         = "postgres"
	DefaultPGDatabase     = "leadwire"
	DefaultPGSSLMode      = "disable"
	DefaultQdrantHost     = "127.0.0.1"
	DefaultQdrantPort     = 6334
	DefaultEmbedderModel  = "text-embedding-3-small"
	DefaultLanguageCode   = "pt-br"
	DefaultRagLocation    = "global"
	DefaultOnMiss         = "create"
	DefaultAPIKeySecret   = "RAG_API_KEY"
	DefaultAgentTokenTTL  = "5m"
	DefaultAgentTimeoutS  = 30
	DefaultSearchTimeoutS = 15
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Qdrant   QdrantConfig   `toml:"qdrant"`
	Embedder EmbedderConfig `toml:"embedder"`
	Agent    AgentConfig    `toml:"agent"`
	Contact  ContactConfig  `toml:"contact"`
	Rag      RagConfig      `toml:"rag"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// URL renders the pool connection string in URL form.
func (c PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type QdrantConfig struct {
	Host           string  `toml:"host"`
	Port           int     `toml:"port"`
	APIKey         string  `toml:"api_key"`
	UseTLS         bool    `toml:"use_tls"`
	ScoreFloor     float64 `toml:"score_floor"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type EmbedderConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// AgentConfig points the routing pipeline at the conversational agent gateway.
type AgentConfig struct {
	BaseURL        string `toml:"base_url"`
	AgentID        string `toml:"agent_id"`
	LanguageCode   string `toml:"language_code"`
	TokenSecret    string `toml:"token_secret"`
	TokenTTL       string `toml:"token_ttl"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ContactConfig holds the contact-miss policy: "create" provisions a default
// record and proceeds, "reject" ends the flow with no agent call.
type ContactConfig struct {
	OnMiss string `toml:"on_miss"`
}

type RagConfig struct {
	DefaultLocation string `toml:"default_location"`
	DefaultProject  string `toml:"default_project"`
	APIKeySecret    string `toml:"api_key_secret"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Qdrant: QdrantConfig{
			Host:           DefaultQdrantHost,
			Port:           DefaultQdrantPort,
			TimeoutSeconds: DefaultSearchTimeoutS,
		},
		Embedder: EmbedderConfig{
			Model: DefaultEmbedderModel,
		},
		Agent: AgentConfig{
			LanguageCode:   DefaultLanguageCode,
			TokenTTL:       DefaultAgentTokenTTL,
			TimeoutSeconds: DefaultAgentTimeoutS,
		},
		Contact: ContactConfig{
			OnMiss: DefaultOnMiss,
		},
		Rag: RagConfig{
			DefaultLocation: DefaultRagLocation,
			APIKeySecret:    DefaultAPIKeySecret,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
