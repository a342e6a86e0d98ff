package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Database    DatabaseConfig    `yaml:"database"`
	MongoDB     MongoConfig       `yaml:"mongodb"`
	EmbedLLM    LLMConfig         `yaml:"embed_llm"`
	ChatLLM     LLMConfig         `yaml:"chat_llm"`
	RAG         RAGConfig         `yaml:"rag"`
	Seed        SeedConfig        `yaml:"seed"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	APIKey         string   `yaml:"api_key"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// VectorStoreConfig selects and parameterizes the chunk repository.
type VectorStoreConfig struct {
	Provider   string `yaml:"provider"` // chromem | postgres | mongodb
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type MongoConfig struct {
	URI         string `yaml:"uri"`
	Database    string `yaml:"database"`
	Collection  string `yaml:"collection"`
	VectorIndex string `yaml:"vector_index"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // openai | ollama
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Translator   string `yaml:"translator"`
}

type SeedConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Dir       string `yaml:"dir"`
	SessionID string `yaml:"session_id"`
}

// LoadConfig reads the yaml file, overlays secrets from the environment
// (a .env file is honored if present) and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overlay(&cfg.Server.APIKey, "APP_API_KEY")
	overlay(&cfg.Database.Password, "DATABASE_PASSWORD")
	overlay(&cfg.MongoDB.URI, "MONGODB_URI")
	overlay(&cfg.EmbedLLM.Key, "EMBED_LLM_KEY")
	overlay(&cfg.ChatLLM.Key, "CHAT_LLM_KEY")
}

func overlay(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.Path == "" {
		cfg.VectorStore.Path = "./chromemdb"
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "cv_chunks"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.RAG.Translator == "" {
		cfg.RAG.Translator = "identity"
	}
	if cfg.Seed.SessionID == "" {
		cfg.Seed.SessionID = "sample-session"
	}
}
