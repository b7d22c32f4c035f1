package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"termchat/internal/file"
)

// Provider names for the model backend.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

var defaultConfig = Config{
	Provider:   ProviderOllama,
	Model:      "llama3.2",
	OllamaHost: "http://localhost:11434",

	OpenaiAPIKey:  "API_KEY",
	OpenaiAPIHost: "https://api.openai.com/v1",

	Database: "~/.config/termchat/chats.db",

	Search: &SearchConfig{
		Enabled:    false,
		MaxResults: 5,
	},
}

// Config holds configuration for the termchat tool.
type Config struct {
	// Provider selects the model backend: "ollama" or "openai".
	Provider string `json:"provider"`
	// Model identifier sent with every request.
	Model string `json:"model"`
	// OllamaHost is the URL of the local Ollama server.
	OllamaHost string `json:"ollama_host"`

	OpenaiAPIKey  string `json:"openai_api_key"`
	OpenaiAPIHost string `json:"openai_api_host"`

	// Database is the path of the SQLite file holding all chats.
	Database string `json:"database"`

	Search *SearchConfig `json:"search"`
}

// SearchConfig holds configuration for the web search augmenter.
type SearchConfig struct {
	// Enabled turns search on by default for new sessions.
	Enabled bool `json:"enabled"`
	// MaxResults caps the number of results injected as context.
	MaxResults int `json:"max_results"`
}

// Parse a configuration file, creating it with defaults on first run.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if config.Search == nil {
		config.Search = defaultConfig.Search
	}

	expandedDatabasePath, err := file.ExpandPath(config.Database)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Database = expandedDatabasePath
	if err := file.CreateDirectoryIfNotExist(filepath.Dir(config.Database)); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}

	return config, nil
}

func initializeIfNotPresent(path string) error {
	exists, err := file.Exists(path)
	if err != nil {
		return errors.Wrap(err, "checking config existence")
	}
	if exists {
		return nil
	}

	if err := file.CreateDirectoryIfNotExist(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	bytes, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling default config")
	}
	return os.WriteFile(path, bytes, 0644)
}
