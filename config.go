package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDir    = ".tubebrief"
	defaultModel = "llama-3.3-70b-versatile"

	defaultMaxResults   = 5
	defaultPageMaxChars = 6000
	minPageMaxChars     = 500
)

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	AnalystPromptPath *string
	MinerPromptPath   *string
	EditorPromptPath  *string
	TemplatePath      *string
}

// Embedded default summary template
//
//go:embed .tubebrief/summary-template.md
var defaultTemplate string

// Settings represents the YAML configuration structure
type Settings struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	OutputDirectory string             `yaml:"output_directory"`
	Provider        ProviderSettings   `yaml:"provider"`
	Transcript      TranscriptSettings `yaml:"transcript"`
	Agents          struct {
		Analyst AgentSettings `yaml:"analyst"`
		Miner   AgentSettings `yaml:"miner"`
		Editor  AgentSettings `yaml:"editor"`
	} `yaml:"agents"`
	Search SearchSettings `yaml:"search"`
}

// AgentSettings configures one generative stage.
type AgentSettings struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// ProviderSettings configures the chat completions endpoint.
type ProviderSettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call budget for one completion request.
func (s ProviderSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// TranscriptSettings configures the transcript fetch path.
type TranscriptSettings struct {
	ProxyHost      string `yaml:"proxy_host"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call budget for one transcript request.
func (s TranscriptSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// SearchSettings configures the miner's web tools.
type SearchSettings struct {
	MaxResults     int `yaml:"max_results"`
	PageMaxChars   int `yaml:"page_max_chars"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the per-call budget for one tool request.
func (s SearchSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Config holds configuration and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetAnalystPrompt returns the analyst system prompt override, or empty to
// use the built-in stage prompt.
func (c *Config) GetAnalystPrompt() string {
	return c.readOverride(func(o *ConfigOverrides) *string { return o.AnalystPromptPath })
}

// GetMinerPrompt returns the miner system prompt override, or empty to use
// the built-in stage prompt.
func (c *Config) GetMinerPrompt() string {
	return c.readOverride(func(o *ConfigOverrides) *string { return o.MinerPromptPath })
}

// GetEditorPrompt returns the editor system prompt override, or empty to use
// the built-in stage prompt.
func (c *Config) GetEditorPrompt() string {
	return c.readOverride(func(o *ConfigOverrides) *string { return o.EditorPromptPath })
}

// GetTemplate returns the summary file template (from override file or embedded)
func (c *Config) GetTemplate() string {
	if content := c.readOverride(func(o *ConfigOverrides) *string { return o.TemplatePath }); content != "" {
		return content
	}
	return defaultTemplate
}

func (c *Config) readOverride(path func(*ConfigOverrides) *string) string {
	if c.Overrides == nil {
		return ""
	}
	p := path(c.Overrides)
	if p == nil {
		return ""
	}
	content, err := os.ReadFile(*p)
	if err != nil {
		return ""
	}
	return string(content)
}

// CheckOverrides verifies every override path is readable, so a mistyped
// flag fails at startup instead of being silently ignored per request.
func (c *Config) CheckOverrides() error {
	if c.Overrides == nil {
		return nil
	}

	checks := []struct {
		name string
		path *string
	}{
		{"analyst prompt", c.Overrides.AnalystPromptPath},
		{"miner prompt", c.Overrides.MinerPromptPath},
		{"editor prompt", c.Overrides.EditorPromptPath},
		{"template", c.Overrides.TemplatePath},
	}
	for _, check := range checks {
		if check.path == nil {
			continue
		}
		if _, err := os.Stat(*check.path); err != nil {
			return fmt.Errorf("%s file missing: %s", check.name, *check.path)
		}
	}

	return nil
}

// loadSettings loads settings from the default location
func loadSettings() (*Settings, error) {
	settingsPath := getConfigPath("settings.yaml")

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	settings.applyDefaults()
	return &settings, nil
}

// applyDefaults fills unset fields and enforces minimums.
func (s *Settings) applyDefaults() {
	if s.Server.Addr == "" {
		s.Server.Addr = ":8000"
	}
	if s.OutputDirectory == "" {
		s.OutputDirectory = "summaries"
	}
	if s.Provider.BaseURL == "" {
		s.Provider.BaseURL = defaultGroqBaseURL
	}
	if s.Transcript.ProxyHost == "" {
		s.Transcript.ProxyHost = webshareHost
	}

	for _, agent := range []*AgentSettings{&s.Agents.Analyst, &s.Agents.Miner, &s.Agents.Editor} {
		if agent.Model == "" {
			agent.Model = defaultModel
		}
		if agent.MaxTokens <= 0 {
			agent.MaxTokens = 4096
		}
	}

	if s.Search.MaxResults < 1 {
		log.Printf("Warning: search.max_results is %d, defaulting to %d", s.Search.MaxResults, defaultMaxResults)
		s.Search.MaxResults = defaultMaxResults
	}
	if s.Search.PageMaxChars < minPageMaxChars {
		log.Printf("Warning: search.page_max_chars is %d, defaulting to %d (minimum %d)", s.Search.PageMaxChars, defaultPageMaxChars, minPageMaxChars)
		s.Search.PageMaxChars = defaultPageMaxChars
	}
}

// getConfigPath returns the path to a config file in the .tubebrief directory
func getConfigPath(filename string) string {
	return filepath.Join(configDir, filename)
}

// ensureConfigExists creates the config directory and default files if they don't exist
func ensureConfigExists() error {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// Write default settings if it doesn't exist
	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		defaultSettings := `server:
  addr: ":8000"
output_directory: summaries
provider:
  base_url: https://api.groq.com/openai/v1
  timeout_seconds: 120
transcript:
  proxy_host: p.webshare.io:80
  timeout_seconds: 30
agents:
  analyst:
    model: llama-3.3-70b-versatile
    max_tokens: 4096
    temperature: 0.3
  miner:
    model: llama-3.3-70b-versatile
    max_tokens: 4096
    temperature: 0.4
  editor:
    model: llama-3.3-70b-versatile
    max_tokens: 6000
    temperature: 0.2
search:
  max_results: 5
  page_max_chars: 6000
  timeout_seconds: 20
`
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("failed to write default settings: %w", err)
		}
	}

	return nil
}
