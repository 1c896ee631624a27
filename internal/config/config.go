package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the original bot's tuning. The impatience limit is always
// half the history window.
const (
	DefaultLifespan   = 64
	DefaultDebounce   = 12 * time.Second
	DefaultWindow     = 16
	DefaultPersona    = "Al"
	DefaultCreatorTag = "auekha"
)

// Persona is the optional tuning file loaded from PERSONA_PATH. Zero values
// leave the defaults in place.
type Persona struct {
	Name       string `yaml:"name"`
	CreatorTag string `yaml:"creator_tag"`
	Lifespan   int    `yaml:"lifespan"`
	DebounceMS int    `yaml:"debounce_ms"`
	Window     int    `yaml:"window"`
}

// Config holds everything main needs to wire the bot.
type Config struct {
	DiscordToken string
	OpenAIKey    string
	GuildID      string

	OpenAIBaseURL string
	MetricsAddr   string
	JournalPath   string

	PersonaName string
	CreatorTag  string
	Lifespan    int
	Debounce    time.Duration
	Window      int
}

// ImpatienceLimit is the unreplied-message count that forces an early fire.
func (c *Config) ImpatienceLimit() int {
	return c.Window / 2
}

// Load reads configuration from the environment plus the optional persona
// file. Missing credentials are an error; the caller treats that as fatal.
func Load() (*Config, error) {
	cfg := &Config{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		GuildID:       os.Getenv("GUILD_ID"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		JournalPath:   os.Getenv("JOURNAL_PATH"),
		PersonaName:   DefaultPersona,
		CreatorTag:    DefaultCreatorTag,
		Lifespan:      DefaultLifespan,
		Debounce:      DefaultDebounce,
		Window:        DefaultWindow,
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not defined")
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not defined")
	}
	if cfg.GuildID == "" {
		return nil, fmt.Errorf("GUILD_ID is not defined")
	}

	if path := os.Getenv("PERSONA_PATH"); path != "" {
		if err := cfg.applyPersonaFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyPersonaFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read persona file: %w", err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse persona file: %w", err)
	}

	if p.Name != "" {
		c.PersonaName = p.Name
	}
	if p.CreatorTag != "" {
		c.CreatorTag = p.CreatorTag
	}
	if p.Lifespan > 0 {
		c.Lifespan = p.Lifespan
	}
	if p.DebounceMS > 0 {
		c.Debounce = time.Duration(p.DebounceMS) * time.Millisecond
	}
	if p.Window > 0 {
		c.Window = p.Window
	}
	return nil
}
