package types

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LLM provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config is the full application configuration as read by viper.
type Config struct {
	LLM        LLMConfig        `json:"llm" yaml:"llm" mapstructure:"llm"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	RemNote    RemNoteConfig    `json:"remnote" yaml:"remnote" mapstructure:"remnote"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
	Cache      CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}

// AIConfig holds shared settings for calls to a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LLMConfig selects and tunes the card-generation backend.
type LLMConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Provider is "anthropic" or "gemini".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Concurrency bounds the number of topics generated at once.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// Timeout applies to each HTTP request made by a backend.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MinInterval is the minimum spacing between requests to the backend.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval" mapstructure:"min_interval"`
}

// GenerationConfig controls which cards are produced per topic.
type GenerationConfig struct {
	// CardTypes toggles each card type by name. Missing entries are enabled.
	CardTypes map[string]bool `json:"card_types" yaml:"card_types" mapstructure:"card_types"`

	// MultilineThreshold is the content length above which a multiline
	// card is derived from a topic.
	MultilineThreshold int `json:"multiline_threshold" yaml:"multiline_threshold" mapstructure:"multiline_threshold"`

	// PromptsDir optionally overrides the built-in prompt templates.
	PromptsDir string `json:"prompts_dir,omitempty" yaml:"prompts_dir,omitempty" mapstructure:"prompts_dir"`
}

// Enabled reports whether card type t should be generated.
func (g GenerationConfig) Enabled(t CardType) bool {
	on, ok := g.CardTypes[string(t)]
	return !ok || on
}

// EnabledTypes lists the enabled card types in canonical order.
func (g GenerationConfig) EnabledTypes() []CardType {
	var out []CardType
	for _, t := range AllCardTypes() {
		if g.Enabled(t) {
			out = append(out, t)
		}
	}
	return out
}

// RemNoteConfig controls serialization.
type RemNoteConfig struct {
	PreserveHierarchy bool `json:"preserve_hierarchy" yaml:"preserve_hierarchy" mapstructure:"preserve_hierarchy"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// IncludeStats writes <path>.stats.yaml next to the import file.
	IncludeStats bool `json:"include_stats" yaml:"include_stats" mapstructure:"include_stats"`

	// CardsFile, when set, receives a YAML dump of the generated cards.
	CardsFile string `json:"cards_file,omitempty" yaml:"cards_file,omitempty" mapstructure:"cards_file"`
}

// CacheConfig controls the generated-card cache.
type CacheConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" yaml:"dir" mapstructure:"dir"`
	LRUSize int    `json:"lru_size" yaml:"lru_size" mapstructure:"lru_size"`
}

// LogConfig holds the log level name (debug, info, warn, error).
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	cardTypes := make(map[string]bool)
	for _, t := range AllCardTypes() {
		cardTypes[string(t)] = true
	}
	return Config{
		LLM: LLMConfig{
			AIConfig: AIConfig{
				Model:      "claude-sonnet-4-5",
				MaxRetries: 3,
			},
			Provider:    ProviderAnthropic,
			Temperature: 0.3,
			MaxTokens:   2000,
			Concurrency: 4,
			Timeout:     60 * time.Second,
			MinInterval: 100 * time.Millisecond,
		},
		Generation: GenerationConfig{
			CardTypes:          cardTypes,
			MultilineThreshold: 200,
		},
		RemNote: RemNoteConfig{PreserveHierarchy: true},
		Output: OutputConfig{
			Path:         "output/flashcards.txt",
			IncludeStats: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cache",
			LRUSize: 256,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.LLM,
		validation.Field(&c.LLM.Provider, validation.Required, validation.In(ProviderAnthropic, ProviderGemini)),
		validation.Field(&c.LLM.Model, validation.Required),
		validation.Field(&c.LLM.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.LLM.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.LLM.Concurrency, validation.Required, validation.Min(1), validation.Max(32)),
		validation.Field(&c.LLM.MaxRetries, validation.Min(0)),
		validation.Field(&c.LLM.MinInterval, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Generation,
		validation.Field(&c.Generation.CardTypes, validation.By(validCardTypeKeys)),
		validation.Field(&c.Generation.MultilineThreshold, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Cache.Enabled {
		if err := validation.ValidateStruct(&c.Cache,
			validation.Field(&c.Cache.Dir, validation.Required),
			validation.Field(&c.Cache.LRUSize, validation.Required, validation.Min(1)),
		); err != nil {
			return err
		}
	}
	return validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.By(validLogLevel)),
	)
}

func validCardTypeKeys(value interface{}) error {
	m, _ := value.(map[string]bool)
	for k := range m {
		if _, err := ParseCardType(k); err != nil {
			return err
		}
	}
	return nil
}

func validLogLevel(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	var l slog.Level
	return l.UnmarshalText([]byte(s))
}
